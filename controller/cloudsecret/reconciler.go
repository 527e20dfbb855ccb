package cloudsecret

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"k8s.io/client-go/util/retry"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
	"sigs.k8s.io/controller-runtime/pkg/source"

	"github.com/darkowlzz/cloudsecret-operator/action"
	"github.com/darkowlzz/cloudsecret-operator/convert"
	csctrl "github.com/darkowlzz/cloudsecret-operator/controller"
	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	"github.com/darkowlzz/cloudsecret-operator/metrics"
	cspredicate "github.com/darkowlzz/cloudsecret-operator/predicate"
	"github.com/darkowlzz/cloudsecret-operator/provider"
	"github.com/darkowlzz/cloudsecret-operator/scheduler"
	"github.com/darkowlzz/cloudsecret-operator/telemetry"
)

const (
	// LabelCloudSecret is set on derived secrets to the owning CloudSecret
	// name.
	LabelCloudSecret = "64f.dev/cloudsecret"

	// AnnotationFingerprint holds the fingerprint of the last successful
	// sync.
	AnnotationFingerprint = "64f.dev/fingerprint"

	// AnnotationRotatedAt holds a JSON map of target key to its last
	// rotation time.
	AnnotationRotatedAt = "64f.dev/rotated-at"

	// AnnotationDataHash holds the hash of the data written by the last
	// sync. A mismatch means the secret was edited by someone else.
	AnnotationDataHash = "64f.dev/data-hash"

	// DefaultConflictRetries bounds the retries of a reconciliation that hit
	// a write conflict.
	DefaultConflictRetries = 3

	// DefaultAPITimeout is the deadline of a Kubernetes API call.
	DefaultAPITimeout = 30 * time.Second

	// DefaultProviderName is the provider used by CloudSecrets that don't
	// name one.
	DefaultProviderName = "default"

	instrumentationName = "github.com/darkowlzz/cloudsecret-operator/controller/cloudsecret"
)

// Reconciler reconciles CloudSecrets of the API version served by Adapter.
type Reconciler struct {
	client.Client
	Scheme    *runtime.Scheme
	Adapter   convert.Adapter
	Providers provider.Getter
	Actions   *action.Engine
	Scheduler *scheduler.Scheduler
	Recorder  record.EventRecorder

	// Clock is used for rotation deadlines and condition times.
	Clock clock.PassiveClock
	// DefaultProvider is the provider of CloudSecrets that don't name one.
	DefaultProvider string
	// ConflictRetries bounds the retries on write conflicts.
	ConflictRetries int
	// APITimeout bounds every Kubernetes API call of a reconciliation.
	APITimeout time.Duration

	Log             logr.Logger
	Instrumentation *telemetry.Instrumentation

	once sync.Once
}

func (r *Reconciler) setDefaults() {
	if r.Adapter == nil {
		r.Adapter = convert.V1alpha2{}
	}
	if r.Actions == nil {
		r.Actions = action.New()
	}
	if r.Scheduler == nil {
		r.Scheduler = scheduler.New()
	}
	if r.Recorder == nil {
		r.Recorder = &record.FakeRecorder{}
	}
	if r.Clock == nil {
		r.Clock = clock.RealClock{}
	}
	if r.DefaultProvider == "" {
		r.DefaultProvider = DefaultProviderName
	}
	if r.ConflictRetries == 0 {
		r.ConflictRetries = DefaultConflictRetries
	}
	if r.APITimeout == 0 {
		r.APITimeout = DefaultAPITimeout
	}
	if r.Log.GetSink() == nil {
		r.Log = ctrl.Log.WithName("controllers").WithName("cloudsecret")
	}
	if r.Instrumentation == nil {
		r.Instrumentation = telemetry.NewInstrumentationWithProviders(instrumentationName, nil, r.Log)
	}
}

//+kubebuilder:rbac:groups=64f.dev,resources=cloudsecrets,verbs=get;list;watch
//+kubebuilder:rbac:groups=64f.dev,resources=cloudsecrets/status,verbs=get;update;patch
//+kubebuilder:rbac:groups="",resources=secrets,verbs=get;list;watch;create;update;patch
//+kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile syncs one CloudSecret. Write conflicts restart the
// reconciliation from a fresh read, up to ConflictRetries times.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, reterr error) {
	r.once.Do(r.setDefaults)
	start := time.Now()

	ctx, span, log := r.Instrumentation.Start(ctx, "cloudsecret.Reconcile")
	defer span.End()
	log = log.WithValues("cloudsecret", req.NamespacedName.String())
	defer csctrl.LogReconcileFinish(log, "reconciliation finished", start, &result, &reterr)

	r.Scheduler.Begin(req.NamespacedName)
	defer r.Scheduler.Done(req.NamespacedName)

	backoff := retry.DefaultRetry
	backoff.Steps = r.ConflictRetries + 1
	attempt := 0
	reterr = retry.OnError(backoff, cserrors.IsConflict, func() error {
		if attempt > 0 {
			log.V(1).Info("write conflict, retrying with the latest version", "attempt", attempt)
		}
		attempt++
		return r.reconcile(ctx, log, req.NamespacedName)
	})
	if reterr != nil {
		metrics.ObserveReconcile(metrics.ResultError)
	}
	return result, reterr
}

func (r *Reconciler) reconcile(ctx context.Context, log logr.Logger, key types.NamespacedName) error {
	obj := r.Adapter.NewSecret()
	gctx, cancel := context.WithTimeout(ctx, r.APITimeout)
	defer cancel()
	if err := r.Get(gctx, key, obj); err != nil {
		if apierrors.IsNotFound(err) {
			log.V(1).Info("resource deleted, forgetting")
			r.Scheduler.Forget(key)
			return nil
		}
		return err
	}
	if obj.GetDeletionTimestamp() != nil {
		r.Scheduler.Forget(key)
		return nil
	}

	res, err := r.Adapter.SecretToModel(obj, r.DefaultProvider)
	if err != nil {
		return err
	}

	err = newSync(r, log, obj, res).run(ctx)
	if errors.Is(err, errDeleted) {
		log.V(1).Info("resource deleted during the sync, forgetting")
		r.Scheduler.Forget(key)
		return nil
	}
	return err
}

// SetupWithManager registers the controller. Ticks of the scheduler and
// changes of the provider resources enqueue CloudSecrets in addition to the
// CloudSecret and derived Secret watches.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager, opts controller.Options) error {
	r.once.Do(r.setDefaults)

	return ctrl.NewControllerManagedBy(mgr).
		Named("cloudsecret").
		For(r.Adapter.NewSecret(), builder.WithPredicates(
			predicate.GenerationChangedPredicate{},
			cspredicate.DeletionHook{OnDelete: r.Scheduler.Forget},
		)).
		Owns(&corev1.Secret{}, builder.WithPredicates(cspredicate.SecretDataChangedPredicate{})).
		Watches(
			&source.Kind{Type: r.Adapter.NewProvider()},
			handler.EnqueueRequestsFromMapFunc(r.secretsForProvider),
			builder.WithPredicates(predicate.GenerationChangedPredicate{}),
		).
		Watches(r.Scheduler.Source(), &handler.EnqueueRequestForObject{}).
		WithOptions(opts).
		Complete(r)
}

// secretsForProvider returns the CloudSecrets using the given provider.
func (r *Reconciler) secretsForProvider(obj client.Object) []reconcile.Request {
	list := r.Adapter.NewSecretList()
	if err := r.List(context.Background(), list); err != nil {
		r.Log.Error(err, "failed to list cloudsecrets", "provider", obj.GetName())
		return nil
	}

	var reqs []reconcile.Request
	for _, item := range r.Adapter.SecretsFromList(list) {
		res, err := r.Adapter.SecretToModel(item, r.DefaultProvider)
		if err != nil || res.Provider != obj.GetName() {
			continue
		}
		reqs = append(reqs, reconcile.Request{NamespacedName: client.ObjectKeyFromObject(item)})
	}
	return reqs
}
