package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/record"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	"github.com/darkowlzz/cloudsecret-operator/convert"
	csctrl "github.com/darkowlzz/cloudsecret-operator/controller"
	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	eventv1 "github.com/darkowlzz/cloudsecret-operator/event/v1"
	"github.com/darkowlzz/cloudsecret-operator/model"
	providers "github.com/darkowlzz/cloudsecret-operator/provider"
	"github.com/darkowlzz/cloudsecret-operator/status"
	"github.com/darkowlzz/cloudsecret-operator/telemetry"
)

const (
	// DefaultRecheckInterval is the period of the authentication check of a
	// ready provider.
	DefaultRecheckInterval = 10 * time.Minute

	// DefaultRetryInterval is the period of the authentication check of a
	// provider that isn't ready.
	DefaultRetryInterval = time.Minute

	instrumentationName = "github.com/darkowlzz/cloudsecret-operator/controller/provider"
)

// Authenticator resolves provider resources into authenticated clients.
type Authenticator interface {
	ClientFor(ctx context.Context, p *model.ProviderResource) (providers.Client, error)
	Invalidate(name string)
}

var _ Authenticator = &providers.Factory{}

// Reconciler reconciles CloudSecretProviders of the API version served by
// Adapter.
type Reconciler struct {
	client.Client
	Adapter       convert.Adapter
	Authenticator Authenticator
	Recorder      record.EventRecorder
	Clock         clock.PassiveClock

	RecheckInterval time.Duration
	RetryInterval   time.Duration

	Log             logr.Logger
	Instrumentation *telemetry.Instrumentation

	once sync.Once

	mu sync.Mutex
	// generations holds the last seen generation per provider.
	generations map[string]int64
}

func (r *Reconciler) setDefaults() {
	if r.Adapter == nil {
		r.Adapter = convert.V1alpha2{}
	}
	if r.Recorder == nil {
		r.Recorder = &record.FakeRecorder{}
	}
	if r.Clock == nil {
		r.Clock = clock.RealClock{}
	}
	if r.RecheckInterval == 0 {
		r.RecheckInterval = DefaultRecheckInterval
	}
	if r.RetryInterval == 0 {
		r.RetryInterval = DefaultRetryInterval
	}
	if r.Log.GetSink() == nil {
		r.Log = ctrl.Log.WithName("controllers").WithName("cloudsecretprovider")
	}
	if r.Instrumentation == nil {
		r.Instrumentation = telemetry.NewInstrumentationWithProviders(instrumentationName, nil, r.Log)
	}
	r.generations = map[string]int64{}
}

//+kubebuilder:rbac:groups=64f.dev,resources=cloudsecretproviders,verbs=get;list;watch
//+kubebuilder:rbac:groups=64f.dev,resources=cloudsecretproviders/status,verbs=get;update;patch

// Reconcile checks the authentication of one CloudSecretProvider.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, reterr error) {
	r.once.Do(r.setDefaults)
	start := time.Now()

	ctx, span, log := r.Instrumentation.Start(ctx, "cloudsecretprovider.Reconcile")
	defer span.End()
	log = log.WithValues("provider", req.Name)
	defer csctrl.LogReconcileFinish(log, "reconciliation finished", start, &result, &reterr)

	obj := r.Adapter.NewProvider()
	if err := r.Get(ctx, req.NamespacedName, obj); err != nil {
		if apierrors.IsNotFound(err) {
			r.forget(req.Name)
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	p, err := r.Adapter.ProviderToModel(obj)
	if err != nil {
		return ctrl.Result{}, err
	}
	if r.observe(p) {
		log.V(1).Info("provider spec changed, dropping cached credentials", "generation", p.Generation)
		r.Authenticator.Invalidate(p.Name)
	}

	ready, checkErr := r.check(ctx, p)
	cond := metav1.Condition{
		Type:               v1alpha2.ReadyCondition,
		Status:             metav1.ConditionTrue,
		Reason:             v1alpha2.AuthenticationSucceededReason,
		Message:            fmt.Sprintf("authenticated to %s in %s", p.Kind, p.Region),
		ObservedGeneration: p.Generation,
	}
	if !ready {
		cond.Status = metav1.ConditionFalse
		cond.Reason = v1alpha2.AuthenticationFailedReason
		cond.Message = checkErr.Error()
	}

	if err := r.writeReady(ctx, obj, p, cond); err != nil {
		return ctrl.Result{}, err
	}

	if !ready {
		log.Info("provider authentication failed", "error", checkErr.Error())
		if cserrors.IsConfig(checkErr) {
			// Terminal until the spec changes.
			return ctrl.Result{}, nil
		}
		return ctrl.Result{RequeueAfter: r.RetryInterval}, nil
	}
	return ctrl.Result{RequeueAfter: r.RecheckInterval}, nil
}

// check validates the provider and authenticates against it.
func (r *Reconciler) check(ctx context.Context, p *model.ProviderResource) (bool, error) {
	if err := model.ValidateProvider(p); err != nil {
		return false, err
	}
	c, err := r.Authenticator.ClientFor(ctx, p)
	if err != nil {
		return false, err
	}
	if err := c.Check(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// writeReady sets the Ready condition and updates the status when it
// changed. Transitions are recorded as events.
func (r *Reconciler) writeReady(ctx context.Context, obj client.Object, p *model.ProviderResource, cond metav1.Condition) error {
	conds := append([]metav1.Condition(nil), p.Conditions...)
	prev := meta.FindStatusCondition(conds, v1alpha2.ReadyCondition)
	transition := prev == nil || prev.Status != cond.Status || prev.Reason != cond.Reason

	if !status.SetCondition(&conds, cond, metav1.NewTime(r.Clock.Now()).Rfc3339Copy()) {
		return nil
	}
	if err := r.Adapter.WriteProviderStatus(obj, conds); err != nil {
		return err
	}
	if err := r.Status().Update(ctx, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to update provider status: %w", err)
	}

	if transition {
		e := eventv1.ProviderReady{Object: obj, Reason: cond.Reason, Message: cond.Message, Ready: cond.Status == metav1.ConditionTrue}
		e.Record(r.Recorder)
	}
	return nil
}

// observe records the generation of p and returns true when it differs
// from the last seen one.
func (r *Reconciler) observe(p *model.ProviderResource) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	last, seen := r.generations[p.Name]
	r.generations[p.Name] = p.Generation
	return seen && last != p.Generation
}

func (r *Reconciler) forget(name string) {
	r.mu.Lock()
	delete(r.generations, name)
	r.mu.Unlock()
	r.Authenticator.Invalidate(name)
}

// SetupWithManager registers the controller.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager, opts controller.Options) error {
	r.once.Do(r.setDefaults)

	return ctrl.NewControllerManagedBy(mgr).
		Named("cloudsecretprovider").
		For(r.Adapter.NewProvider(), builder.WithPredicates(predicate.GenerationChangedPredicate{})).
		WithOptions(opts).
		Complete(r)
}
