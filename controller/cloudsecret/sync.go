package cloudsecret

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/darkowlzz/cloudsecret-operator/action"
	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	cserrors "github.com/darkowlzz/cloudsecret-operator/error"
	eventv1 "github.com/darkowlzz/cloudsecret-operator/event/v1"
	"github.com/darkowlzz/cloudsecret-operator/metrics"
	"github.com/darkowlzz/cloudsecret-operator/model"
	"github.com/darkowlzz/cloudsecret-operator/object"
	"github.com/darkowlzz/cloudsecret-operator/planner"
	"github.com/darkowlzz/cloudsecret-operator/provider"
	"github.com/darkowlzz/cloudsecret-operator/status"
)

// Reconcile outcomes recorded in metrics.
const (
	resultSynced        = "synced"
	resultUnchanged     = "unchanged"
	resultMissingKey    = "missing_key"
	resultInvalid       = "invalid"
	resultConfigError   = "config_error"
	resultProviderError = "provider_error"
)

// errDeleted stops a sync once the resource is known to be gone.
var errDeleted = errors.New("resource deleted during the sync")

// phases are the conditions entered while a plan executes.
var phases = []string{
	v1alpha2.ApplyingCondition,
	v1alpha2.RotatingCondition,
	v1alpha2.ValidatingCondition,
}

// syncRun is a single reconciliation attempt of one CloudSecret.
type syncRun struct {
	*Reconciler
	log logr.Logger

	key     types.NamespacedName
	obj     client.Object
	res     *model.SecretResource
	rep     *status.Reporter
	refresh time.Duration
	entered map[string]bool
}

// execution collects the values produced by a plan.
type execution struct {
	data      map[string][]byte
	generated map[string][]byte
	rotated   []string
	validated bool
	invalid   *multierror.Error
}

func newSync(r *Reconciler, log logr.Logger, obj client.Object, res *model.SecretResource) *syncRun {
	rep := status.NewReporter(r.Client, r.Adapter, obj, res.Status,
		status.WithClock(r.Clock),
		status.WithLogger(log),
		status.WithTimeout(r.APITimeout),
	)
	return &syncRun{
		Reconciler: r,
		log:        log,
		key:        client.ObjectKeyFromObject(obj),
		obj:        obj,
		res:        res,
		rep:        rep,
		entered:    map[string]bool{},
	}
}

func (s *syncRun) run(ctx context.Context) error {
	if err := model.Validate(s.res); err != nil {
		return s.handle(ctx, err)
	}
	s.refresh, _ = s.res.RefreshInterval.Duration()

	pc, err := s.Providers.Get(ctx, s.res.Provider)
	if err != nil {
		return s.handle(ctx, err)
	}
	keys, version, err := pc.ListKeys(ctx, s.res.SourceName)
	if err != nil {
		return s.handle(ctx, err)
	}
	secret, err := s.readDerived(ctx)
	if err != nil {
		return s.handle(ctx, err)
	}

	in := planner.Input{
		Resource:        s.res,
		ProviderKeys:    keys,
		ProviderVersion: version,
		Now:             s.Clock.Now(),
	}
	if secret != nil {
		in.Derived = secret.Data
		if in.Derived == nil {
			in.Derived = map[string][]byte{}
		}
		in.RotatedAt = parseRotatedAt(secret.Annotations[AnnotationRotatedAt])
		in.PreviousFingerprint = secret.Annotations[AnnotationFingerprint]
		in.PreviousDataHash = secret.Annotations[AnnotationDataHash]
	}
	plan, err := planner.Compute(in)
	if err != nil {
		return s.handle(ctx, err)
	}
	s.log.V(1).Info("plan computed", "steps", plan.Steps, "fingerprint", plan.Fingerprint)

	if plan.IsNoop() && secret != nil && formatRotatedAt(plan.RotatedAt) == secret.Annotations[AnnotationRotatedAt] {
		return s.unchanged(ctx, plan)
	}

	s.rep.SetTarget(s.res.DerivedSecretName())
	if err := s.enter(ctx, v1alpha2.ReconcilingCondition, ""); err != nil {
		return s.handle(ctx, err)
	}
	if err := s.enter(ctx, v1alpha2.ApplyingCondition, fmt.Sprintf("applying %d step(s)", len(plan.Steps))); err != nil {
		return s.handle(ctx, err)
	}

	ex, err := s.execute(ctx, pc, plan, version, secret)
	if err != nil {
		return s.handle(ctx, err)
	}
	if ex.invalid != nil && s.res.Strict {
		return s.rejectStrict(ctx, ex)
	}
	return s.apply(ctx, pc, plan, version, secret, ex)
}

// readDerived returns the derived secret, nil when it doesn't exist. A
// secret controlled by another object is a configuration error.
func (s *syncRun) readDerived(ctx context.Context) (*corev1.Secret, error) {
	secret := &corev1.Secret{}
	key := types.NamespacedName{Namespace: s.res.Namespace, Name: s.res.DerivedSecretName()}
	gctx, cancel := context.WithTimeout(ctx, s.APITimeout)
	defer cancel()
	if err := s.Get(gctx, key, secret); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, platformError("GetSecret", err)
	}
	if ref := metav1.GetControllerOf(secret); ref != nil && !object.IsControlledBy(secret, s.obj) {
		return nil, cserrors.NewConfigError("secretName", "secret %s is controlled by %s %s", secret.Name, ref.Kind, ref.Name)
	}
	return secret, nil
}

// unchanged settles the conditions of a sync without changes. The status is
// only written when the stored conditions are stale.
func (s *syncRun) unchanged(ctx context.Context, plan *planner.Plan) error {
	for _, st := range plan.Steps {
		metrics.ObservePlanStep(string(st.Op))
	}
	s.rep.SetTarget(s.res.DerivedSecretName())
	for _, phase := range phases {
		if c := s.rep.Condition(phase); c != nil && c.Status == metav1.ConditionTrue {
			s.rep.Set(phase, metav1.ConditionFalse, v1alpha2.UnchangedReason, "")
		}
	}
	s.settle(v1alpha2.SyncedCondition, metav1.ConditionTrue, v1alpha2.UnchangedReason, syncedMessage(plan, s.res))
	s.settle(v1alpha2.ReconcilingCondition, metav1.ConditionFalse, v1alpha2.UnchangedReason, "")
	if err := s.flush(ctx); err != nil {
		return s.handle(ctx, err)
	}
	s.Scheduler.Schedule(s.key, s.refresh, plan.NextRotation)
	metrics.ObserveReconcile(resultUnchanged)
	return nil
}

// settle sets a condition, keeping its reason and message when it already
// has the given status.
func (s *syncRun) settle(condType string, st metav1.ConditionStatus, reason, message string) {
	if c := s.rep.Condition(condType); c != nil && c.Status == st {
		reason, message = c.Reason, c.Message
	}
	s.rep.Set(condType, st, reason, message)
}

// enter marks a phase as in progress once per sync.
func (s *syncRun) enter(ctx context.Context, phase, message string) error {
	if s.entered[phase] {
		return nil
	}
	s.entered[phase] = true
	s.rep.Set(phase, metav1.ConditionTrue, v1alpha2.ProgressingReason, message)
	return s.flush(ctx)
}

func (s *syncRun) exit(ctx context.Context, phase, reason, message string) error {
	s.rep.Set(phase, metav1.ConditionFalse, reason, message)
	return s.flush(ctx)
}

// flush writes the status. It returns errDeleted when the write found the
// resource gone, after which the sync must not touch the provider, the
// derived secret or the timer.
func (s *syncRun) flush(ctx context.Context) error {
	if err := s.rep.Flush(ctx); err != nil {
		return platformError("UpdateStatus", err)
	}
	if s.rep.Deleted() {
		return errDeleted
	}
	return nil
}

func (s *syncRun) request(step planner.Step, phase model.Phase, policy *model.ActionSpec) action.Request {
	return action.Request{Resource: s.key, Key: step.Target, Phase: phase, Policy: policy}
}

// execute runs the plan steps and collects the resulting values. Nothing is
// written. Without strict, data starts from the current derived secret so
// that a rejected value keeps its previous one.
func (s *syncRun) execute(ctx context.Context, pc provider.Client, plan *planner.Plan, version string, secret *corev1.Secret) (*execution, error) {
	ex := &execution{data: map[string][]byte{}, generated: map[string][]byte{}}
	var existing map[string][]byte
	if secret != nil {
		existing = secret.Data
	}
	if !s.res.Strict {
		for k, v := range existing {
			ex.data[k] = v
		}
	}

	for _, step := range plan.Steps {
		metrics.ObservePlanStep(string(step.Op))

		switch step.Op {
		case planner.OpRemove:
			delete(ex.data, step.Target)
			continue
		case planner.OpUnchanged:
			if v, ok := existing[step.Target]; ok {
				ex.data[step.Target] = v
				continue
			}
		}

		if step.Generate {
			phase := model.PhaseCreate
			if step.Op == planner.OpRotate {
				phase = model.PhaseRotate
				if err := s.enter(ctx, v1alpha2.RotatingCondition, ""); err != nil {
					return nil, err
				}
			}
			v, err := s.Actions.Generate(ctx, s.request(step, phase, step.Policy))
			if err != nil {
				if invalid, _ := cserrors.IsInvalid(err); invalid {
					ex.invalid = multierror.Append(ex.invalid, err)
					continue
				}
				return nil, err
			}
			ex.generated[step.Source] = v
			ex.data[step.Target] = v
			if step.Op == planner.OpRotate {
				ex.rotated = append(ex.rotated, step.Target)
			}
			continue
		}

		val, err := pc.FetchKey(ctx, s.res.SourceName, step.Source)
		if err != nil {
			if cserrors.IsNotFound(err) {
				return nil, cserrors.NewMissingKeyError(step.Source)
			}
			return nil, err
		}
		// Every value must come from the listed version, the fingerprint
		// is computed from it.
		if val.VersionID != "" && val.VersionID != version {
			return nil, &cserrors.ProviderError{
				Provider:  s.res.Provider,
				Op:        "FetchKey",
				Temporary: true,
				Err:       fmt.Errorf("source secret %s changed from version %s to %s during the sync", s.res.SourceName, version, val.VersionID),
			}
		}
		if step.Validate != nil {
			if err := s.enter(ctx, v1alpha2.ValidatingCondition, ""); err != nil {
				return nil, err
			}
			ex.validated = true
			if err := s.Actions.Validate(ctx, s.request(step, model.PhaseValidate, step.Validate), val.Data); err != nil {
				if invalid, _ := cserrors.IsInvalid(err); invalid {
					ex.invalid = multierror.Append(ex.invalid, err)
					continue
				}
				return nil, err
			}
		}
		ex.data[step.Target] = val.Data
	}
	return ex, nil
}

// rejectStrict fails a strict sync with invalid values before any write.
func (s *syncRun) rejectStrict(ctx context.Context, ex *execution) error {
	msg := invalidMessage(ex.invalid)
	s.closePhases(v1alpha2.ValidationFailedReason, msg)
	s.rep.Set(v1alpha2.SyncedCondition, metav1.ConditionFalse, v1alpha2.ValidationFailedReason, msg)
	s.rep.Set(v1alpha2.ReconcilingCondition, metav1.ConditionFalse, v1alpha2.ValidationFailedReason, msg)
	eventv1.SyncFailed{Object: s.obj, Reason: v1alpha2.ValidationFailedReason, Message: msg}.Record(s.Recorder)
	if err := s.flush(ctx); err != nil {
		return s.handle(ctx, err)
	}
	s.Scheduler.Schedule(s.key, s.refresh, time.Time{})
	metrics.ObserveReconcile(resultInvalid)
	return nil
}

// apply writes generated values to the provider, then the derived secret,
// then the final conditions.
func (s *syncRun) apply(ctx context.Context, pc provider.Client, plan *planner.Plan, version string, secret *corev1.Secret, ex *execution) error {
	if len(ex.generated) > 0 {
		v, err := pc.PutKeys(ctx, s.res.SourceName, ex.generated)
		if err != nil {
			return s.handle(ctx, err)
		}
		version = v
	}

	// A rejected value keeps the previous fingerprint so that it's checked
	// again on the next sync.
	fingerprint := planner.Fingerprint(s.res, plan.Keys, version)
	if ex.invalid != nil {
		fingerprint = ""
		if secret != nil {
			fingerprint = secret.Annotations[AnnotationFingerprint]
		}
	}

	op, err := s.writeDerived(ctx, ex.data, fingerprint, formatRotatedAt(plan.RotatedAt))
	if err != nil {
		return s.handle(ctx, err)
	}
	s.log.Info("derived secret written", "secret", s.res.DerivedSecretName(), "operation", op, "version", version)

	if ex.validated {
		reason, msg := v1alpha2.ValidationSucceededReason, ""
		if ex.invalid != nil {
			reason, msg = v1alpha2.ValidationFailedReason, invalidMessage(ex.invalid)
		}
		if err := s.exit(ctx, v1alpha2.ValidatingCondition, reason, msg); err != nil {
			return s.handle(ctx, err)
		}
	}
	reason := v1alpha2.SecretAppliedReason
	if len(ex.rotated) > 0 {
		reason = v1alpha2.SecretRotatedReason
		if err := s.exit(ctx, v1alpha2.RotatingCondition, v1alpha2.SecretRotatedReason, fmt.Sprintf("rotated %s", strings.Join(ex.rotated, ", "))); err != nil {
			return s.handle(ctx, err)
		}
	}
	if err := s.exit(ctx, v1alpha2.ApplyingCondition, v1alpha2.SecretAppliedReason, ""); err != nil {
		return s.handle(ctx, err)
	}

	s.rep.SetSynced(version)
	result := resultSynced
	if ex.invalid != nil {
		msg := invalidMessage(ex.invalid)
		s.rep.Set(v1alpha2.SyncedCondition, metav1.ConditionFalse, v1alpha2.ValidationFailedReason, msg)
		s.rep.Set(v1alpha2.ReconcilingCondition, metav1.ConditionFalse, v1alpha2.ValidationFailedReason, msg)
		eventv1.SyncFailed{Object: s.obj, Reason: v1alpha2.ValidationFailedReason, Message: msg}.Record(s.Recorder)
		result = resultInvalid
	} else {
		s.rep.Set(v1alpha2.SyncedCondition, metav1.ConditionTrue, reason, syncedMessage(plan, s.res))
		s.rep.Set(v1alpha2.ReconcilingCondition, metav1.ConditionFalse, reason, "")
	}
	if err := s.flush(ctx); err != nil {
		return s.handle(ctx, err)
	}

	if op != controllerutil.OperationResultNone {
		eventv1.SecretApplied{Object: s.obj, Secret: s.res.DerivedSecretName(), Reason: v1alpha2.SecretAppliedReason, Keys: len(plan.Keys)}.Record(s.Recorder)
	}
	if len(ex.rotated) > 0 {
		eventv1.KeysRotated{Object: s.obj, Keys: ex.rotated}.Record(s.Recorder)
	}
	s.Scheduler.Schedule(s.key, s.refresh, plan.NextRotation)
	metrics.ObserveReconcile(result)
	return nil
}

func (s *syncRun) writeDerived(ctx context.Context, data map[string][]byte, fingerprint, rotatedAt string) (controllerutil.OperationResult, error) {
	ref, err := object.ControllerReference(s.Scheme, s.obj)
	if err != nil {
		return controllerutil.OperationResultNone, err
	}

	// Generated values are already stored in the provider. A conflict only
	// retries the write so that they are never generated twice.
	op := controllerutil.OperationResultNone
	err = retry.RetryOnConflict(retry.DefaultRetry, func() error {
		wctx, cancel := context.WithTimeout(ctx, s.APITimeout)
		defer cancel()

		derived := &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: s.res.DerivedSecretName(), Namespace: s.res.Namespace}}
		var err error
		op, err = controllerutil.CreateOrUpdate(wctx, s.Client, derived, func() error {
			if derived.Labels == nil {
				derived.Labels = map[string]string{}
			}
			derived.Labels[LabelCloudSecret] = s.res.Name
			setAnnotation(derived, AnnotationFingerprint, fingerprint)
			setAnnotation(derived, AnnotationRotatedAt, rotatedAt)
			setAnnotation(derived, AnnotationDataHash, planner.DataHash(data))
			derived.OwnerReferences = upsertOwnerReference(derived.OwnerReferences, ref)
			if derived.Type == "" {
				derived.Type = corev1.SecretTypeOpaque
			}
			derived.Data = data
			return nil
		})
		return err
	})
	return op, platformError("WriteSecret", err)
}

// handle records a failed sync and arms the next attempt. Conflicts and
// unexpected errors are returned, the latter after recording the failure.
func (s *syncRun) handle(ctx context.Context, err error) error {
	var pe *cserrors.ProviderError
	switch {
	case errors.Is(err, errDeleted), cserrors.IsConflict(err):
		return err

	case cserrors.IsConfig(err):
		s.fail(metav1.ConditionFalse, v1alpha2.InvalidConfigurationReason, err)
		if ferr := s.flush(ctx); ferr != nil {
			return ferr
		}
		s.Scheduler.Cancel(s.key)
		metrics.ObserveReconcile(resultConfigError)
		s.log.Info("invalid configuration, waiting for a spec change", "error", err.Error())
		return nil

	case isMissingKey(err):
		s.fail(metav1.ConditionFalse, v1alpha2.MissingKeyReason, err)
		if ferr := s.flush(ctx); ferr != nil {
			return ferr
		}
		s.Scheduler.Schedule(s.key, s.refresh, time.Time{})
		metrics.ObserveReconcile(resultMissingKey)
		return nil

	case errors.As(err, &pe) || cserrors.IsTransient(err):
		reason := v1alpha2.ProviderErrorReason
		if cserrors.IsTransient(err) {
			reason = v1alpha2.SourceUnavailableReason
		}
		s.fail(metav1.ConditionTrue, reason, err)
		if ferr := s.flush(ctx); ferr != nil {
			return ferr
		}
		limit := s.refresh
		if limit == 0 {
			limit, _ = model.DefaultRefreshInterval.Duration()
		}
		delay := s.Scheduler.Backoff(s.key, limit)
		metrics.ObserveReconcile(resultProviderError)
		s.log.Info("provider failure, backing off", "error", err.Error(), "delay", delay.String())
		return nil
	}

	s.fail(metav1.ConditionTrue, v1alpha2.ProviderErrorReason, err)
	if ferr := s.flush(ctx); errors.Is(ferr, errDeleted) {
		return ferr
	}
	return err
}

// platformError classifies a failed Kubernetes API call like a provider
// failure. Deadlines and throttling are transient. Conflicts are kept as is.
func platformError(op string, err error) error {
	if err == nil || cserrors.IsConflict(err) {
		return err
	}
	temporary := errors.Is(err, context.DeadlineExceeded) ||
		apierrors.IsTimeout(err) ||
		apierrors.IsServerTimeout(err) ||
		apierrors.IsTooManyRequests(err)
	return &cserrors.ProviderError{Provider: "kubernetes", Op: op, Temporary: temporary, Err: err}
}

// fail closes the open phases and sets Reconciling with the failure reason.
// A terminal failure also marks the resource as not synced.
func (s *syncRun) fail(reconciling metav1.ConditionStatus, reason string, err error) {
	msg := err.Error()
	s.closePhases(reason, msg)
	s.rep.Set(v1alpha2.ReconcilingCondition, reconciling, reason, msg)
	if reconciling == metav1.ConditionFalse {
		s.rep.Set(v1alpha2.SyncedCondition, metav1.ConditionFalse, reason, msg)
	}
	eventv1.SyncFailed{Object: s.obj, Reason: reason, Message: msg}.Record(s.Recorder)
}

func (s *syncRun) closePhases(reason, msg string) {
	for _, phase := range phases {
		if c := s.rep.Condition(phase); c != nil && c.Status == metav1.ConditionTrue {
			s.rep.Set(phase, metav1.ConditionFalse, reason, msg)
		}
	}
}

func isMissingKey(err error) bool {
	missing, _ := cserrors.IsMissingKey(err)
	return missing
}

func syncedMessage(plan *planner.Plan, r *model.SecretResource) string {
	return fmt.Sprintf("%d key(s) synced to secret %s", len(plan.Keys), r.DerivedSecretName())
}

func invalidMessage(merr *multierror.Error) string {
	msgs := make([]string, 0, len(merr.Errors))
	for _, err := range merr.Errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func setAnnotation(obj metav1.Object, key, value string) {
	annotations := obj.GetAnnotations()
	if value == "" {
		delete(annotations, key)
		obj.SetAnnotations(annotations)
		return
	}
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[key] = value
	obj.SetAnnotations(annotations)
}

func upsertOwnerReference(refs []metav1.OwnerReference, ref metav1.OwnerReference) []metav1.OwnerReference {
	for i := range refs {
		if refs[i].UID == ref.UID {
			refs[i] = ref
			return refs
		}
	}
	return append(refs, ref)
}
