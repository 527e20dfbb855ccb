package status

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	"github.com/darkowlzz/cloudsecret-operator/convert"
	"github.com/darkowlzz/cloudsecret-operator/model"
	"github.com/darkowlzz/cloudsecret-operator/object"
)

// Reporter accumulates the status of one CloudSecret during a reconciliation
// and flushes it through the adapter of the served API version.
type Reporter struct {
	client  client.Client
	adapter convert.Adapter
	clock   clock.PassiveClock
	log     logr.Logger
	timeout time.Duration

	obj        client.Object
	generation int64
	status     model.Status
	deleted    bool
	writes     int
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithClock sets the clock used for transition times.
func WithClock(c clock.PassiveClock) Option {
	return func(r *Reporter) {
		r.clock = c
	}
}

// WithTimeout bounds every status update.
func WithTimeout(d time.Duration) Option {
	return func(r *Reporter) {
		r.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(r *Reporter) {
		r.log = l
	}
}

// NewReporter returns a Reporter for obj, starting from its current status.
func NewReporter(c client.Client, adapter convert.Adapter, obj client.Object, current model.Status, opts ...Option) *Reporter {
	r := &Reporter{
		client:     c,
		adapter:    adapter,
		clock:      clock.RealClock{},
		log:        ctrl.Log.WithName("status"),
		obj:        obj,
		generation: obj.GetGeneration(),
		status:     copyStatus(current),
		deleted:    obj.GetDeletionTimestamp() != nil,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func copyStatus(s model.Status) model.Status {
	out := s
	out.Conditions = append([]metav1.Condition(nil), s.Conditions...)
	if s.LastSyncTime != nil {
		out.LastSyncTime = s.LastSyncTime.DeepCopy()
	}
	return out
}

// Status returns a copy of the accumulated status.
func (r *Reporter) Status() model.Status {
	return copyStatus(r.status)
}

// Object returns the object as last written.
func (r *Reporter) Object() client.Object {
	return r.obj
}

// Condition returns the condition of the given type, nil if not set.
func (r *Reporter) Condition(condType string) *metav1.Condition {
	return meta.FindStatusCondition(r.status.Conditions, condType)
}

// Writes returns the number of status updates sent to the API server.
func (r *Reporter) Writes() int {
	return r.writes
}

// Deleted returns true once the resource is known to be gone.
func (r *Reporter) Deleted() bool {
	return r.deleted
}

// MarkDeleted stops all further writes.
func (r *Reporter) MarkDeleted() {
	r.deleted = true
}

func (r *Reporter) now() metav1.Time {
	return metav1.NewTime(r.clock.Now()).Rfc3339Copy()
}

// Set sets the condition of the given type for the current generation.
func (r *Reporter) Set(condType string, status metav1.ConditionStatus, reason, message string) bool {
	return SetCondition(&r.status.Conditions, metav1.Condition{
		Type:               condType,
		Status:             status,
		ObservedGeneration: r.generation,
		Reason:             reason,
		Message:            message,
	}, r.now())
}

// SetSynced records a completed write of the derived secret.
func (r *Reporter) SetSynced(versionID string) {
	t := r.now()
	r.status.LastSyncTime = &t
	r.status.VersionID = versionID
}

// SetTarget records the derived secret name.
func (r *Reporter) SetTarget(name string) {
	r.status.TargetSecretName = name
}

// Enter marks a phase as in progress and flushes.
func (r *Reporter) Enter(ctx context.Context, phase, message string) error {
	r.Set(phase, metav1.ConditionTrue, v1alpha2.ProgressingReason, message)
	return r.Flush(ctx)
}

// Exit marks a phase as finished with the given reason and flushes.
func (r *Reporter) Exit(ctx context.Context, phase, reason, message string) error {
	r.Set(phase, metav1.ConditionFalse, reason, message)
	return r.Flush(ctx)
}

// Flush writes the accumulated status. Nothing is sent when the stored status
// already matches or the resource was deleted. A conflict is returned to the
// caller.
func (r *Reporter) Flush(ctx context.Context) error {
	if r.deleted {
		return nil
	}

	updated, ok := r.obj.DeepCopyObject().(client.Object)
	if !ok {
		return fmt.Errorf("unexpected object type %T", r.obj)
	}
	if err := r.adapter.WriteSecretStatus(updated, r.status); err != nil {
		return err
	}
	changed, err := object.StatusChanged(r.obj, updated)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	start := time.Now()
	if err := r.client.Status().Update(ctx, updated); err != nil {
		if apierrors.IsNotFound(err) {
			r.log.V(1).Info("resource deleted, dropping status", "resource", client.ObjectKeyFromObject(r.obj))
			r.deleted = true
			return nil
		}
		return fmt.Errorf("failed to update status: %w", err)
	}
	r.obj = updated
	r.writes++
	r.log.V(5).Info("status updated", "duration", time.Since(start).String())
	return nil
}
