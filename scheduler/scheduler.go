package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/util/workqueue"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/source"

	"github.com/darkowlzz/cloudsecret-operator/metrics"
)

const (
	// DefaultBackoffBase is the first retry delay after a transient failure.
	DefaultBackoffBase = 5 * time.Second

	// DefaultBufferSize is the capacity of the event channel.
	DefaultBufferSize = 1024

	// maxBackoff caps the retry delay of a resource without a refresh
	// interval.
	maxBackoff = 24 * time.Hour
)

// ObjectFunc returns the object carried by the event of a tick.
type ObjectFunc func(types.NamespacedName) client.Object

type entry struct {
	timer    clock.Timer
	due      time.Time
	seq      uint64
	inFlight bool
}

// Scheduler owns the timer table and the in-flight set. It's safe for
// concurrent use.
type Scheduler struct {
	clock       clock.WithDelayedExecution
	backoffBase time.Duration
	objectFor   ObjectFunc
	log         logr.Logger
	// failures counts the consecutive failures per key and computes their
	// backoff.
	failures workqueue.RateLimiter

	events chan event.GenericEvent

	mu      sync.Mutex
	entries map[types.NamespacedName]*entry
	seq     uint64
	stopped bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock used to arm timers.
func WithClock(c clock.WithDelayedExecution) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithBackoffBase sets the first retry delay.
func WithBackoffBase(d time.Duration) Option {
	return func(s *Scheduler) {
		s.backoffBase = d
	}
}

// WithObjectFunc sets the constructor of event objects.
func WithObjectFunc(f ObjectFunc) Option {
	return func(s *Scheduler) {
		s.objectFor = f
	}
}

// WithBufferSize sets the capacity of the event channel.
func WithBufferSize(n int) Option {
	return func(s *Scheduler) {
		s.events = make(chan event.GenericEvent, n)
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// New returns a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:       clock.RealClock{},
		backoffBase: DefaultBackoffBase,
		objectFor:   partialObject,
		log:         ctrl.Log.WithName("scheduler"),
		entries:     map[types.NamespacedName]*entry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.events == nil {
		s.events = make(chan event.GenericEvent, DefaultBufferSize)
	}
	s.failures = workqueue.NewItemExponentialFailureRateLimiter(s.backoffBase, maxBackoff)
	return s
}

func partialObject(key types.NamespacedName) client.Object {
	return &metav1.PartialObjectMetadata{
		ObjectMeta: metav1.ObjectMeta{Name: key.Name, Namespace: key.Namespace},
	}
}

// Events returns the tick channel.
func (s *Scheduler) Events() <-chan event.GenericEvent {
	return s.events
}

// Source returns a controller source fed by the ticks.
func (s *Scheduler) Source() source.Source {
	return &source.Channel{Source: s.events}
}

// Schedule arms the timer of key to the earlier of refresh from now and
// nextRotation, replacing any armed timer, and clears the failure count. A
// zero nextRotation is ignored.
func (s *Scheduler) Schedule(key types.NamespacedName, refresh time.Duration, nextRotation time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	due := now.Add(refresh)
	if !nextRotation.IsZero() && nextRotation.Before(due) {
		due = nextRotation
	}
	e := s.entry(key)
	s.failures.Forget(key)
	delay := due.Sub(now)
	if delay < 0 {
		delay = 0
	}
	s.arm(key, e, now, delay)
	return delay
}

// Backoff arms the timer of key for a retry after a transient failure. The
// delay doubles with every consecutive failure and is capped at limit.
func (s *Scheduler) Backoff(key types.NamespacedName, limit time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(key)
	delay := s.failures.When(key)
	if limit > 0 && delay > limit {
		delay = limit
	}
	s.arm(key, e, s.clock.Now(), delay)
	return delay
}

// Failures returns the consecutive failure count of key.
func (s *Scheduler) Failures(key types.NamespacedName) int {
	return s.failures.NumRequeues(key)
}

// Cancel stops the timer of key and keeps its failure count. The resource is
// next reconciled on a watch event.
func (s *Scheduler) Cancel(key types.NamespacedName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		s.disarm(e)
	}
	s.updateGauge()
}

// Forget drops key from the table.
func (s *Scheduler) Forget(key types.NamespacedName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		s.disarm(e)
		delete(s.entries, key)
	}
	s.failures.Forget(key)
	s.updateGauge()
}

// Begin marks key as being reconciled.
func (s *Scheduler) Begin(key types.NamespacedName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(key).inFlight = true
}

// Done clears the in-flight mark of key.
func (s *Scheduler) Done(key types.NamespacedName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.inFlight = false
	}
}

// Due returns the time the timer of key fires at.
func (s *Scheduler) Due(key types.NamespacedName) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.timer == nil {
		return time.Time{}, false
	}
	return e.due, true
}

// Len returns the number of armed timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed()
}

// Start blocks until the context is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.log.Info("starting")
	<-ctx.Done()
	return nil
}

// Stop disarms every timer. Ticks are no longer emitted after Stop.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for _, e := range s.entries {
		s.disarm(e)
	}
	s.updateGauge()
	return nil
}

func (s *Scheduler) entry(key types.NamespacedName) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}

func (s *Scheduler) arm(key types.NamespacedName, e *entry, now time.Time, delay time.Duration) {
	s.disarm(e)
	if s.stopped {
		return
	}
	s.seq++
	seq := s.seq
	e.seq = seq
	e.due = now.Add(delay)
	e.timer = s.clock.AfterFunc(delay, func() { s.fire(key, seq) })
	s.updateGauge()
	s.log.V(1).Info("armed", "resource", key, "delay", delay.String())
}

func (s *Scheduler) disarm(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.seq = 0
}

// fire runs on the clock's goroutine. It must not call back into the clock.
func (s *Scheduler) fire(key types.NamespacedName, seq uint64) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.seq != seq || s.stopped {
		s.mu.Unlock()
		return
	}
	e.timer = nil
	e.seq = 0
	s.updateGauge()
	if e.inFlight {
		s.mu.Unlock()
		metrics.IncCoalescedTicks()
		s.log.V(1).Info("tick coalesced", "resource", key)
		return
	}
	s.mu.Unlock()

	s.events <- event.GenericEvent{Object: s.objectFor(key)}
}

func (s *Scheduler) armed() int {
	n := 0
	for _, e := range s.entries {
		if e.timer != nil {
			n++
		}
	}
	return n
}

func (s *Scheduler) updateGauge() {
	metrics.SetScheduledResources(s.armed())
}
