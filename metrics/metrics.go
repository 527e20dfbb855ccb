// Package metrics provides the prometheus collectors of the operator. They
// are served by the controller-runtime metrics endpoint.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	// ReconcileTotal counts CloudSecret reconciliations by outcome reason.
	ReconcileTotal *prometheus.CounterVec

	// PlanStepsTotal counts executed plan steps by operation.
	PlanStepsTotal *prometheus.CounterVec

	// ProviderRequestsTotal counts provider calls.
	ProviderRequestsTotal *prometheus.CounterVec

	// ProviderRequestDuration observes provider call latency.
	ProviderRequestDuration *prometheus.HistogramVec

	// ScheduledResources is the size of the scheduler timer table.
	ScheduledResources prometheus.Gauge

	// CoalescedTicksTotal counts ticks merged into an in-flight
	// reconciliation.
	CoalescedTicksTotal prometheus.Counter

	metricsOnce sync.Once
)

// Register creates the collectors on the given registerer. Only the first call
// has an effect. Collectors are used unregistered when Register is never
// called.
func Register(reg prometheus.Registerer) {
	metricsOnce.Do(func() {
		factory := promauto.With(reg)
		ReconcileTotal = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudsecret_reconcile_total",
			Help: "Total number of CloudSecret reconciliations by result.",
		}, []string{"result"})
		PlanStepsTotal = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudsecret_plan_steps_total",
			Help: "Total number of executed plan steps by operation.",
		}, []string{"op"})
		ProviderRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudsecret_provider_requests_total",
			Help: "Total number of provider requests.",
		}, []string{"provider", "op", "result"})
		ProviderRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cloudsecret_provider_request_duration_seconds",
			Help:    "Provider request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "op"})
		ScheduledResources = factory.NewGauge(prometheus.GaugeOpts{
			Name: "cloudsecret_scheduled_resources",
			Help: "Number of resources with an armed sync timer.",
		})
		CoalescedTicksTotal = factory.NewCounter(prometheus.CounterOpts{
			Name: "cloudsecret_coalesced_ticks_total",
			Help: "Total number of ticks coalesced into an in-flight reconciliation.",
		})
	})
}

// RegisterDefault registers the collectors with the controller-runtime
// registry.
func RegisterDefault() {
	Register(ctrlmetrics.Registry)
}

// ObserveReconcile records a reconciliation outcome.
func ObserveReconcile(result string) {
	if ReconcileTotal != nil {
		ReconcileTotal.WithLabelValues(result).Inc()
	}
}

// ObservePlanStep records an executed plan step.
func ObservePlanStep(op string) {
	if PlanStepsTotal != nil {
		PlanStepsTotal.WithLabelValues(op).Inc()
	}
}

// ObserveProviderRequest records a provider call.
func ObserveProviderRequest(provider, op string, start time.Time, err error) {
	if ProviderRequestsTotal == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	ProviderRequestsTotal.WithLabelValues(provider, op, result).Inc()
	ProviderRequestDuration.WithLabelValues(provider, op).Observe(time.Since(start).Seconds())
}

// SetScheduledResources records the timer table size.
func SetScheduledResources(n int) {
	if ScheduledResources != nil {
		ScheduledResources.Set(float64(n))
	}
}

// IncCoalescedTicks records a coalesced tick.
func IncCoalescedTicks() {
	if CoalescedTicksTotal != nil {
		CoalescedTicksTotal.Inc()
	}
}
