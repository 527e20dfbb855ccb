package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)
	// Second registration is a no-op.
	Register(prometheus.NewRegistry())

	ObserveReconcile("SecretApplied")
	ObserveReconcile("SecretApplied")
	ObservePlanStep("Create")
	ObserveProviderRequest("default", "FetchKey", time.Now(), nil)
	ObserveProviderRequest("default", "FetchKey", time.Now(), errors.New("boom"))
	SetScheduledResources(3)
	IncCoalescedTicks()

	assert.Equal(t, float64(2), testutil.ToFloat64(ReconcileTotal.WithLabelValues("SecretApplied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PlanStepsTotal.WithLabelValues("Create")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("default", "FetchKey", ResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("default", "FetchKey", ResultError)))
	assert.Equal(t, float64(3), testutil.ToFloat64(ScheduledResources))
	assert.Equal(t, float64(1), testutil.ToFloat64(CoalescedTicksTotal))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["cloudsecret_reconcile_total"])
	assert.True(t, names["cloudsecret_provider_request_duration_seconds"])
}
