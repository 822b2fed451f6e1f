package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	m := NewMetrics("treelca")

	m.QueriesTotal.WithLabelValues("euler_tour").Add(3)
	m.ForestOperationsTotal.WithLabelValues("link", "ok").Inc()
	m.BuildDuration.WithLabelValues("euler_tour").Observe(0.01)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("euler_tour")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForestOperationsTotal.WithLabelValues("link", "ok")))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["treelca_lca_queries_total"])
	assert.True(t, names["treelca_lca_build_duration_seconds"])
	assert.True(t, names["go_goroutines"])
}

func TestRegisterBuildInfoOnce(t *testing.T) {
	m := NewMetrics("")
	m.RegisterBuildInfo("", "1.0.0")
	m.RegisterBuildInfo("again", "2.0.0")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BuildInfo.WithLabelValues("unknown", "1.0.0")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.BuildInfo))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RegisterBuildInfo("s", "v") })
}
