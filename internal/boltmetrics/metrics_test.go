package boltmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordCounts(t *testing.T) {
	m := New("bolttest")
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)

	m.IncSummary("success")
	m.IncDefunct()
	m.IncFailure("fatal")

	families, err := reg.Gather()
	require.NoError(t, err, "gather")

	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
	}
	for _, name := range []string{
		"bolttest_summaries_total",
		"bolttest_defunct_total",
		"bolttest_server_failures_total",
		"bolttest_request_duration_seconds",
	} {
		assert.True(t, found[name], "missing metric family %s", name)
	}
}
