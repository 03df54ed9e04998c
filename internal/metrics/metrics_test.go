package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New()
	require.NoError(t, m.Register(reg))
	require.NoError(t, m.Register(reg))
}

func TestObserveCalculation(t *testing.T) {
	m := New()
	m.ObserveCalculation("budget", OutcomePass)
	m.ObserveCalculation("budget", OutcomePass)
	m.ObserveCalculation("budget", OutcomeRejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calculations.WithLabelValues("budget", OutcomePass)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues("budget", OutcomeRejected)))
}

func TestObserveTotalLoss(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New()
	require.NoError(t, m.Register(reg))
	m.ObserveTotalLoss(5.2)

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "lossbudget_total_loss_db" {
			found = true
			assert.Equal(t, uint64(1), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found)
}
