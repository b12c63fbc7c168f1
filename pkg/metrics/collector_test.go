package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/lapwatch/pkg/clock"
	"github.com/psantana5/lapwatch/pkg/models"
	"github.com/psantana5/lapwatch/pkg/store"
)

func TestCollectorThroughStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	fc := clock.NewFake(time.Unix(1_000, 0))
	s := store.NewMemoryStore(store.WithClock(fc), store.WithObserver(c))

	a, err := s.Create("a")
	require.NoError(t, err)
	b, err := s.Create("b")
	require.NoError(t, err)
	_, err = s.Create("a")
	require.Error(t, err)
	_, err = s.Create("")
	require.Error(t, err)

	require.NoError(t, a.Start())
	require.NoError(t, b.Start())
	assert.Equal(t, 2.0, testutil.ToFloat64(c.running))

	fc.Advance(100 * time.Millisecond)
	require.NoError(t, a.Lap())
	require.NoError(t, a.Stop())
	assert.Equal(t, 1.0, testutil.ToFloat64(c.running))

	b.Reset()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.running))
	a.Reset()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.running), "reset of an idle stopwatch must not change the gauge")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.created))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejected.WithLabelValues(store.ReasonDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejected.WithLabelValues(store.ReasonEmpty)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.transitions.WithLabelValues(string(models.OpStart))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues(string(models.OpLap))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues(string(models.OpStop))))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.transitions.WithLabelValues(string(models.OpReset))))
}

func TestCollectorLapHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.OnLap("x", 100*time.Millisecond)
	c.OnLap("x", 50*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "lapwatch_lap_duration_seconds" {
			continue
		}
		found = true
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.InDelta(t, 0.15, h.GetSampleSum(), 1e-9)
	}
	assert.True(t, found, "histogram not gathered")
}

func TestCollectorDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestTransitionLabelsPrecreated(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "lapwatch_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, len(models.Operations), count)
}
