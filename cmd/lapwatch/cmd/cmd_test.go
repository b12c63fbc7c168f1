package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/lapwatch/internal/report"
	"github.com/psantana5/lapwatch/pkg/logging"
	"github.com/psantana5/lapwatch/pkg/stopwatch"
	"github.com/psantana5/lapwatch/pkg/store"
)

func TestRunSession(t *testing.T) {
	s := store.NewMemoryStore()
	laps := []time.Duration{5 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond}

	err := runSession(context.Background(), s, logging.Discard(), []string{"a", "b"}, laps)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	for _, sw := range list {
		assert.False(t, sw.Running())
		got := sw.LapTimes()
		require.Len(t, got, 3, "two laps plus the final stop lap")
		for _, ms := range got {
			assert.GreaterOrEqual(t, ms, int64(5))
		}
	}
}

func TestRunSessionDuplicateID(t *testing.T) {
	s := store.NewMemoryStore()
	err := runSession(context.Background(), s, logging.Discard(), []string{"a", "a"}, []time.Duration{time.Millisecond})
	require.Error(t, err)
	assert.ErrorIs(t, err, stopwatch.ErrInvalidArgument)
}

func TestRunSessionRequiresLaps(t *testing.T) {
	err := runSession(context.Background(), store.NewMemoryStore(), logging.Discard(), []string{"a"}, nil)
	assert.Error(t, err)
}

func TestDriveLapsCancelled(t *testing.T) {
	s := store.NewMemoryStore()
	sw, err := s.Create("cancel")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = driveLaps(ctx, sw, []time.Duration{time.Hour})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, sw.Running(), "cancelled session resets the stopwatch")
	assert.Empty(t, sw.LapTimes())
}

func TestRaceCreate(t *testing.T) {
	s := store.NewMemoryStore()
	created, rejected, err := raceCreate(s, "dup", 32)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 31, rejected)
	assert.Equal(t, 1, s.Len())
}

func TestRaceCreateEmptyID(t *testing.T) {
	created, rejected, err := raceCreate(store.NewMemoryStore(), "", 4)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 4, rejected)
}

func TestExecuteRunAndConfig(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"run", "--id", "x", "--laps", "2ms,2ms", "--output", "json", "--log-level", "error"})
	require.NoError(t, Execute(context.Background()))

	var r report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r), out.String())
	require.Equal(t, 1, r.Count)
	assert.Equal(t, "x", r.Stopwatches[0].ID)
	assert.Len(t, r.Stopwatches[0].LapsMS, 2)

	out.Reset()
	rootCmd.SetArgs([]string{"config", "--output", "yaml", "--log-level", "error"})
	require.NoError(t, Execute(context.Background()))

	var cfg EffectiveConfig
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &cfg), out.String())
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestExecuteRejectsUnknownOutput(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		outputFormat = report.FormatTable
	})

	rootCmd.SetArgs([]string{"config", "--output", "xml"})
	assert.Error(t, Execute(context.Background()))
}
