package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/psantana5/lapwatch/internal/report"
	"github.com/psantana5/lapwatch/pkg/logging"
	"github.com/psantana5/lapwatch/pkg/metrics"
	"github.com/psantana5/lapwatch/pkg/store"
)

var (
	runIDs     []string
	runLaps    []time.Duration
	runMetrics bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Time a lap session on one or more stopwatches",
	Long: `Creates one stopwatch per --id (a random UUID when none is given) and
runs them concurrently. Each stopwatch waits for every --laps interval in turn,
recording a lap after each one and stopping after the last.

Example:
  lapwatch run --id x --laps 100ms,50ms,25ms
  lapwatch run --id a --id b --laps 1s,1s --metrics --output json`,
	RunE: runSessionCmd,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&runIDs, "id", nil, "stopwatch id (repeatable; default is a generated UUID)")
	runCmd.Flags().DurationSliceVar(&runLaps, "laps", []time.Duration{100 * time.Millisecond, 50 * time.Millisecond, 25 * time.Millisecond}, "lap intervals; the last one ends with stop")
	runCmd.Flags().BoolVar(&runMetrics, "metrics", false, "print Prometheus metrics after the report")
}

func runSessionCmd(cmd *cobra.Command, args []string) error {
	logger := NewLogger()

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("failed to set up metrics: %w", err)
	}
	s := store.NewMemoryStore(store.WithLogger(logger), store.WithObserver(collector))

	ids := runIDs
	if len(ids) == 0 {
		ids = []string{uuid.NewString()}
	}

	if err := runSession(cmd.Context(), s, logger, ids, runLaps); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.Write(out, report.Build(s.List()), GetOutputFormat()); err != nil {
		return err
	}
	if runMetrics {
		fmt.Fprintln(out)
		return report.WriteMetrics(out, reg)
	}
	return nil
}

// runSession creates a stopwatch per id and drives them concurrently through
// the lap intervals. Creation errors abort before any timing starts.
func runSession(ctx context.Context, s store.Store, logger *logging.Logger, ids []string, laps []time.Duration) error {
	if len(laps) == 0 {
		return fmt.Errorf("at least one lap interval is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for _, id := range ids {
		if _, err := s.Create(id); err != nil {
			return fmt.Errorf("failed to create stopwatch: %w", err)
		}
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, sw := range s.List() {
		sw := sw
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := driveLaps(ctx, sw, laps); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("stopwatch %s: %w", sw.ID(), err))
				mu.Unlock()
				return
			}
			logger.Info("Session finished", map[string]interface{}{"id": sw.ID(), "laps": sw.LapTimes()})
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

type lapper interface {
	Start() error
	Lap() error
	Stop() error
	Reset()
}

func driveLaps(ctx context.Context, sw lapper, laps []time.Duration) error {
	if err := sw.Start(); err != nil {
		return err
	}
	for i, d := range laps {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			sw.Reset()
			return ctx.Err()
		case <-timer.C:
		}

		if i == len(laps)-1 {
			return sw.Stop()
		}
		if err := sw.Lap(); err != nil {
			return err
		}
	}
	return nil
}
