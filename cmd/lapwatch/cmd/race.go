package cmd

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/psantana5/lapwatch/internal/report"
	"github.com/psantana5/lapwatch/pkg/stopwatch"
	"github.com/psantana5/lapwatch/pkg/store"
)

var (
	raceID      string
	raceWorkers int
)

var raceCmd = &cobra.Command{
	Use:   "race",
	Short: "Create the same stopwatch id from many goroutines at once",
	Long: `Starts --workers goroutines that all call Create with the same --id at
the same moment. Exactly one of them wins; the rest are rejected.`,
	RunE: runRaceCmd,
}

func init() {
	rootCmd.AddCommand(raceCmd)

	raceCmd.Flags().StringVar(&raceID, "id", "dup", "stopwatch id every worker tries to create")
	raceCmd.Flags().IntVar(&raceWorkers, "workers", 8, "number of concurrent creators")
}

func runRaceCmd(cmd *cobra.Command, args []string) error {
	if raceWorkers < 1 {
		return fmt.Errorf("--workers must be at least 1")
	}

	s := store.NewMemoryStore(store.WithLogger(NewLogger()))
	created, rejected, err := raceCreate(s, raceID, raceWorkers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created: %d, rejected: %d\n", created, rejected)
	return report.Write(out, report.Build(s.List()), GetOutputFormat())
}

// raceCreate releases workers goroutines together against s.Create(id).
// Any error other than ErrInvalidArgument is returned.
func raceCreate(s store.Store, id string, workers int) (created, rejected int, err error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
		other []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, cerr := s.Create(id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case cerr == nil:
				created++
			case errors.Is(cerr, stopwatch.ErrInvalidArgument):
				rejected++
			default:
				other = append(other, cerr)
			}
		}()
	}
	close(start)
	wg.Wait()

	return created, rejected, errors.Join(other...)
}
