package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	paratask "github.com/joeycumines/go-paratask"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a sum-reduction scenario under every configured scheduler",
	RunE:  runBench,
}

type schedulerResult struct {
	name     string
	sum      int
	duration time.Duration
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	input := make([]int, cfg.Length)
	for i := range input {
		input[i] = i + 1
	}
	collection := paratask.SliceOf(input)
	rt := paratask.NewRuntime(paratask.WithAutoMaxProcs())

	logger.Info().Int("length", cfg.Length).Strs("schedulers", cfg.Schedulers).Msg("starting benchmark")

	// Each named scheduler is an independent scenario; running them
	// concurrently (rather than via paratask's own sibling-joining
	// schedulers, which never cancel each other) is exactly the kind of
	// fail-fast, cancel-on-first-error job errgroup is for.
	results := make([]schedulerResult, len(cfg.Schedulers))
	group, ctx := errgroup.WithContext(cmd.Context())
	for i, name := range cfg.Schedulers {
		i, name := i, name
		group.Go(func() error {
			s, err := schedulerByName(name, cfg)
			if err != nil {
				return err
			}
			start := time.Now()
			sum, err := paratask.Reduce[int](ctx, rt, collection, s, func(a, b int) (int, error) { return a + b, nil }, nil)
			if err != nil {
				return fmt.Errorf("scheduler %q: %w", name, err)
			}
			results[i] = schedulerResult{name: name, sum: sum, duration: time.Since(start)}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		logger.Info().Str("scheduler", r.name).Int("sum", r.sum).Dur("duration", r.duration).Msg("scenario complete")
		fmt.Printf("%-10s sum=%d duration=%s\n", r.name, r.sum, r.duration)
	}
	return nil
}

func schedulerByName(name string, cfg *BenchConfig) (paratask.Scheduler, error) {
	chunking := paratask.WithChunkCount(cfg.ChunkCount, paratask.Consecutive, 1)
	switch name {
	case "serial":
		return paratask.Serial(), nil
	case "dynamic":
		return paratask.Dynamic(paratask.PoolDefault, chunking), nil
	case "static":
		return paratask.Static(chunking), nil
	case "greedy":
		return paratask.Greedy(cfg.Greedy.Tasks, chunking), nil
	default:
		return paratask.Scheduler{}, fmt.Errorf("parataskbench: unknown scheduler %q (want serial, dynamic, static, or greedy)", name)
	}
}
