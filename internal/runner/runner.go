// Package runner implements the batch loop: discover dataset files,
// invoke the validation harness once per file, strictly sequentially,
// and report progress around each invocation.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lycfight/swebatch/internal/config"
	"github.com/lycfight/swebatch/internal/dataset"
	"github.com/lycfight/swebatch/internal/harness"
	"github.com/lycfight/swebatch/internal/logging"
)

// Runner drives one batch over a base directory. It never spawns more
// than one harness process at a time; parallelism lives inside the
// harness, bounded by the forwarded max-workers value.
type Runner struct {
	cfg     config.RunnerConfig
	invoker harness.Invoker
	out     io.Writer
	banners *Banners
}

// New creates a Runner for the given configuration and invoker.
// Banners and invocation output are written to out.
func New(cfg config.RunnerConfig, invoker harness.Invoker, out io.Writer, banners *Banners) *Runner {
	return &Runner{
		cfg:     cfg,
		invoker: invoker,
		out:     out,
		banners: banners,
	}
}

// Run executes the batch. Every discovered file is processed at most
// once, in directory-listing order, and invocation i+1 never starts
// before invocation i's process has exited.
//
// A failed invocation is logged and the loop continues; failures are
// aggregated into the returned error after the final message. With
// HaltOnError set, the loop stops at the first failure instead.
func (r *Runner) Run(ctx context.Context) error {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "runner")

	files, err := dataset.Discover(r.cfg.BaseDir, r.cfg.Pattern)
	if err != nil {
		return err
	}

	log.Info().
		Ctx(ctx).
		Str("base_dir", r.cfg.BaseDir).
		Str("pattern", r.cfg.Pattern).
		Str("run_id", r.cfg.RunID).
		Int("file_count", len(files)).
		Msg("starting batch")

	progress := NewProgress(len(files))
	var failures []error

	for _, file := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintln(r.out, r.banners.Start(file))
		fmt.Fprintln(r.out, r.banners.Separator())

		inv := harness.Invocation{
			DatasetPath:    file,
			Split:          harness.SplitTrain,
			MaxWorkers:     r.cfg.MaxWorkers,
			TimeoutSeconds: r.cfg.TimeoutSeconds,
			CacheLevel:     harness.CacheLevelInstance,
			RunID:          r.cfg.RunID,
		}

		start := time.Now()
		invErr := r.invoker.Invoke(ctx, inv)
		progress.AddResult(invErr != nil)

		// Completion banner is emitted regardless of the outcome.
		fmt.Fprintln(r.out, r.banners.Done(file))
		fmt.Fprintln(r.out, r.banners.Separator())

		snap := progress.Snapshot()
		if invErr != nil {
			failures = append(failures, fmt.Errorf("%s: %w", file, invErr))
			log.Error().
				Ctx(ctx).
				Err(invErr).
				Str("dataset", file).
				Dur("duration", time.Since(start)).
				Int("processed", snap.ProcessedFiles).
				Int("total", snap.TotalFiles).
				Msg("harness invocation failed")

			if r.cfg.HaltOnError {
				break
			}
			continue
		}

		log.Info().
			Ctx(ctx).
			Str("dataset", file).
			Dur("duration", time.Since(start)).
			Int("processed", snap.ProcessedFiles).
			Int("total", snap.TotalFiles).
			Float64("percent", snap.PercentComplete).
			Msg("dataset file processed")
	}

	fmt.Fprintln(r.out, r.banners.Final())

	if len(failures) > 0 {
		return fmt.Errorf("batch finished with %d of %d invocations failed: %v",
			len(failures), progress.Snapshot().ProcessedFiles, failures)
	}
	return nil
}
