// Package orchestrator discovers EDIGEO archives, dispatches them
// across a worker pool, and tracks per-archive success, failure, and
// incremental skip (spec §4.10), generalizing the teacher's
// LoadCellsParallel (pkg/v1/parallel.go) worker-pool pattern from a
// fixed chart path list to an incrementally-skippable archive queue.
package orchestrator

import (
	"context"
	"runtime"
	"sync"

	"github.com/edigeo-cadastre/ingest/internal/sink"
	"go.uber.org/zap"
)

// Journal is the subset of *sink.Sink the dispatcher needs for the
// incremental checksum skip; narrowed to an interface so the pool can
// be exercised in tests without a live database connection.
type Journal interface {
	JournalChecksum(ctx context.Context, archivePath string) (checksum string, ok bool, err error)
	RecordJournalChecksum(ctx context.Context, archivePath, checksum string) error
}

// Options controls dispatch (spec §6 CLI surface: worker count,
// verbosity).
type Options struct {
	// Workers caps concurrent archive processing; 0 defaults to
	// runtime.NumCPU() (spec §4.10 "N = min(configured, host CPU
	// count); default = host CPU count").
	Workers int
	// Verbosity (0-3) controls progress line frequency: 0 is silent
	// (errors still log), 1 every 100th archive, 2 every 10th, 3 every
	// one (spec §4.10 "modulo {1, 10, 100} according to verbosity").
	Verbosity int
	// Incremental enables the checksum journal skip (spec §4.10).
	Incremental bool
}

func progressModulo(verbosity int) int {
	switch verbosity {
	case 1:
		return 100
	case 2:
		return 10
	case 3:
		return 1
	default:
		return 0
	}
}

// Runner processes one archive end to end; *Pipeline is the
// production implementation. The interface exists so Dispatch's pool
// logic can be exercised without a live database connection.
type Runner interface {
	Run(ctx context.Context, archivePath string) error
}

// PipelineFactory builds a fresh Runner for use by exactly one worker
// goroutine at a time; Dispatch calls it once per worker so no state
// is shared across concurrently running archives (each Pipeline owns
// its own decoded sheet and gid memo).
type PipelineFactory func() Runner

// Dispatch runs every archive in paths through a pool of workers
// (spec §5 "scheduling model"), honoring the incremental checksum
// journal and isolating per-archive failures. ctx cancellation stops
// the pool from dispatching further archives but lets in-flight
// workers finish their current one (spec §5 "cancellation / timeout").
func Dispatch(ctx context.Context, paths []string, j Journal, newPipeline PipelineFactory, opts Options, log *zap.SugaredLogger) Summary {
	workers := opts.Workers
	if workers <= 0 || workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers == 0 {
		return Summary{}
	}
	modulo := progressModulo(opts.Verbosity)
	// Archives already started run under a context that ctx's
	// cancellation does not reach, so they can finish their work.
	runCtx := context.WithoutCancel(ctx)

	jobs := make(chan string, len(paths))
	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	var (
		mu      sync.Mutex
		summary Summary
		done    int
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pipeline := newPipeline()

			for path := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				skip, err := shouldSkip(ctx, j, opts.Incremental, path)
				if err != nil {
					log.Warnw("journal lookup failed, processing anyway", "archive", path, "err", err)
				}

				mu.Lock()
				done++
				n := done
				mu.Unlock()
				if modulo != 0 && n%modulo == 0 {
					log.Infow("progress", "processed", n, "total", len(paths))
				}

				if skip {
					mu.Lock()
					summary.Skipped++
					mu.Unlock()
					continue
				}

				runErr := pipeline.Run(runCtx, path)
				if runErr != nil {
					log.Errorw("archive failed", "archive", path, "err", runErr)
					mu.Lock()
					summary.Failed++
					summary.Errors = append(summary.Errors, ArchiveError{Path: path, Err: runErr})
					mu.Unlock()

					if sink.ConnectionLost.Has(runErr) {
						return
					}
					continue
				}

				if opts.Incremental {
					if sum, err := Checksum(path); err == nil {
						if err := j.RecordJournalChecksum(runCtx, path, sum); err != nil {
							log.Warnw("journal record failed", "archive", path, "err", err)
						}
					}
				}

				mu.Lock()
				summary.Processed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return summary
}

func shouldSkip(ctx context.Context, j Journal, incremental bool, path string) (bool, error) {
	if !incremental {
		return false, nil
	}
	sum, err := Checksum(path)
	if err != nil {
		return false, err
	}
	recorded, ok, err := j.JournalChecksum(ctx, path)
	if err != nil {
		return false, err
	}
	return ok && recorded == sum, nil
}
