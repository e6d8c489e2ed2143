// Package batch parses many LWO files on a worker pool.
package batch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/lwostrut/pkg/clips"
	"github.com/Faultbox/lwostrut/pkg/lwo"
)

// Config holds the shared settings of a batch run.
type Config struct {
	Workers  int
	Timeout  time.Duration // per file; 0 disables
	Options  []lwo.Option
	Resolver *clips.Resolver // optional clip validation
	Logger   *zap.Logger
}

// Result holds the outcome of parsing one file.
type Result struct {
	Path     string
	Size     int64
	Format   lwo.Format
	Stats    lwo.Stats
	Images   []string
	Duration time.Duration
	Err      error
}

// OK reports whether the file parsed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Run parses paths using a worker pool. Results are returned in input
// order. Each parse owns its own state, so workers share nothing.
func Run(ctx context.Context, cfg Config, paths []string) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	results := make([]Result, len(paths))
	var processed atomic.Int64
	start := time.Now()

	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = parseOne(ctx, cfg, paths[idx])
				n := processed.Add(1)
				r := results[idx]
				if r.Err != nil {
					log.Warn("parse failed", zap.String("path", r.Path), zap.Error(r.Err))
				} else {
					log.Debug("parsed",
						zap.String("path", r.Path),
						zap.Int64("done", n),
						zap.Int("total", len(paths)),
						zap.Duration("took", r.Duration))
				}
			}
		}()
	}

send:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				results[j] = Result{Path: paths[j], Err: ctx.Err()}
			}
			break send
		}
	}
	close(jobs)
	wg.Wait()

	log.Info("batch finished",
		zap.Int("files", len(paths)),
		zap.Int("failed", countFailed(results)),
		zap.Duration("elapsed", time.Since(start)))
	return results
}

func countFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}

// parseOne parses a single file, giving up when the per-file deadline
// passes. An abandoned parse runs to completion in the background; its
// result is discarded.
func parseOne(ctx context.Context, cfg Config, path string) Result {
	started := time.Now()
	res := Result{Path: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	done := make(chan Result, 1)
	go func() {
		done <- parseFile(cfg, path)
	}()

	select {
	case r := <-done:
		r.Duration = time.Since(started)
		return r
	case <-ctx.Done():
		res.Err = fmt.Errorf("parsing %s: %w", path, ctx.Err())
		res.Duration = time.Since(started)
		return res
	}
}

func parseFile(cfg Config, path string) Result {
	res := Result{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Size = info.Size()

	obj, err := lwo.ParseFile(path, cfg.Options...)
	if err != nil {
		res.Err = err
		return res
	}
	res.Format = obj.Format

	if cfg.Resolver != nil {
		found, err := cfg.Resolver.Validate(obj)
		if err != nil {
			res.Err = err
			return res
		}
		res.Images = found.Images
	}
	res.Stats = obj.Stats()
	return res
}
