package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/muster/pkg/logger"
)

// ErrIncomplete is returned when accepted jobs did not all succeed.
var ErrIncomplete = errors.New("not all accepted jobs succeeded")

// Run checks the service, submits the generated jobs concurrently, then
// polls every accepted job until it finishes or the deadline passes.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg = withDefaults(cfg)
	log := logger.Get().Named("loadtest")
	stats := &Stats{StartTime: time.Now(), JobFailures: map[string]int{}}

	log.Info(ctx, "starting load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("jobs", cfg.Jobs),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	ids, err := submit(ctx, cfg, client, Generate(cfg.Jobs, cfg.Seed), stats)
	if err != nil {
		return stats, fmt.Errorf("job submission failed: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Deadline)
	defer cancel()
	if err := await(waitCtx, cfg, client, ids, stats); err != nil {
		return stats, fmt.Errorf("waiting for jobs failed: %w", err)
	}

	stats.Duration = time.Since(stats.StartTime)
	logStats(ctx, log, stats)

	if stats.Succeeded != len(ids) {
		return stats, fmt.Errorf("%w: %d of %d", ErrIncomplete, stats.Succeeded, len(ids))
	}
	return stats, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Jobs <= 0 {
		cfg.Jobs = DefaultJobs
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = DefaultDeadline
	}
	return cfg
}

// submit posts every request with cfg.Workers goroutines and returns the
// ids of the accepted jobs.
func submit(ctx context.Context, cfg Config, client *HTTPClient, reqs []JobRequest, stats *Stats) ([]string, error) {
	var mu sync.Mutex
	ids := make([]string, 0, len(reqs))
	var submitted, accepted, dup, rejected, bad int64

	reqCh := make(chan JobRequest, cfg.Workers*2)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(reqCh)
		for _, r := range reqs {
			select {
			case reqCh <- r:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range cfg.Workers {
		g.Go(func() error {
			for r := range reqCh {
				atomic.AddInt64(&submitted, 1)
				status, ack, err := client.Submit(gctx, r)
				switch {
				case err != nil:
					if gctx.Err() != nil {
						return gctx.Err()
					}
					atomic.AddInt64(&bad, 1)
					if cfg.Verbose {
						logger.Get().Warn(gctx, "submit failed", logger.String("request", r.RequestID), logger.Error(err))
					}
				case status == http.StatusAccepted:
					atomic.AddInt64(&accepted, 1)
					mu.Lock()
					ids = append(ids, ack.JobID)
					mu.Unlock()
				case status == http.StatusOK:
					atomic.AddInt64(&dup, 1)
				case status == http.StatusTooManyRequests:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&bad, 1)
					if cfg.Verbose {
						logger.Get().Warn(gctx, "unexpected status",
							logger.String("request", r.RequestID), logger.Int("status", status))
					}
				}
			}
			return nil
		})
	}

	err := g.Wait()
	stats.Submitted = int(submitted)
	stats.Accepted = int(accepted)
	stats.Duplicate = int(dup)
	stats.Rejected = int(rejected)
	stats.Failed = int(bad)
	return ids, err
}

// await polls jobs until each reaches a final state.
func await(ctx context.Context, cfg Config, client *HTTPClient, ids []string, stats *Stats) error {
	pending := append([]string(nil), ids...)
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for len(pending) > 0 {
		next := pending[:0]
		for _, id := range pending {
			js, err := client.Job(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				next = append(next, id)
				continue
			}
			if !js.Done() {
				next = append(next, id)
				continue
			}
			if js.Status == "succeeded" {
				stats.Succeeded++
				continue
			}
			code := "unknown"
			if js.Error != nil {
				code = js.Error.Code
			}
			stats.JobFailures[code]++
			if cfg.Verbose {
				logger.Get().Warn(ctx, "job failed", logger.String("job", id), logger.String("code", code))
			}
		}
		pending = next
		if len(pending) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%d jobs still pending: %w", len(pending), ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

func logStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("succeeded", stats.Succeeded),
		logger.Any("jobFailures", stats.JobFailures),
		logger.Duration("duration", stats.Duration),
		logger.Float64("jobsPerSecond", perSecond))
}
