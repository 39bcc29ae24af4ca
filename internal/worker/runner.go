// Package worker persists chat transcripts in the background so the
// chat-assistant handler can answer without waiting on the database. The api
// package holds a worker.Enqueuer interface and calls Enqueue; it never
// imports the concrete Runner or Job types.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nyashahama/agrocamer-backend/internal/store"
)

// ErrQueueFull is returned by Enqueue when the buffer has no room.
var ErrQueueFull = errors.New("worker: queue is full")

// ─── ENQUEUER INTERFACE ───────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to hand off a chat
// turn for persistence. In tests, any struct with an Enqueue method satisfies
// it.
type Enqueuer interface {
	Enqueue(ctx context.Context, t store.ChatTurn) error
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. Zero fields take the
// values from DefaultRunnerConfig.
type RunnerConfig struct {
	// Workers is the number of concurrent job goroutines. Default: 2.
	Workers int

	// QueueSize is the channel buffer. Default: 64.
	QueueSize int

	// JobTimeout is the per-attempt context deadline. Default: 10s.
	JobTimeout time.Duration

	// MaxRetries is the number of attempts before a turn is dropped. Default: 3.
	MaxRetries int

	// RetryBase is the first back-off pause; it doubles per attempt.
	// Default: 1s.
	RetryBase time.Duration

	// DrainTimeout bounds how long queued turns are still written after
	// shutdown starts. Default: 5s.
	DrainTimeout time.Duration
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:      2,
		QueueSize:    64,
		JobTimeout:   10 * time.Second,
		MaxRetries:   3,
		RetryBase:    time.Second,
		DrainTimeout: 5 * time.Second,
	}
}

// Runner manages a pool of worker goroutines fed by an in-process channel.
type Runner struct {
	job    *Job
	cfg    RunnerConfig
	logger *slog.Logger

	queue chan store.ChatTurn
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start to begin processing.
func NewRunner(job *Job, cfg RunnerConfig, logger *slog.Logger) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = def.RetryBase
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = def.DrainTimeout
	}

	return &Runner{
		job:    job,
		cfg:    cfg,
		logger: logger,
		queue:  make(chan store.ChatTurn, cfg.QueueSize),
	}
}

// Enqueue pushes a turn onto the channel. It never blocks the HTTP response:
// a full queue returns ErrQueueFull.
func (r *Runner) Enqueue(_ context.Context, t store.ChatTurn) error {
	select {
	case r.queue <- t:
		r.logger.Debug("worker: enqueued chat turn", "session_id", t.SessionID)
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the worker pool. It blocks until ctx is cancelled and the
// workers have drained what was already queued. Call it in a goroutine from
// main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "queue_size", r.cfg.QueueSize)

	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each worker goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)

	for {
		select {
		case <-ctx.Done():
			r.drain(log)
			return
		case t := <-r.queue:
			r.runWithRetry(ctx, t, log)
		}
	}
}

// drain writes whatever is still queued once, without retries, under a fresh
// deadline.
func (r *Runner) drain(log *slog.Logger) {
	drainCtx, cancel := context.WithTimeout(context.Background(), r.cfg.DrainTimeout)
	defer cancel()

	for {
		select {
		case t := <-r.queue:
			if err := r.job.Run(drainCtx, t); err != nil {
				log.Error("worker: dropped chat turn during shutdown", "session_id", t.SessionID, "error", err)
			}
		default:
			return
		}
	}
}

// runWithRetry executes the job up to MaxRetries times with doubling pauses.
func (r *Runner) runWithRetry(ctx context.Context, t store.ChatTurn, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
		lastErr = r.job.Run(jobCtx, t)
		cancel()

		if lastErr == nil {
			return
		}

		log.Warn("worker: job attempt failed",
			"session_id", t.SessionID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if attempt < r.cfg.MaxRetries {
			pause := r.cfg.RetryBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return
			case <-time.After(pause):
			}
		}
	}

	log.Error("worker: chat turn permanently failed", "session_id", t.SessionID, "error", lastErr)
}
