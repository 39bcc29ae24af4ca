package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Caller performs one provider attempt. *Invoker is the production
// implementation; tests inject stubs.
type Caller interface {
	Invoke(ctx context.Context, p Provider, req Request) Outcome
}

// Result is the outcome of a whole chain run.
type Result struct {
	Success  bool
	Payload  Payload
	Provider string // provider that produced Payload

	// LastError is the last attempt's error text when Success is false.
	LastError string
	Attempts  int
}

// Chain tries providers in order, stopping at the first success or the
// first fatal failure.
type Chain struct {
	caller     Caller
	logger     *slog.Logger
	maxBackoff time.Duration
}

// ChainOption customises a Chain.
type ChainOption func(*Chain)

// WithBackoff pauses between attempts with exponential backoff capped at max.
// Zero (the default) tries the next provider immediately.
func WithBackoff(max time.Duration) ChainOption {
	return func(c *Chain) { c.maxBackoff = max }
}

// NewChain returns a Chain that issues attempts through caller.
func NewChain(caller Caller, logger *slog.Logger, opts ...ChainOption) *Chain {
	c := &Chain{caller: caller, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run iterates providers in priority order. A retryable failure moves on to
// the next provider; a fatal one ends the run without trying the rest. When
// every provider has failed, LastError carries the final attempt's error.
func (c *Chain) Run(ctx context.Context, providers []Provider, req Request) Result {
	if len(providers) == 0 {
		return Result{LastError: ErrNoProviders.Error()}
	}

	pause := c.newBackoff()
	var res Result

	for i, p := range providers {
		if i > 0 && pause != nil {
			wait := pause.NextBackOff()
			if wait == backoff.Stop {
				break
			}
			select {
			case <-ctx.Done():
				res.LastError = ctx.Err().Error()
				return res
			case <-time.After(wait):
			}
		}
		if err := ctx.Err(); err != nil {
			res.LastError = err.Error()
			return res
		}

		res.Attempts++
		out := c.caller.Invoke(ctx, p, req)

		if out.Success {
			c.logger.Info("ai: provider handled request",
				"provider", p.Name,
				"model", p.Model,
				"attempt", i+1,
			)
			return Result{
				Success:  true,
				Payload:  out.Payload,
				Provider: p.Name,
				Attempts: res.Attempts,
			}
		}

		res.LastError = errorText(out)

		if !out.ShouldRetry {
			c.logger.Error("ai: provider rejected request, stopping chain",
				"provider", p.Name,
				"model", p.Model,
				"status", out.Status,
				"error", res.LastError,
				"attempt", i+1,
			)
			return res
		}

		c.logger.Warn("ai: provider failed, trying next",
			"provider", p.Name,
			"model", p.Model,
			"status", out.Status,
			"error", res.LastError,
			"attempt", i+1,
			"remaining", len(providers)-i-1,
		)
	}

	c.logger.Error("ai: all providers failed",
		"providers", len(providers),
		"last_error", res.LastError,
	)
	return res
}

func (c *Chain) newBackoff() backoff.BackOff {
	if c.maxBackoff <= 0 {
		return nil
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.maxBackoff / 8
	if b.InitialInterval <= 0 {
		b.InitialInterval = c.maxBackoff
	}
	b.MaxInterval = c.maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func errorText(out Outcome) string {
	if out.Err == nil {
		return "provider failed without an error"
	}
	return out.Err.Error()
}
