package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/data/config"
	"github.com/ncobase/esdsl/ecode"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("search circuit breaker is open")

// Breaker wraps a Transport in a circuit breaker. Invalid arguments are the
// caller's fault and do not count as failures.
type Breaker struct {
	next Transport
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next. A nil cfg uses the defaults of config.Breaker.
func NewBreaker(next Transport, cfg *config.Breaker) *Breaker {
	if cfg == nil {
		cfg = &config.Breaker{MaxRequests: 3, FailureThreshold: 0.6}
	}
	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("search-%s", next.Engine()),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ecode.ErrInvalidArgument) || errors.Is(err, context.Canceled)
		},
	}
	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) call(fn func() (map[string]any, error)) (map[string]any, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ecode.Wrap(string(b.next.Engine()), fmt.Errorf("%w: %v", ErrCircuitOpen, err))
	}
	if err != nil {
		return nil, err
	}
	res, _ := out.(map[string]any)
	return res, nil
}

func (b *Breaker) Search(ctx context.Context, p compiler.Params) (map[string]any, error) {
	return b.call(func() (map[string]any, error) { return b.next.Search(ctx, p) })
}

func (b *Breaker) Scroll(ctx context.Context, p compiler.Params) (map[string]any, error) {
	return b.call(func() (map[string]any, error) { return b.next.Scroll(ctx, p) })
}

func (b *Breaker) Count(ctx context.Context, p compiler.Params) (map[string]any, error) {
	return b.call(func() (map[string]any, error) { return b.next.Count(ctx, p) })
}

func (b *Breaker) Index(ctx context.Context, p compiler.Params) (map[string]any, error) {
	return b.call(func() (map[string]any, error) { return b.next.Index(ctx, p) })
}

func (b *Breaker) Create(ctx context.Context, p compiler.Params) (map[string]any, error) {
	return b.call(func() (map[string]any, error) { return b.next.Create(ctx, p) })
}

func (b *Breaker) Update(ctx context.Context, p compiler.Params) (map[string]any, error) {
	return b.call(func() (map[string]any, error) { return b.next.Update(ctx, p) })
}

func (b *Breaker) Delete(ctx context.Context, p compiler.Params) (map[string]any, error) {
	return b.call(func() (map[string]any, error) { return b.next.Delete(ctx, p) })
}

// Ping bypasses the breaker so health checks see the engine directly.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

func (b *Breaker) Engine() Engine {
	return b.next.Engine()
}
