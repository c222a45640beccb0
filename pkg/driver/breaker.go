package driver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/sony/gobreaker"
	"github.com/soundprediction/bubbles/pkg/config"
)

// BreakerDriver wraps a GraphDriver with circuit breaking. While the breaker
// is open, calls fail immediately with gobreaker.ErrOpenState instead of
// waiting on an unreachable store. Nothing is retried.
type BreakerDriver struct {
	next GraphDriver
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerDriver wraps next with a breaker configured from cfg.
func NewBreakerDriver(next GraphDriver, cfg config.CircuitBreakerConfig, logger *slog.Logger) *BreakerDriver {
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        string(next.Provider()),
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Graph store circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: isBreakerSuccess,
	}

	return &BreakerDriver{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(st),
	}
}

// isBreakerSuccess treats errors caused by the caller as successful calls:
// constraint violations are user input and cancellations are the client's choice.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if IsConstraintViolation(err) {
		return true
	}
	return errors.Is(err, context.Canceled)
}

// ExecuteRead implements GraphDriver.
func (b *BreakerDriver) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]*db.Record, error) {
	return b.execute(func() ([]*db.Record, error) {
		return b.next.ExecuteRead(ctx, query, params)
	})
}

// ExecuteWrite implements GraphDriver.
func (b *BreakerDriver) ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]*db.Record, error) {
	return b.execute(func() ([]*db.Record, error) {
		return b.next.ExecuteWrite(ctx, query, params)
	})
}

func (b *BreakerDriver) execute(fn func() ([]*db.Record, error)) ([]*db.Record, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return MustRecordSlice(resp, "records")
}

// State returns the current breaker state.
func (b *BreakerDriver) State() gobreaker.State {
	return b.cb.State()
}

// VerifyConnectivity implements GraphDriver. Health probes bypass the breaker.
func (b *BreakerDriver) VerifyConnectivity(ctx context.Context) error {
	return b.next.VerifyConnectivity(ctx)
}

// Close implements GraphDriver.
func (b *BreakerDriver) Close(ctx context.Context) error {
	return b.next.Close(ctx)
}

// Provider implements GraphDriver.
func (b *BreakerDriver) Provider() GraphProvider {
	return b.next.Provider()
}
