package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	fns := make([]func(context.Context) error, 10)
	for i := range fns {
		fns[i] = func(context.Context) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		}
	}

	errs := Gather(context.Background(), 3, fns...)
	require.Len(t, errs, 10)
	assert.NoError(t, FirstError(errs))
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestGatherResultsKeepsOrder(t *testing.T) {
	boom := errors.New("boom")
	results, errs := GatherResults(context.Background(), 2,
		func(context.Context) (string, error) { return "a", nil },
		func(context.Context) (string, error) { return "", boom },
		func(context.Context) (string, error) { return "c", nil },
	)

	assert.Equal(t, []string{"a", "", "c"}, results)
	assert.Equal(t, []error{nil, boom, nil}, errs)
	assert.Same(t, boom, FirstError(errs))
}

func TestGatherRecoversPanics(t *testing.T) {
	errs := Gather(context.Background(), 1,
		func(context.Context) error { panic("bad") },
		func(context.Context) error { return nil },
	)

	var panicErr *PanicError
	require.ErrorAs(t, errs[0], &panicErr)
	assert.NoError(t, errs[1])
}

func TestGatherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	time.AfterFunc(20*time.Millisecond, func() { close(release) })

	// At most one function can take the only slot; it holds it until
	// release closes, so the others must report the cancellation.
	hold := func(context.Context) error {
		<-release
		return nil
	}
	errs := Gather(ctx, 1, hold, hold, hold)
	cancelled := 0
	for _, err := range errs {
		if errors.Is(err, context.Canceled) {
			cancelled++
		}
	}
	assert.GreaterOrEqual(t, cancelled, 2)
}

func TestGatherEmpty(t *testing.T) {
	assert.Nil(t, Gather(context.Background(), 4))
	assert.NoError(t, FirstError(nil))
}
