package utils

import (
	"context"
	"sync"
)

// DefaultConcurrency is used when a non-positive limit is given.
const DefaultConcurrency = 8

// Gather runs fns with at most limit of them in flight and returns their
// errors in input order. A function that panics reports a *PanicError.
// Functions still waiting for a slot when ctx is done report ctx.Err().
func Gather(ctx context.Context, limit int, fns ...func(context.Context) error) []error {
	_, errs := GatherResults(ctx, limit, wrap(fns)...)
	return errs
}

// GatherResults is Gather for functions that produce a value. Results and
// errors are indexed like fns.
func GatherResults[T any](ctx context.Context, limit int, fns ...func(context.Context) (T, error)) ([]T, []error) {
	if len(fns) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]T, len(fns))
	errs := make([]error, len(fns))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, fn := range fns {
		i, fn := i, fn
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer RecoverWithCallback(func(err error) {
				errs[i] = err
			})

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			results[i], errs[i] = fn(ctx)
		}()
	}

	wg.Wait()
	return results, errs
}

// FirstError returns the first non-nil error in errs, or nil.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func wrap(fns []func(context.Context) error) []func(context.Context) (struct{}, error) {
	out := make([]func(context.Context) (struct{}, error), len(fns))
	for i, fn := range fns {
		fn := fn
		out[i] = func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		}
	}
	return out
}
