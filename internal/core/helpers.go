package core

import (
	"context"
	"errors"
	"sync"
)

const defaultConcurrency = 8

// Check computes the status of c and, when any version is published, the
// most recent artifact and its packaged location.
func Check(ctx context.Context, c *Checker) Result {
	res := Result{Checker: c}

	res.Status, res.Err = c.Status(ctx)
	if res.Err != nil || res.Status == StatusUnknown {
		return res
	}

	a, err := c.MostRecentArtifact(ctx)
	if errors.Is(err, ErrRepositoryUnavailable) {
		// status was memoized in an earlier epoch; keep it and report no location
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}
	if a == nil {
		return res
	}
	v := a.Version
	res.Latest = &v
	res.Location, res.Err = a.PackagedLocation()
	return res
}

// CheckAll checks every checker concurrently and returns results in input order.
// Checkers must not share repository instances.
func CheckAll(ctx context.Context, checkers []*Checker) []Result {
	return CheckAllWithConcurrency(ctx, checkers, defaultConcurrency)
}

// CheckAllWithConcurrency checks with a custom concurrency limit.
// A checker not started before ctx is cancelled reports ctx.Err().
func CheckAllWithConcurrency(ctx context.Context, checkers []*Checker, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]Result, len(checkers))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, c := range checkers {
		wg.Add(1)
		go func(i int, c *Checker) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result{Checker: c, Status: StatusUnknown, Err: ctx.Err()}
				return
			}
			results[i] = Check(ctx, c)
		}(i, c)
	}

	wg.Wait()
	return results
}
