package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type fanOutResult[T any] struct {
	key   string
	value T
	err   error
}

// fanOut runs fn once per key on a bounded pool and waits for every call to settle.
// Each call owns one slot of the result slice, so a failed key never affects its siblings.
// Only pool setup errors abort the batch.
func fanOut[T any](
	ctx context.Context,
	workers int,
	keys []string,
	fn func(ctx context.Context, key string) (T, error),
) ([]fanOutResult[T], error) {
	results := make([]fanOutResult[T], len(keys))
	if len(keys) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(max(min(workers, len(keys)), 1))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					results[i] = fanOutResult[T]{key: key, err: fmt.Errorf("panic fetching %s: %v", key, rec)}
				}
			}()

			value, err := fn(ctx, key)
			results[i] = fanOutResult[T]{key: key, value: value, err: err}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	wg.Wait()
	return results, nil
}
