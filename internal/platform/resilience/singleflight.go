package resilience

import (
	"context"
	"sync"
)

// Group collapses concurrent calls sharing a key into one execution.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*flight[T]
}

type flight[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// DoContext runs fn once per in-flight key; shared reports whether the result came from another
// caller. The execution runs detached from every caller, so a caller whose ctx ends gets
// ctx.Err() while the others still receive the shared result.
func (g *Group[T]) DoContext(ctx context.Context, key string, fn func() (T, error)) (val T, err error, shared bool) {
	f, shared := g.join(key, fn)
	select {
	case <-f.done:
		return f.val, f.err, shared
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err(), shared
	}
}

func (g *Group[T]) join(key string, fn func() (T, error)) (*flight[T], bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}
	if f, ok := g.calls[key]; ok {
		g.mu.Unlock()
		return f, true
	}

	f := &flight[T]{done: make(chan struct{})}
	g.calls[key] = f
	g.mu.Unlock()

	go func() {
		defer func() {
			g.mu.Lock()
			delete(g.calls, key)
			g.mu.Unlock()
			close(f.done)
		}()
		f.val, f.err = fn()
	}()
	return f, false
}
