// Package lookup debounces and de-stales the planner's remote lookups
// (address autocomplete, postal code, provider suggestions, price estimate).
package lookup

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded means a newer lookup for the same key started; the result must be discarded.
var ErrSuperseded = errors.New("lookup superseded by a newer request")

// DefaultDebounce is the quiet period before a lookup fires.
const DefaultDebounce = 250 * time.Millisecond

// Token identifies one lookup generation for a key.
type Token uint64

// Tracker hands out generation tokens per key. Only the holder of the latest
// token may publish its result.
type Tracker struct {
	mu          sync.Mutex
	generations map[string]Token
}

func NewTracker() *Tracker {
	return &Tracker{generations: make(map[string]Token)}
}

// Key builds a tracker key from a scope (tab session) and a lookup kind.
func Key(scope, kind string) string {
	return scope + "|" + kind
}

// Begin starts a new generation for key, invalidating all earlier tokens.
func (t *Tracker) Begin(key string) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generations[key]++
	return t.generations[key]
}

// Current reports whether tok is still the latest generation for key.
func (t *Tracker) Current(key string, tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generations[key] == tok
}

// Debounce starts a generation and waits for delay. It returns ErrSuperseded when another
// Begin for the same key happened in the meantime, or the context error when ctx ends first.
func (t *Tracker) Debounce(ctx context.Context, key string, delay time.Duration) (Token, error) {
	tok := t.Begin(key)
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return tok, ctx.Err()
		case <-timer.C:
		}
	}
	if !t.Current(key, tok) {
		return tok, ErrSuperseded
	}
	return tok, nil
}

// Do debounces key and runs fn. A result produced after a newer generation began is
// discarded and reported as ErrSuperseded.
func Do[T any](ctx context.Context, t *Tracker, key string, delay time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	tok, err := t.Debounce(ctx, key, delay)
	if err != nil {
		return zero, err
	}
	out, err := fn(ctx)
	if !t.Current(key, tok) {
		return zero, ErrSuperseded
	}
	return out, err
}

// Invalidate supersedes every token issued for key so far. The counter keeps
// growing so later tokens never repeat one still in flight.
func (t *Tracker) Invalidate(key string) {
	t.mu.Lock()
	t.generations[key]++
	t.mu.Unlock()
}
