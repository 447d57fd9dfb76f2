package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key builds a deterministic signature from an operation name and its
// arguments, e.g. Key("section_items", "5") == `section_items("5")`.
func Key(op string, args ...string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = strconv.Quote(arg)
	}
	return op + "(" + strings.Join(quoted, ",") + ")"
}

// Fetch is the typed form of GetOrCompute.
func Fetch[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	value, err := c.GetOrCompute(key, ttl, func() (any, error) {
		v, err := compute()
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: entry %s holds %T", key, value)
	}
	return typed, nil
}

// Memoize wraps a single-argument lookup so that its results are cached under
// Key(op, arg) for ttl. The wrapped call runs detached from the caller's
// cancellation because its result may be shared with other waiters.
func Memoize[T any](c *Cache, op string, ttl time.Duration, fn func(ctx context.Context, arg string) (T, error)) func(ctx context.Context, arg string) (T, error) {
	return func(ctx context.Context, arg string) (T, error) {
		return Fetch(c, Key(op, arg), ttl, func() (T, error) {
			return fn(context.WithoutCancel(ctx), arg)
		})
	}
}
