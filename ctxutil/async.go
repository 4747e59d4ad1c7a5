package ctxutil

import (
	"context"
	"time"
)

// DefaultDetachedTimeout bounds work that must outlive the request, such as
// writing a response into the cache.
const DefaultDetachedTimeout = 2 * time.Second

// WithDetached derives a context that keeps parent's values, including the
// trace id, but is not cancelled with it.
func WithDetached(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultDetachedTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
