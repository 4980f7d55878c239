package application

import (
	"context"
	"time"
)

// Notifier delivers a one-time code to an address. The production
// implementation queues an email job; tests substitute a recorder.
type Notifier interface {
	SendCode(ctx context.Context, to, name, code, purpose string) error
}

// CodeStore holds purpose-scoped one-time codes in shared storage so a code
// issued by one process instance can be confirmed by another. Entries are
// removed entirely on consumption.
type CodeStore interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) error
}
