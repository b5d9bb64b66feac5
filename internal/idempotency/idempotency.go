// Package idempotency remembers responses to payment callbacks so a replayed
// delivery is answered without touching the database. The database transition
// stays the source of truth; a miss or an error here only costs a query.
package idempotency

import (
	"context"
	"time"
)

type Store interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Remember(ctx context.Context, key, value string, ttl time.Duration) error
}

func CallbackKey(orderCode, status string) string {
	return "payment:callback:" + orderCode + ":" + status
}

type Nop struct{}

func (Nop) Lookup(context.Context, string) (string, bool, error) { return "", false, nil }

func (Nop) Remember(context.Context, string, string, time.Duration) error { return nil }
