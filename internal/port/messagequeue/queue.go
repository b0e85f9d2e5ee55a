// Package messagequeue defines the publish/subscribe port.
package messagequeue

import "context"

// Handler consumes one message.
type Handler func(ctx context.Context, subject string, data []byte) error

// Queue is a durable publish/subscribe boundary. The server only publishes;
// Subscribe exists for out-of-process workers (notification senders, audit
// consumers) that attach to the same stream, and for tests.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(ctx context.Context, subject string, h Handler) (func(), error)
	Close()
}

// KV is a small durable key-value bucket used for idempotency records.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
