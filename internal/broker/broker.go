// Package broker defines the messaging contract between the API, which
// queues render tasks, and the worker, which consumes them and announces
// results.
package broker

import (
	"context"

	"github.com/wb-go/wbf/retry"
)

// Message is a single record read from a render topic. Offset is kept
// so the consumer can commit only after the task has been processed.
type Message struct {
	Key    []byte
	Value  []byte
	Offset int64
}

// Producer sends serialized render tasks and results to their topics.
type Producer interface {
	SendTask(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	SendResult(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}

// Consumer feeds render-task messages into out until ctx is cancelled.
type Consumer interface {
	Start(ctx context.Context, out chan<- *Message, strategy retry.Strategy)
	Commit(ctx context.Context, key []byte, offset int64) error
	Close() error
}
