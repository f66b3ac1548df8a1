// Package queue abstracts over the durable work-queue transport (spec.md
// §4.2): a single FIFO queue named "discord", at-least-once delivery,
// auto-ack consumption permitted. Two interchangeable adapters are
// wired, chosen at runtime by QUEUE_BACKEND, grounded on the broker
// clients named across the retrieval pack's manifests
// (other_examples/manifests/*/go.mod list both nats-io/nats.go and
// streadway/amqp as real fleet dependencies).
package queue

import "context"

// QueueName is the single durable queue every process publishes to and
// consumes from.
const QueueName = "discord"

// Queue is the minimal durable-queue contract: publish, subscribe,
// close. Nothing beyond this is assumed, per spec.md §4.2 ("the design
// MUST NOT assume any feature beyond durable queue, publish, subscribe").
type Queue interface {
	// Publish enqueues body onto the durable queue.
	Publish(ctx context.Context, body []byte) error

	// Subscribe registers handler to be invoked for every message
	// delivered off the queue. Delivery is at-least-once; handler must
	// tolerate duplicates. Subscribe blocks until ctx is canceled or an
	// unrecoverable transport error occurs.
	Subscribe(ctx context.Context, handler func(body []byte)) error

	// Close releases the underlying transport connection.
	Close() error
}
