// Grounded on github.com/nats-io/nats.go (present across
// other_examples/manifests/*/go.mod as a real fleet message-bus
// dependency); JetStream is used for the durability spec.md §4.2
// requires from a queue named "discord" — plain core NATS is fire-and-
// forget and wouldn't survive a consumer outage.
package queue

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tulpje/tulpje/internal/apperr"
)

const natsStreamName = "DISCORD"

// NATSQueue implements Queue on top of a JetStream stream backing
// QueueName, consumed through one durable pull consumer
// ("discord-consumer") that every subscriber shares.
type NATSQueue struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewNATSQueue connects to url and ensures the backing stream/subject exists.
func NewNATSQueue(ctx context.Context, url string) (*NATSQueue, error) {
	nc, err := nats.Connect(url, nats.MaxReconnects(-1))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "nats connect", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, apperr.Wrap(apperr.KindTransport, "jetstream init", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      natsStreamName,
		Subjects:  []string{QueueName},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, apperr.Wrap(apperr.KindTransport, "jetstream stream declare", err)
	}

	return &NATSQueue{nc: nc, js: js, stream: stream}, nil
}

// Publish implements Queue.
func (q *NATSQueue) Publish(ctx context.Context, body []byte) error {
	if _, err := q.js.Publish(ctx, QueueName, body); err != nil {
		return apperr.Wrap(apperr.KindTransport, "nats publish", err)
	}
	return nil
}

// Subscribe implements Queue using a durable pull consumer so delivery
// survives process restarts; messages are auto-acked on receipt, per
// spec.md §4.2's "auto-ack consumption is permitted".
func (q *NATSQueue) Subscribe(ctx context.Context, handler func(body []byte)) error {
	consumer, err := q.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "discord-consumer",
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "nats consumer declare", err)
	}

	consCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		handler(msg.Data())
	})
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "nats consume start", err)
	}
	defer consCtx.Stop()

	<-ctx.Done()
	return nil
}

// Close implements Queue.
func (q *NATSQueue) Close() error {
	q.nc.Close()
	return nil
}

var _ Queue = (*NATSQueue)(nil)
