// Grounded on github.com/streadway/amqp, the RabbitMQ client named in
// spec.md §4.2's env var RABBITMQ_ADDRESS and present in the retrieval
// pack's manifests alongside nats-io/nats.go as the pack's other real
// broker dependency — wiring both gives the queue abstraction its two
// interchangeable transports.
package queue

import (
	"context"

	"github.com/streadway/amqp"

	"github.com/tulpje/tulpje/internal/apperr"
)

// AMQPQueue implements Queue on top of a durable RabbitMQ queue.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPQueue connects to url and declares the durable "discord" queue.
func NewAMQPQueue(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "amqp dial", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, apperr.Wrap(apperr.KindTransport, "amqp channel open", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, apperr.Wrap(apperr.KindTransport, "amqp queue declare", err)
	}

	return &AMQPQueue{conn: conn, ch: ch}, nil
}

// Publish implements Queue.
func (q *AMQPQueue) Publish(ctx context.Context, body []byte) error {
	err := q.ch.Publish("", QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "amqp publish", err)
	}
	return nil
}

// Subscribe implements Queue with auto-ack consumption, per spec.md
// §4.2's tolerance for at-least-once duplicate delivery.
func (q *AMQPQueue) Subscribe(ctx context.Context, handler func(body []byte)) error {
	deliveries, err := q.ch.Consume(QueueName, "", true, false, false, false, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "amqp consume start", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return apperr.New(apperr.KindTransport, "amqp delivery channel closed")
			}
			handler(d.Body)
		}
	}
}

// Close implements Queue.
func (q *AMQPQueue) Close() error {
	q.ch.Close()
	return q.conn.Close()
}

var _ Queue = (*AMQPQueue)(nil)
