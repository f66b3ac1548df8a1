package queue

import (
	"context"
	"strings"

	"github.com/tulpje/tulpje/internal/apperr"
)

// Backend selects which Queue transport Open constructs.
type Backend string

const (
	BackendNATS Backend = "nats"
	BackendAMQP Backend = "amqp"
)

// Open connects to the configured queue backend. addr is the backend's
// native connection URL (a nats:// URL for BackendNATS, an amqp:// URL
// for BackendAMQP).
func Open(ctx context.Context, backend Backend, addr string) (Queue, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendNATS:
		return NewNATSQueue(ctx, addr)
	case BackendAMQP:
		return NewAMQPQueue(addr)
	default:
		return nil, apperr.New(apperr.KindConfig, "unknown QUEUE_BACKEND: "+string(backend))
	}
}
