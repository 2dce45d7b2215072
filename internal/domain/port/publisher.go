package port

import (
	"context"

	"custodian.io/internal/domain/entity"
)

// EventPublisher is the port for delivering vault events to observers
type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}
