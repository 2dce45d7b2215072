// Package publisher delivers vault events to external observers.
package publisher

import (
	"context"
	"errors"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/logger"
)

// Multi fans an event out to every publisher and joins their errors
type Multi []port.EventPublisher

// Publish implements port.EventPublisher
func (m Multi) Publish(ctx context.Context, event entity.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Logging writes every event to the application log
type Logging struct {
	logger logger.Logger
}

// NewLogging creates a publisher that logs events
func NewLogging(logger logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Publish implements port.EventPublisher
func (l *Logging) Publish(ctx context.Context, event entity.Event) error {
	attrs := []any{
		"event_id", event.ID.String(),
		"kind", string(event.Kind),
	}
	switch event.Kind {
	case entity.EventDeposit, entity.EventWithdrawal:
		attrs = append(attrs, "account", event.Account.Hex(), "asset", event.Asset.Hex(), "amount", amountString(event))
	case entity.EventTokenWhitelisted, entity.EventTokenRemovedFromWhitelist:
		attrs = append(attrs, "asset", event.Asset.Hex())
	case entity.EventPaused, entity.EventUnpaused:
		attrs = append(attrs, "account", event.Account.Hex())
	case entity.EventOwnershipTransferred:
		attrs = append(attrs, "previous_owner", event.PreviousOwner.Hex(), "new_owner", event.NewOwner.Hex())
	}
	l.logger.LogInfo(ctx, "Vault event", attrs...)
	return nil
}

func amountString(event entity.Event) string {
	if event.Amount == nil {
		return "0"
	}
	return event.Amount.Dec()
}
