package usecase

import (
	"context"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// ListEventsUseCase returns the recent audit trail
type ListEventsUseCase struct {
	source port.EventSource
}

// NewListEventsUseCase creates a new ListEventsUseCase
func NewListEventsUseCase(source port.EventSource) *ListEventsUseCase {
	return &ListEventsUseCase{source: source}
}

// Execute lists up to limit recent events, oldest first
func (uc *ListEventsUseCase) Execute(ctx context.Context, limit int) ([]entity.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	return uc.source.List(ctx, limit)
}
