package repository

import (
	"context"
	"sync"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
)

// DefaultJournalCapacity bounds the in-memory audit trail
const DefaultJournalCapacity = 10000

// InMemoryJournal keeps the most recent vault events as an audit trail
type InMemoryJournal struct {
	mu       sync.RWMutex
	entries  []entity.Event
	capacity int
}

// NewInMemoryJournal creates a journal retaining at most capacity events
func NewInMemoryJournal(capacity int) *InMemoryJournal {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return &InMemoryJournal{
		entries:  make([]entity.Event, 0),
		capacity: capacity,
	}
}

var _ port.EventPublisher = (*InMemoryJournal)(nil)

// Publish appends an event, dropping the oldest once capacity is reached
func (j *InMemoryJournal) Publish(_ context.Context, event entity.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.entries) == j.capacity {
		copy(j.entries, j.entries[1:])
		j.entries = j.entries[:len(j.entries)-1]
	}
	j.entries = append(j.entries, event)

	return nil
}

// List returns up to limit of the most recent events, oldest first. A
// non-positive limit returns everything retained.
func (j *InMemoryJournal) List(_ context.Context, limit int) ([]entity.Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(j.entries) {
		start = len(j.entries) - limit
	}

	// Create a copy to avoid race conditions
	out := make([]entity.Event, len(j.entries)-start)
	copy(out, j.entries[start:])
	return out, nil
}
