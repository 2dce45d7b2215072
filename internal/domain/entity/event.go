package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// EventKind names an observable vault event.
type EventKind string

const (
	EventDeposit                   EventKind = "Deposit"
	EventWithdrawal                EventKind = "Withdrawal"
	EventTokenWhitelisted          EventKind = "TokenWhitelisted"
	EventTokenRemovedFromWhitelist EventKind = "TokenRemovedFromWhitelist"
	EventPaused                    EventKind = "Paused"
	EventUnpaused                  EventKind = "Unpaused"
	EventOwnershipTransferred      EventKind = "OwnershipTransferred"
)

// Event is emitted after a successful state change. Fields that do not apply
// to the kind are left zero.
type Event struct {
	ID            uuid.UUID    `json:"id"`
	Kind          EventKind    `json:"kind"`
	Account       Address      `json:"account"`
	Asset         Address      `json:"asset"`
	Amount        *uint256.Int `json:"amount,omitempty"`
	PreviousOwner Address      `json:"previousOwner"`
	NewOwner      Address      `json:"newOwner"`
	Timestamp     time.Time    `json:"timestamp"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(kind EventKind) Event {
	return Event{
		ID:        uuid.New(),
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}
