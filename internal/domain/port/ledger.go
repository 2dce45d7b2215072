package port

import (
	"context"

	"github.com/holiman/uint256"

	"custodian.io/internal/domain/entity"
)

// Ledger is the port for the custodial vault
type Ledger interface {
	WhitelistAsset(ctx context.Context, caller, asset entity.Address) error
	RemoveAssetFromWhitelist(ctx context.Context, caller, asset entity.Address) error
	Pause(ctx context.Context, caller entity.Address) error
	Unpause(ctx context.Context, caller entity.Address) error
	TransferOwnership(ctx context.Context, caller, newOwner entity.Address) error
	RenounceOwnership(ctx context.Context, caller entity.Address) error

	Deposit(ctx context.Context, caller, asset entity.Address, amount *uint256.Int) error
	Withdraw(ctx context.Context, caller, asset entity.Address, amount *uint256.Int) (*uint256.Int, error)

	BalanceOf(asset, account entity.Address) *uint256.Int
	TotalDeposits(asset entity.Address) *uint256.Int
	IsWhitelisted(asset entity.Address) bool
	Whitelist() []entity.Address
	Paused() bool
	Owner() entity.Address
}

// EventSource lists recently published events
type EventSource interface {
	List(ctx context.Context, limit int) ([]entity.Event, error)
}
