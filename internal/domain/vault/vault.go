// Package vault implements the custodial ledger: the asset whitelist, the
// per-(asset, account) balance table, the pause switch and the single
// administrator allowed to change them.
//
// All state lives behind one RWMutex. Mutations hold the write lock for their
// whole duration, including the call to the transfer collaborator, so the
// external movement of value and the balance update are applied together or
// not at all.
package vault

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/holiman/uint256"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/logger"
)

// Vault holds deposits of whitelisted assets on behalf of their depositors
type Vault struct {
	mu        sync.RWMutex
	owner     entity.Address
	paused    bool
	whitelist map[entity.Address]struct{}
	balances  map[entity.Address]map[entity.Address]*uint256.Int // asset -> account -> amount

	transfer  port.TokenTransfer
	publisher port.EventPublisher
	logger    logger.Logger
}

var _ port.Ledger = (*Vault)(nil)

// New creates an active vault with an empty whitelist owned by owner.
// publisher may be nil.
func New(owner entity.Address, transfer port.TokenTransfer, publisher port.EventPublisher, logger logger.Logger) *Vault {
	return &Vault{
		owner:     owner,
		whitelist: make(map[entity.Address]struct{}),
		balances:  make(map[entity.Address]map[entity.Address]*uint256.Int),
		transfer:  transfer,
		publisher: publisher,
		logger:    logger,
	}
}

// isOwner must be called with the lock held.
func (v *Vault) isOwner(caller entity.Address) bool {
	return v.owner != entity.ZeroAddress && caller == v.owner
}

// emit must be called with the write lock held so events leave in commit order.
// The state change is already committed, so the caller's cancellation must not
// keep the event from its sinks.
func (v *Vault) emit(ctx context.Context, event entity.Event) {
	if v.publisher == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := v.publisher.Publish(ctx, event); err != nil {
		v.logger.LogError(ctx, "Failed to publish vault event", err,
			"event_id", event.ID.String(),
			"kind", string(event.Kind))
	}
}

// WhitelistAsset makes asset eligible for deposit and withdrawal
func (v *Vault) WhitelistAsset(ctx context.Context, caller, asset entity.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.isOwner(caller) {
		return entity.ErrNotAdministrator
	}
	if asset == entity.ZeroAddress {
		return entity.ErrZeroAddress
	}

	v.whitelist[asset] = struct{}{}

	event := entity.NewEvent(entity.EventTokenWhitelisted)
	event.Asset = asset
	v.emit(ctx, event)

	return nil
}

// RemoveAssetFromWhitelist stops accepting asset. Recorded balances are left
// untouched and cannot be withdrawn until the asset is whitelisted again.
func (v *Vault) RemoveAssetFromWhitelist(ctx context.Context, caller, asset entity.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.isOwner(caller) {
		return entity.ErrNotAdministrator
	}

	delete(v.whitelist, asset)

	event := entity.NewEvent(entity.EventTokenRemovedFromWhitelist)
	event.Asset = asset
	v.emit(ctx, event)

	return nil
}

// Pause halts deposits and withdrawals. Pausing a paused vault fails with ErrPaused.
func (v *Vault) Pause(ctx context.Context, caller entity.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.isOwner(caller) {
		return entity.ErrNotAdministrator
	}
	if v.paused {
		return entity.ErrPaused
	}

	v.paused = true

	event := entity.NewEvent(entity.EventPaused)
	event.Account = caller
	v.emit(ctx, event)

	return nil
}

// Unpause resumes user operations. Unpausing an active vault fails with ErrNotPaused.
func (v *Vault) Unpause(ctx context.Context, caller entity.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.isOwner(caller) {
		return entity.ErrNotAdministrator
	}
	if !v.paused {
		return entity.ErrNotPaused
	}

	v.paused = false

	event := entity.NewEvent(entity.EventUnpaused)
	event.Account = caller
	v.emit(ctx, event)

	return nil
}

// TransferOwnership hands the administrator role to newOwner
func (v *Vault) TransferOwnership(ctx context.Context, caller, newOwner entity.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.isOwner(caller) {
		return entity.ErrNotAdministrator
	}
	if newOwner == entity.ZeroAddress {
		return entity.ErrZeroAddress
	}

	v.setOwner(ctx, newOwner)
	return nil
}

// RenounceOwnership leaves the vault without an administrator. Whitelist and
// pause state are frozen from then on.
func (v *Vault) RenounceOwnership(ctx context.Context, caller entity.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.isOwner(caller) {
		return entity.ErrNotAdministrator
	}

	v.setOwner(ctx, entity.ZeroAddress)
	return nil
}

func (v *Vault) setOwner(ctx context.Context, newOwner entity.Address) {
	previous := v.owner
	v.owner = newOwner

	event := entity.NewEvent(entity.EventOwnershipTransferred)
	event.PreviousOwner = previous
	event.NewOwner = newOwner
	v.emit(ctx, event)
}

// checkUserOp must be called with the lock held. The order of the checks is
// part of the contract: paused, then whitelist, then amount.
func (v *Vault) checkUserOp(asset entity.Address, amount *uint256.Int) error {
	if v.paused {
		return entity.ErrPaused
	}
	if _, ok := v.whitelist[asset]; !ok {
		return entity.ErrAssetNotWhitelisted
	}
	if amount == nil || amount.IsZero() {
		return entity.ErrInvalidAmount
	}
	return nil
}

func (v *Vault) balance(asset, account entity.Address) *uint256.Int {
	if b, ok := v.balances[asset][account]; ok {
		return b
	}
	return new(uint256.Int)
}

func (v *Vault) setBalance(asset, account entity.Address, amount *uint256.Int) {
	accounts, ok := v.balances[asset]
	if !ok {
		accounts = make(map[entity.Address]*uint256.Int)
		v.balances[asset] = accounts
	}
	accounts[account] = amount
}

// Deposit pulls amount of asset from caller into custody and credits caller's balance
func (v *Vault) Deposit(ctx context.Context, caller, asset entity.Address, amount *uint256.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUserOp(asset, amount); err != nil {
		return err
	}

	credited, overflow := new(uint256.Int).AddOverflow(v.balance(asset, caller), amount)
	if overflow {
		return entity.ErrBalanceOverflow
	}

	if err := v.transfer.Pull(ctx, asset, caller, amount); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrTransferFailed, err)
	}

	v.setBalance(asset, caller, credited)

	event := entity.NewEvent(entity.EventDeposit)
	event.Account = caller
	event.Asset = asset
	event.Amount = amount.Clone()
	v.emit(ctx, event)

	return nil
}

// Withdraw pays out min(amount, balance) of asset to caller and returns the
// settled amount. Asking for more than the recorded balance is not an error.
func (v *Vault) Withdraw(ctx context.Context, caller, asset entity.Address, amount *uint256.Int) (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkUserOp(asset, amount); err != nil {
		return nil, err
	}

	current := v.balance(asset, caller)
	settled := amount.Clone()
	if current.Lt(settled) {
		settled = current.Clone()
	}

	if !settled.IsZero() {
		if err := v.transfer.Push(ctx, asset, caller, settled); err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrTransferFailed, err)
		}
		v.setBalance(asset, caller, new(uint256.Int).Sub(current, settled))
	}

	event := entity.NewEvent(entity.EventWithdrawal)
	event.Account = caller
	event.Asset = asset
	event.Amount = settled.Clone()
	v.emit(ctx, event)

	return settled, nil
}

// BalanceOf returns the recorded balance of account in asset
func (v *Vault) BalanceOf(asset, account entity.Address) *uint256.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.balance(asset, account).Clone()
}

// TotalDeposits returns the sum of all recorded balances in asset
func (v *Vault) TotalDeposits(asset entity.Address) *uint256.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	total := new(uint256.Int)
	for _, b := range v.balances[asset] {
		total.Add(total, b)
	}
	return total
}

// IsWhitelisted reports whether asset is currently accepted
func (v *Vault) IsWhitelisted(asset entity.Address) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	_, ok := v.whitelist[asset]
	return ok
}

// Whitelist returns the accepted assets in byte order
func (v *Vault) Whitelist() []entity.Address {
	v.mu.RLock()
	defer v.mu.RUnlock()

	assets := make([]entity.Address, 0, len(v.whitelist))
	for a := range v.whitelist {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool {
		return bytes.Compare(assets[i][:], assets[j][:]) < 0
	})
	return assets
}

// Paused reports whether user operations are halted
func (v *Vault) Paused() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.paused
}

// Owner returns the current administrator, or the zero address once renounced
func (v *Vault) Owner() entity.Address {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.owner
}
