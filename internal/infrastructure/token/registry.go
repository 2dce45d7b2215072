package token

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/logger"
)

var (
	ErrUnknownToken          = errors.New("unknown token")
	ErrTokenExists           = errors.New("token already registered")
	ErrInsufficientBalance   = errors.New("transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrSupplyOverflow        = errors.New("total supply overflow")
)

// fungible is a standard fungible token: balances plus owner -> spender allowances
type fungible struct {
	symbol     string
	decimals   uint8
	supply     *uint256.Int
	balances   map[entity.Address]*uint256.Int
	allowances map[entity.Address]map[entity.Address]*uint256.Int
}

func (f *fungible) balanceOf(account entity.Address) *uint256.Int {
	if b, ok := f.balances[account]; ok {
		return b
	}
	return new(uint256.Int)
}

func (f *fungible) allowance(owner, spender entity.Address) *uint256.Int {
	if a, ok := f.allowances[owner][spender]; ok {
		return a
	}
	return new(uint256.Int)
}

func (f *fungible) move(from, to entity.Address, amount *uint256.Int) error {
	fromBalance := f.balanceOf(from)
	if fromBalance.Lt(amount) {
		return ErrInsufficientBalance
	}
	f.balances[from] = new(uint256.Int).Sub(fromBalance, amount)
	// Cannot overflow: the sum of balances is bounded by supply.
	f.balances[to] = new(uint256.Int).Add(f.balanceOf(to), amount)
	return nil
}

// Registry is an in-memory set of fungible tokens keyed by asset address. It
// acts as the vault's transfer collaborator, with custody as the vault's own
// account.
type Registry struct {
	mu      sync.Mutex
	custody entity.Address
	tokens  map[entity.Address]*fungible
	logger  logger.Logger
}

// NewRegistry creates an empty registry whose Pull/Push move value to and from custody
func NewRegistry(custody entity.Address, logger logger.Logger) *Registry {
	return &Registry{
		custody: custody,
		tokens:  make(map[entity.Address]*fungible),
		logger:  logger,
	}
}

var (
	_ port.TokenTransfer   = (*Registry)(nil)
	_ port.AssetMetadata   = (*Registry)(nil)
	_ port.CustodyApprover = (*Registry)(nil)
)

// Custody returns the account that holds deposited value
func (r *Registry) Custody() entity.Address {
	return r.custody
}

// Register adds a new token with zero supply
func (r *Registry) Register(asset entity.Address, symbol string, decimals uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if asset == entity.ZeroAddress {
		return entity.ErrZeroAddress
	}
	if _, ok := r.tokens[asset]; ok {
		return fmt.Errorf("%w: %s", ErrTokenExists, asset.Hex())
	}
	r.tokens[asset] = &fungible{
		symbol:     symbol,
		decimals:   decimals,
		supply:     new(uint256.Int),
		balances:   make(map[entity.Address]*uint256.Int),
		allowances: make(map[entity.Address]map[entity.Address]*uint256.Int),
	}
	return nil
}

func (r *Registry) lookup(asset entity.Address) (*fungible, error) {
	t, ok := r.tokens[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, asset.Hex())
	}
	return t, nil
}

// Mint creates amount new units of asset for account
func (r *Registry) Mint(asset, account entity.Address, amount *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.lookup(asset)
	if err != nil {
		return err
	}
	supply, overflow := new(uint256.Int).AddOverflow(t.supply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	t.supply = supply
	t.balances[account] = new(uint256.Int).Add(t.balanceOf(account), amount)
	return nil
}

// BalanceOf returns account's holding of asset
func (r *Registry) BalanceOf(asset, account entity.Address) (*uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.lookup(asset)
	if err != nil {
		return nil, err
	}
	return t.balanceOf(account).Clone(), nil
}

// TotalSupply returns the minted amount of asset
func (r *Registry) TotalSupply(asset entity.Address) (*uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.lookup(asset)
	if err != nil {
		return nil, err
	}
	return t.supply.Clone(), nil
}

// Approve sets the amount spender may move out of owner's balance
func (r *Registry) Approve(asset, owner, spender entity.Address, amount *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.lookup(asset)
	if err != nil {
		return err
	}
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[entity.Address]*uint256.Int)
	}
	t.allowances[owner][spender] = amount.Clone()
	return nil
}

// Allowance returns what spender may still move out of owner's balance
func (r *Registry) Allowance(asset, owner, spender entity.Address) (*uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.lookup(asset)
	if err != nil {
		return nil, err
	}
	return t.allowance(owner, spender).Clone(), nil
}

// ApproveCustody sets the allowance owner grants to the custody account
func (r *Registry) ApproveCustody(ctx context.Context, asset, owner entity.Address, amount *uint256.Int) error {
	if err := r.Approve(asset, owner, r.custody, amount); err != nil {
		r.logger.LogWarning(ctx, "Custody approval failed",
			"asset", asset.Hex(),
			"owner", owner.Hex(),
			"error", err.Error())
		return err
	}
	return nil
}

// CustodyAllowance returns what the custody account may still pull from owner
func (r *Registry) CustodyAllowance(asset, owner entity.Address) (*uint256.Int, error) {
	return r.Allowance(asset, owner, r.custody)
}

// Transfer moves amount from one account to another
func (r *Registry) Transfer(asset, from, to entity.Address, amount *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.lookup(asset)
	if err != nil {
		return err
	}
	return t.move(from, to, amount)
}

// TransferFrom lets spender move amount out of owner's balance, consuming allowance
func (r *Registry) TransferFrom(asset, spender, owner, to entity.Address, amount *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.lookup(asset)
	if err != nil {
		return err
	}
	allowed := t.allowance(owner, spender)
	if allowed.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.move(owner, to, amount); err != nil {
		return err
	}
	t.allowances[owner][spender] = new(uint256.Int).Sub(allowed, amount)
	return nil
}

// Pull implements port.TokenTransfer
func (r *Registry) Pull(ctx context.Context, asset, from entity.Address, amount *uint256.Int) error {
	if err := r.TransferFrom(asset, r.custody, from, r.custody, amount); err != nil {
		r.logger.LogWarning(ctx, "Pull into custody rejected",
			"asset", asset.Hex(),
			"from", from.Hex(),
			"amount", amount.Dec(),
			"error", err.Error())
		return err
	}
	return nil
}

// Push implements port.TokenTransfer
func (r *Registry) Push(ctx context.Context, asset, to entity.Address, amount *uint256.Int) error {
	if err := r.Transfer(asset, r.custody, to, amount); err != nil {
		r.logger.LogWarning(ctx, "Push from custody rejected",
			"asset", asset.Hex(),
			"to", to.Hex(),
			"amount", amount.Dec(),
			"error", err.Error())
		return err
	}
	return nil
}

// Metadata implements port.AssetMetadata
func (r *Registry) Metadata(asset entity.Address) (string, uint8, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[asset]
	if !ok {
		return "", 0, false
	}
	return t.symbol, t.decimals, true
}
