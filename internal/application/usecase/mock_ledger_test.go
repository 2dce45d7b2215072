package usecase

import (
	"context"

	"github.com/holiman/uint256"

	"custodian.io/internal/domain/entity"
)

// mockLedger implements port.Ledger
type mockLedger struct {
	depositFunc   func(ctx context.Context, caller, asset entity.Address, amount *uint256.Int) error
	withdrawFunc  func(ctx context.Context, caller, asset entity.Address, amount *uint256.Int) (*uint256.Int, error)
	whitelistFunc func(ctx context.Context, caller, asset entity.Address) error
	balances      map[entity.Address]*uint256.Int
	whitelist     []entity.Address
	owner         entity.Address
	paused        bool
}

func (m *mockLedger) WhitelistAsset(ctx context.Context, caller, asset entity.Address) error {
	if m.whitelistFunc != nil {
		return m.whitelistFunc(ctx, caller, asset)
	}
	return nil
}

func (m *mockLedger) RemoveAssetFromWhitelist(context.Context, entity.Address, entity.Address) error {
	return nil
}

func (m *mockLedger) Pause(context.Context, entity.Address) error {
	m.paused = true
	return nil
}

func (m *mockLedger) Unpause(context.Context, entity.Address) error {
	m.paused = false
	return nil
}

func (m *mockLedger) TransferOwnership(_ context.Context, _, newOwner entity.Address) error {
	m.owner = newOwner
	return nil
}

func (m *mockLedger) RenounceOwnership(context.Context, entity.Address) error {
	m.owner = entity.ZeroAddress
	return nil
}

func (m *mockLedger) Deposit(ctx context.Context, caller, asset entity.Address, amount *uint256.Int) error {
	if m.depositFunc != nil {
		return m.depositFunc(ctx, caller, asset, amount)
	}
	return nil
}

func (m *mockLedger) Withdraw(ctx context.Context, caller, asset entity.Address, amount *uint256.Int) (*uint256.Int, error) {
	if m.withdrawFunc != nil {
		return m.withdrawFunc(ctx, caller, asset, amount)
	}
	return amount, nil
}

func (m *mockLedger) BalanceOf(_, account entity.Address) *uint256.Int {
	if b, ok := m.balances[account]; ok {
		return b
	}
	return new(uint256.Int)
}

func (m *mockLedger) TotalDeposits(entity.Address) *uint256.Int {
	total := new(uint256.Int)
	for _, b := range m.balances {
		total.Add(total, b)
	}
	return total
}

func (m *mockLedger) IsWhitelisted(asset entity.Address) bool {
	for _, a := range m.whitelist {
		if a == asset {
			return true
		}
	}
	return false
}

func (m *mockLedger) Whitelist() []entity.Address { return m.whitelist }
func (m *mockLedger) Paused() bool                { return m.paused }
func (m *mockLedger) Owner() entity.Address       { return m.owner }

// mockMetadata implements port.AssetMetadata
type mockMetadata map[entity.Address]struct {
	symbol   string
	decimals uint8
}

func (m mockMetadata) Metadata(asset entity.Address) (string, uint8, bool) {
	md, ok := m[asset]
	return md.symbol, md.decimals, ok
}

// mockApprover implements port.CustodyApprover
type mockApprover struct {
	custody    entity.Address
	allowances map[entity.Address]*uint256.Int
	err        error
}

func (m *mockApprover) ApproveCustody(_ context.Context, _, owner entity.Address, amount *uint256.Int) error {
	if m.err != nil {
		return m.err
	}
	if m.allowances == nil {
		m.allowances = make(map[entity.Address]*uint256.Int)
	}
	m.allowances[owner] = amount
	return nil
}

func (m *mockApprover) CustodyAllowance(_, owner entity.Address) (*uint256.Int, error) {
	if a, ok := m.allowances[owner]; ok {
		return a, nil
	}
	return new(uint256.Int), nil
}

func (m *mockApprover) Custody() entity.Address { return m.custody }
