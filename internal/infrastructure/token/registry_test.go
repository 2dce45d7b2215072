package token

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/infrastructure/logger"
)

var (
	custody = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
	alice   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob     = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	usdc    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(custody, logger.Nop())
	require.NoError(t, r.Register(usdc, "USDC", 6))
	require.NoError(t, r.Mint(usdc, alice, uint256.NewInt(100)))
	return r
}

func balance(t *testing.T, r *Registry, account entity.Address) uint64 {
	t.Helper()
	b, err := r.BalanceOf(usdc, account)
	require.NoError(t, err)
	return b.Uint64()
}

func TestRegistry_Register(t *testing.T) {
	r := newRegistry(t)

	assert.ErrorIs(t, r.Register(usdc, "USDC", 6), ErrTokenExists)
	assert.ErrorIs(t, r.Register(entity.ZeroAddress, "NULL", 0), entity.ErrZeroAddress)

	symbol, decimals, ok := r.Metadata(usdc)
	assert.True(t, ok)
	assert.Equal(t, "USDC", symbol)
	assert.Equal(t, uint8(6), decimals)

	_, _, ok = r.Metadata(bob)
	assert.False(t, ok)

	supply, err := r.TotalSupply(usdc)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), supply.Uint64())
}

func TestRegistry_UnknownToken(t *testing.T) {
	r := newRegistry(t)

	_, err := r.BalanceOf(bob, alice)
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.ErrorIs(t, r.Mint(bob, alice, uint256.NewInt(1)), ErrUnknownToken)
	assert.ErrorIs(t, r.Pull(context.Background(), bob, alice, uint256.NewInt(1)), ErrUnknownToken)
}

func TestRegistry_PullRequiresAllowance(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		approve     uint64
		pull        uint64
		wantErr     error
		wantAlice   uint64
		wantCustody uint64
	}{
		{name: "no allowance", approve: 0, pull: 10, wantErr: ErrInsufficientAllowance, wantAlice: 100},
		{name: "allowance too small", approve: 5, pull: 10, wantErr: ErrInsufficientAllowance, wantAlice: 100},
		{name: "balance too small", approve: 500, pull: 200, wantErr: ErrInsufficientBalance, wantAlice: 100},
		{name: "pull", approve: 60, pull: 60, wantAlice: 40, wantCustody: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, r.Approve(usdc, alice, custody, uint256.NewInt(tt.approve)))

			err := r.Pull(ctx, usdc, alice, uint256.NewInt(tt.pull))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantAlice, balance(t, r, alice))
			assert.Equal(t, tt.wantCustody, balance(t, r, custody))
		})
	}

	allowance, err := r.Allowance(usdc, alice, custody)
	require.NoError(t, err)
	assert.True(t, allowance.IsZero())
}

func TestRegistry_Push(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.Approve(usdc, alice, custody, uint256.NewInt(30)))
	require.NoError(t, r.Pull(ctx, usdc, alice, uint256.NewInt(30)))

	assert.ErrorIs(t, r.Push(ctx, usdc, bob, uint256.NewInt(31)), ErrInsufficientBalance)
	require.NoError(t, r.Push(ctx, usdc, bob, uint256.NewInt(30)))

	assert.Equal(t, uint64(30), balance(t, r, bob))
	assert.Zero(t, balance(t, r, custody))
}

func TestRegistry_MintOverflow(t *testing.T) {
	r := newRegistry(t)

	err := r.Mint(usdc, bob, new(uint256.Int).SetAllOne())
	assert.ErrorIs(t, err, ErrSupplyOverflow)
	assert.Zero(t, balance(t, r, bob))
}

func TestRegistry_ApproveCustody(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.ApproveCustody(ctx, usdc, alice, uint256.NewInt(30)))
	allowance, err := r.CustodyAllowance(usdc, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), allowance.Uint64())

	require.NoError(t, r.Pull(ctx, usdc, alice, uint256.NewInt(30)))
	assert.ErrorIs(t, r.Pull(ctx, usdc, alice, uint256.NewInt(1)), ErrInsufficientAllowance)

	// approving again replaces the spent allowance
	require.NoError(t, r.ApproveCustody(ctx, usdc, alice, uint256.NewInt(10)))
	require.NoError(t, r.Pull(ctx, usdc, alice, uint256.NewInt(10)))
	assert.Equal(t, uint64(40), balance(t, r, custody))

	assert.ErrorIs(t, r.ApproveCustody(ctx, bob, alice, uint256.NewInt(1)), ErrUnknownToken)
}
