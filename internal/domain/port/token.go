package port

import (
	"context"

	"github.com/holiman/uint256"

	"custodian.io/internal/domain/entity"
)

// TokenTransfer is the port for moving asset value in and out of custody
type TokenTransfer interface {
	// Pull moves amount of asset from an account into custody. It fails when
	// the account's balance or the allowance granted to custody is too low.
	Pull(ctx context.Context, asset, from entity.Address, amount *uint256.Int) error
	// Push moves amount of asset from custody to an account.
	Push(ctx context.Context, asset, to entity.Address, amount *uint256.Int) error
}

// AssetMetadata exposes display information for an asset
type AssetMetadata interface {
	Metadata(asset entity.Address) (symbol string, decimals uint8, ok bool)
}

// CustodyApprover lets an account authorize custody to pull its assets
type CustodyApprover interface {
	// ApproveCustody replaces the allowance owner grants to custody for asset.
	ApproveCustody(ctx context.Context, asset, owner entity.Address, amount *uint256.Int) error
	CustodyAllowance(asset, owner entity.Address) (*uint256.Int, error)
	Custody() entity.Address
}
