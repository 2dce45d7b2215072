package usecase

import (
	"context"
	"time"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/metrics"
)

// AdministerUseCase handles the owner-only operations
type AdministerUseCase struct {
	ledger  port.Ledger
	metrics *metrics.Registry
}

// NewAdministerUseCase creates a new AdministerUseCase
func NewAdministerUseCase(ledger port.Ledger, metrics *metrics.Registry) *AdministerUseCase {
	return &AdministerUseCase{
		ledger:  ledger,
		metrics: metrics,
	}
}

func (uc *AdministerUseCase) observe(op string, start time.Time, err error) {
	uc.metrics.Observe(op, start, err)
	uc.metrics.SetPaused(uc.ledger.Paused())
	uc.metrics.WhitelistedAssets.Set(float64(len(uc.ledger.Whitelist())))
}

// WhitelistAsset adds asset to the whitelist
func (uc *AdministerUseCase) WhitelistAsset(ctx context.Context, caller entity.Address, asset string) (err error) {
	start := time.Now()
	defer func() { uc.observe("whitelist_asset", start, err) }()

	addr, err := entity.ParseAddress(asset)
	if err != nil {
		return err
	}
	return uc.ledger.WhitelistAsset(ctx, caller, addr)
}

// RemoveAsset removes asset from the whitelist
func (uc *AdministerUseCase) RemoveAsset(ctx context.Context, caller entity.Address, asset string) (err error) {
	start := time.Now()
	defer func() { uc.observe("remove_asset", start, err) }()

	addr, err := entity.ParseAddress(asset)
	if err != nil {
		return err
	}
	return uc.ledger.RemoveAssetFromWhitelist(ctx, caller, addr)
}

// Pause halts user operations
func (uc *AdministerUseCase) Pause(ctx context.Context, caller entity.Address) (err error) {
	start := time.Now()
	defer func() { uc.observe("pause", start, err) }()

	return uc.ledger.Pause(ctx, caller)
}

// Unpause resumes user operations
func (uc *AdministerUseCase) Unpause(ctx context.Context, caller entity.Address) (err error) {
	start := time.Now()
	defer func() { uc.observe("unpause", start, err) }()

	return uc.ledger.Unpause(ctx, caller)
}

// TransferOwnership hands the administrator role to req.NewOwner
func (uc *AdministerUseCase) TransferOwnership(ctx context.Context, caller entity.Address, req entity.OwnershipRequest) (err error) {
	start := time.Now()
	defer func() { uc.observe("transfer_ownership", start, err) }()

	newOwner, err := entity.ParseAddress(req.NewOwner)
	if err != nil {
		return err
	}
	return uc.ledger.TransferOwnership(ctx, caller, newOwner)
}

// RenounceOwnership leaves the vault without an administrator
func (uc *AdministerUseCase) RenounceOwnership(ctx context.Context, caller entity.Address) (err error) {
	start := time.Now()
	defer func() { uc.observe("renounce_ownership", start, err) }()

	return uc.ledger.RenounceOwnership(ctx, caller)
}
