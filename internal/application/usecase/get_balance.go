package usecase

import (
	"context"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
)

// GetBalanceUseCase handles balance retrieval
type GetBalanceUseCase struct {
	ledger   port.Ledger
	metadata port.AssetMetadata
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase. metadata may be nil.
func NewGetBalanceUseCase(ledger port.Ledger, metadata port.AssetMetadata) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		ledger:   ledger,
		metadata: metadata,
	}
}

// Execute retrieves the recorded balance of account in asset
func (uc *GetBalanceUseCase) Execute(ctx context.Context, asset, account string) (*entity.BalanceResponse, error) {
	assetAddr, err := entity.ParseAddress(asset)
	if err != nil {
		return nil, err
	}
	accountAddr, err := entity.ParseAddress(account)
	if err != nil {
		return nil, err
	}

	amount := uc.ledger.BalanceOf(assetAddr, accountAddr)
	resp := &entity.BalanceResponse{
		Asset:   assetAddr.Hex(),
		Account: accountAddr.Hex(),
		Amount:  amount.Dec(),
	}
	if uc.metadata != nil {
		if symbol, decimals, ok := uc.metadata.Metadata(assetAddr); ok {
			resp.Symbol = symbol
			resp.Formatted = entity.FormatUnits(amount, decimals)
		}
	}
	return resp, nil
}

// IsWhitelisted reports whether asset is accepted
func (uc *GetBalanceUseCase) IsWhitelisted(ctx context.Context, asset string) (bool, error) {
	addr, err := entity.ParseAddress(asset)
	if err != nil {
		return false, err
	}
	return uc.ledger.IsWhitelisted(addr), nil
}
