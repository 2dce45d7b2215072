package usecase

import (
	"context"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
)

// GetStatusUseCase reports the administrative state of the vault
type GetStatusUseCase struct {
	ledger   port.Ledger
	metadata port.AssetMetadata
}

// NewGetStatusUseCase creates a new GetStatusUseCase. metadata may be nil.
func NewGetStatusUseCase(ledger port.Ledger, metadata port.AssetMetadata) *GetStatusUseCase {
	return &GetStatusUseCase{
		ledger:   ledger,
		metadata: metadata,
	}
}

// Execute returns owner, pause flag and per-asset deposit totals
func (uc *GetStatusUseCase) Execute(ctx context.Context) (*entity.StatusResponse, error) {
	assets := uc.ledger.Whitelist()
	resp := &entity.StatusResponse{
		Owner:     uc.ledger.Owner().Hex(),
		Paused:    uc.ledger.Paused(),
		Whitelist: make([]entity.AssetStatus, 0, len(assets)),
	}
	for _, asset := range assets {
		status := entity.AssetStatus{
			Asset:         asset.Hex(),
			TotalDeposits: uc.ledger.TotalDeposits(asset).Dec(),
		}
		if uc.metadata != nil {
			if symbol, _, ok := uc.metadata.Metadata(asset); ok {
				status.Symbol = symbol
			}
		}
		resp.Whitelist = append(resp.Whitelist, status)
	}
	return resp, nil
}
