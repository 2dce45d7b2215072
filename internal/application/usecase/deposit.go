package usecase

import (
	"context"
	"time"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/metrics"
)

// DepositUseCase handles deposits into custody
type DepositUseCase struct {
	ledger  port.Ledger
	metrics *metrics.Registry
}

// NewDepositUseCase creates a new DepositUseCase
func NewDepositUseCase(ledger port.Ledger, metrics *metrics.Registry) *DepositUseCase {
	return &DepositUseCase{
		ledger:  ledger,
		metrics: metrics,
	}
}

// Execute validates the request and deposits on behalf of its caller
func (uc *DepositUseCase) Execute(ctx context.Context, req entity.TransferRequest) (err error) {
	start := time.Now()
	defer func() { uc.metrics.Observe("deposit", start, err) }()

	transfer, err := req.Validate()
	if err != nil {
		return err
	}

	return uc.ledger.Deposit(ctx, transfer.Caller, transfer.Asset, transfer.Amount)
}
