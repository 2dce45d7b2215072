package usecase

import (
	"context"
	"time"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/metrics"
)

// WithdrawUseCase handles withdrawals from custody
type WithdrawUseCase struct {
	ledger  port.Ledger
	metrics *metrics.Registry
}

// NewWithdrawUseCase creates a new WithdrawUseCase
func NewWithdrawUseCase(ledger port.Ledger, metrics *metrics.Registry) *WithdrawUseCase {
	return &WithdrawUseCase{
		ledger:  ledger,
		metrics: metrics,
	}
}

// Execute withdraws up to the requested amount and reports what was settled
func (uc *WithdrawUseCase) Execute(ctx context.Context, req entity.TransferRequest) (resp *entity.WithdrawResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.Observe("withdraw", start, err) }()

	transfer, err := req.Validate()
	if err != nil {
		return nil, err
	}

	settled, err := uc.ledger.Withdraw(ctx, transfer.Caller, transfer.Asset, transfer.Amount)
	if err != nil {
		return nil, err
	}

	return &entity.WithdrawResponse{
		Requested: transfer.Amount.Dec(),
		Settled:   settled.Dec(),
	}, nil
}
