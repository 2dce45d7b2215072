package usecase

import (
	"context"
	"time"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/metrics"
)

// ApproveUseCase lets an account authorize custody to pull its assets
type ApproveUseCase struct {
	approver port.CustodyApprover
	metrics  *metrics.Registry
}

// NewApproveUseCase creates a new ApproveUseCase
func NewApproveUseCase(approver port.CustodyApprover, metrics *metrics.Registry) *ApproveUseCase {
	return &ApproveUseCase{
		approver: approver,
		metrics:  metrics,
	}
}

// Execute replaces the caller's allowance to custody and reports the new value
func (uc *ApproveUseCase) Execute(ctx context.Context, req entity.AllowanceRequest) (resp *entity.AllowanceResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.Observe("approve", start, err) }()

	approval, err := req.Validate()
	if err != nil {
		return nil, err
	}

	if err := uc.approver.ApproveCustody(ctx, approval.Asset, approval.Caller, approval.Amount); err != nil {
		return nil, err
	}
	allowance, err := uc.approver.CustodyAllowance(approval.Asset, approval.Caller)
	if err != nil {
		return nil, err
	}

	return &entity.AllowanceResponse{
		Asset:   approval.Asset.Hex(),
		Owner:   approval.Caller.Hex(),
		Spender: uc.approver.Custody().Hex(),
		Amount:  allowance.Dec(),
	}, nil
}
