package entity

import (
	"github.com/holiman/uint256"
)

// TransferRequest represents a deposit or withdrawal payload
type TransferRequest struct {
	Caller string `json:"-"`
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

// Transfer is a validated TransferRequest
type Transfer struct {
	Caller Address
	Asset  Address
	Amount *uint256.Int
}

// Validate checks required fields and parses them
func (r *TransferRequest) Validate() (*Transfer, error) {
	if r.Caller == "" {
		return nil, ErrMissingCaller
	}
	if r.Asset == "" {
		return nil, ErrMissingAsset
	}
	if r.Amount == "" {
		return nil, ErrMissingAmount
	}
	caller, err := ParseAddress(r.Caller)
	if err != nil {
		return nil, err
	}
	asset, err := ParseAddress(r.Asset)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return nil, err
	}
	return &Transfer{Caller: caller, Asset: asset, Amount: amount}, nil
}

// OwnershipRequest carries the new owner for an ownership transfer
type OwnershipRequest struct {
	NewOwner string `json:"newOwner"`
}

// AllowanceRequest carries the amount an account lets custody pull
type AllowanceRequest struct {
	Caller string `json:"-"`
	Asset  string `json:"-"`
	Amount string `json:"amount"`
}

// Validate parses the request into a Transfer whose Amount is the allowance.
// A zero amount is accepted and revokes the allowance.
func (r *AllowanceRequest) Validate() (*Transfer, error) {
	if r.Caller == "" {
		return nil, ErrMissingCaller
	}
	if r.Asset == "" {
		return nil, ErrMissingAsset
	}
	caller, err := ParseAddress(r.Caller)
	if err != nil {
		return nil, err
	}
	asset, err := ParseAddress(r.Asset)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return nil, err
	}
	return &Transfer{Caller: caller, Asset: asset, Amount: amount}, nil
}
