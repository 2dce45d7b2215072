package entity

import "errors"

// Vault errors. Every rejected operation leaves the vault state unchanged.
var (
	ErrNotAdministrator    = errors.New("caller is not the administrator")
	ErrZeroAddress         = errors.New("zero address")
	ErrAssetNotWhitelisted = errors.New("asset not whitelisted")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrPaused              = errors.New("vault is paused")
	ErrNotPaused           = errors.New("vault is not paused")
	ErrTransferFailed      = errors.New("asset transfer failed")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Request validation errors.
var (
	ErrMissingCaller       = errors.New("missing required field: caller")
	ErrMissingAsset        = errors.New("missing required field: asset")
	ErrMissingAmount       = errors.New("missing required field: amount")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidAmountFormat = errors.New("invalid amount format")
)
