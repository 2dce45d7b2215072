package entity

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address identifies both asset types (token contracts) and accounts.
type Address = common.Address

// ZeroAddress is the null identifier. It can never be whitelisted or own the vault.
var ZeroAddress = Address{}

// ParseAddress parses a 0x-prefixed (or bare) 40 hex character address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ZeroAddress, ErrInvalidAddress
	}
	if !common.IsHexAddress(s) {
		return ZeroAddress, ErrInvalidAddress
	}
	return common.HexToAddress(s), nil
}
