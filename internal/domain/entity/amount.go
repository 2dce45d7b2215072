package entity

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a base-10 integer amount expressed in the asset's base units.
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrMissingAmount
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, s)
	}
	return amount, nil
}

// FormatUnits renders a base-unit amount as a decimal string with the given
// number of decimals, e.g. 1500000 with 6 decimals becomes "1.500000".
func FormatUnits(amount *uint256.Int, decimals uint8) string {
	if amount == nil {
		amount = new(uint256.Int)
	}
	d := decimal.NewFromBigInt(amount.ToBig(), -int32(decimals))
	return d.StringFixed(int32(decimals))
}
