package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in satang (hundredths of the currency unit).
type Amount int64

// MaxAmount is the largest value a NUMERIC(10,2) money column holds.
const MaxAmount Amount = 99_999_999_99

// ParseAmount parses a non-negative decimal string with at most two
// fractional digits and no more than MaxAmount.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || len(frac) > 2 || (hasFrac && frac == "") {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseUint(whole, 10, 64)
	if err != nil || units > uint64(MaxAmount/100) {
		return 0, ErrInvalidAmount
	}
	cents, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return Amount(units*100 + cents), nil
}

// IsValidAmount reports whether s parses as an Amount.
func IsValidAmount(s string) bool {
	_, err := ParseAmount(s)
	return err == nil
}

// String formats the amount with two fractional digits.
func (a Amount) String() string {
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d", sign, a/100, a%100)
}
