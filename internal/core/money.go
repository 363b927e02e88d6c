// Package core provides amount and label input handling.
//
// This file contains the normalisation applied to user input before an entry
// reaches a ledger: amount parsing and validation, and label defaulting.
package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts keep at most this many digits on each side of the decimal point.
const (
	MaxIntegerDigits  = 30
	MaxFractionDigits = 30
)

// ValidateAmount rejects amounts whose plain decimal form would exceed
// MaxIntegerDigits or MaxFractionDigits, with ErrInvalidEntry.
func ValidateAmount(d decimal.Decimal) error {
	exp := int64(d.Exponent())
	if exp < -MaxFractionDigits {
		return fmt.Errorf("%w: amount has more than %d fraction digits", ErrInvalidEntry, MaxFractionDigits)
	}
	coef := d.Coefficient()
	digits := int64(len(coef.Abs(coef).String()))
	if digits+exp > MaxIntegerDigits {
		return fmt.Errorf("%w: amount has more than %d integer digits", ErrInvalidEntry, MaxIntegerDigits)
	}
	return nil
}

// ParseAmount converts user text into a signed decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign. Non-numeric, non-finite and out-of-range input
// fails with ErrInvalidEntry.
//
// Examples:
//
//	ParseAmount("-500")  -> -500, nil
//	ParseAmount("12,50") -> 12.5, nil
//	ParseAmount("abc")   -> 0, ErrInvalidEntry
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidEntry)
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrInvalidEntry, s)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q: %v", ErrInvalidEntry, s, err)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// AmountFromFloat rejects NaN, infinities and values outside ValidateAmount's range.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: amount %v is not finite", ErrInvalidEntry, f)
	}
	d := decimal.NewFromFloat(f)
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// NormalizeLabel trims the label, substitutes DefaultLabel when blank and upper-cases it.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultLabel
	}
	return strings.ToUpper(label)
}
