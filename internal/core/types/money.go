// Package types provides common type aliases and utilities.
package types

import (
	"math"

	"github.com/shopspring/decimal"

	"vyapari/internal/core/apperror"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors. Values are stored
// as NUMERIC(15,2) and rounded with RoundMoney exactly once, at the end of
// a computation chain.
type Money = decimal.Decimal

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewMoneyFromFloat converts a float to Money after rejecting NaN/Inf.
// Used at API boundaries where JSON numbers arrive as float64.
func NewMoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, apperror.NewInvalidAmount("amount is not a finite number")
	}
	return decimal.NewFromFloat(f), nil
}

// RoundMoney rounds to 2 decimal places using round-half-up.
// decimal.Round rounds half away from zero, which equals half-up for the
// non-negative amounts this system deals in.
func RoundMoney(d Money) Money {
	return d.Round(2)
}

// RoundUnitPrice rounds a per-unit rate to 4 decimal places, half-up.
// Unit rates carry extra precision over stored amounts so that
// quantity * rate reconciles with the rounded line total within a paisa.
func RoundUnitPrice(d Money) Money {
	return d.Round(4)
}

// ValidateAmount rejects negative amounts. Zero is allowed; individual
// operations impose stricter rules where needed.
func ValidateAmount(d Money) error {
	if d.IsNegative() {
		return apperror.NewInvalidAmount("amount must not be negative")
	}
	return nil
}

// ValidatePositiveAmount rejects zero and negative amounts.
func ValidatePositiveAmount(d Money) error {
	if !d.IsPositive() {
		return apperror.NewInvalidAmount("amount must be positive")
	}
	return nil
}
