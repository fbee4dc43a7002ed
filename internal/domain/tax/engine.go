// Package tax provides the GST computation engine.
//
// The engine is a pure function library: given an amount, a rate and an
// explicit Config it produces a deterministic tax breakup. Org settings
// (inclusive/exclusive pricing, intra/inter state) are passed in at call
// time, never read from global state, so a historical invoice can always
// be regenerated from its recorded parameters.
package tax

import (
	"github.com/shopspring/decimal"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/types"
)

// Mode defines whether the input amount already includes tax.
type Mode string

const (
	// ModeExclusive treats the input as the taxable value; tax is added on top.
	ModeExclusive Mode = "exclusive"
	// ModeInclusive treats the input as the gross amount; tax is carved out.
	ModeInclusive Mode = "inclusive"
)

// Jurisdiction defines how the tax amount is split between levies.
type Jurisdiction string

const (
	// JurisdictionIntra splits tax into equal CGST and SGST components.
	JurisdictionIntra Jurisdiction = "intra"
	// JurisdictionInter assigns the full tax amount to IGST.
	JurisdictionInter Jurisdiction = "inter"
)

// Config carries the org-level settings a computation depends on.
type Config struct {
	Mode         Mode
	Jurisdiction Jurisdiction
}

// DefaultConfig returns exclusive intra-state settings, the most common
// configuration for a single-state retail shop.
func DefaultConfig() Config {
	return Config{Mode: ModeExclusive, Jurisdiction: JurisdictionIntra}
}

// Validate checks that both settings carry known values.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeExclusive, ModeInclusive:
	default:
		return apperror.NewValidation("unknown tax mode").
			WithDetail("mode", string(c.Mode))
	}
	switch c.Jurisdiction {
	case JurisdictionIntra, JurisdictionInter:
	default:
		return apperror.NewValidation("unknown tax jurisdiction").
			WithDetail("jurisdiction", string(c.Jurisdiction))
	}
	return nil
}

// Breakup is the result of a tax computation.
// Invariants:
//   - TaxableValue + TaxAmount == Total
//   - CGST + SGST + IGST == TaxAmount
//   - in inclusive mode, Total equals the original input exactly
type Breakup struct {
	TaxableValue types.Money `json:"taxableValue"`
	TaxAmount    types.Money `json:"taxAmount"`
	CGST         types.Money `json:"cgst"`
	SGST         types.Money `json:"sgst"`
	IGST         types.Money `json:"igst"`
	Total        types.Money `json:"total"`
	RatePercent  types.Money `json:"ratePercent"`
}

var oneHundred = decimal.NewFromInt(100)

// Compute produces a tax breakup for the given amount and rate percent.
//
// Rounding to 2 decimal places (half-up) is applied exactly once, at the end
// of the computation chain. The tax amount in inclusive mode is derived as
// the complement of the rounded taxable value, so the breakup always sums
// back to the original gross input.
func Compute(amount types.Money, ratePercent decimal.Decimal, cfg Config) (Breakup, error) {
	if err := cfg.Validate(); err != nil {
		return Breakup{}, err
	}
	if amount.IsNegative() {
		return Breakup{}, apperror.NewInvalidAmount("taxable amount must not be negative")
	}
	if ratePercent.IsNegative() {
		return Breakup{}, apperror.NewInvalidAmount("tax rate must not be negative")
	}

	amount = types.RoundMoney(amount)

	// Zero rate short-circuits: taxable equals input in both modes.
	if ratePercent.IsZero() {
		return split(Breakup{
			TaxableValue: amount,
			TaxAmount:    types.Zero(),
			Total:        amount,
			RatePercent:  ratePercent,
		}, cfg.Jurisdiction), nil
	}

	var taxable, taxAmount, total types.Money
	switch cfg.Mode {
	case ModeExclusive:
		taxable = amount
		taxAmount = types.RoundMoney(amount.Mul(ratePercent).Div(oneHundred))
		total = taxable.Add(taxAmount)
	case ModeInclusive:
		divisor := decimal.NewFromInt(1).Add(ratePercent.Div(oneHundred))
		taxable = types.RoundMoney(amount.Div(divisor))
		taxAmount = amount.Sub(taxable)
		total = amount
	}

	return split(Breakup{
		TaxableValue: taxable,
		TaxAmount:    taxAmount,
		Total:        total,
		RatePercent:  ratePercent,
	}, cfg.Jurisdiction), nil
}

// ComputeForHSN resolves the rate from the static HSN table before computing.
func ComputeForHSN(amount types.Money, hsnCode string, cfg Config) (Breakup, error) {
	rate, err := LookupRate(hsnCode)
	if err != nil {
		return Breakup{}, err
	}
	return Compute(amount, rate, cfg)
}

// split assigns the tax amount to the statutory components.
// Intra-state: CGST and SGST each take half; SGST absorbs any rounding
// difference so the components always sum to the tax amount exactly.
// Inter-state: all IGST.
func split(b Breakup, j Jurisdiction) Breakup {
	switch j {
	case JurisdictionInter:
		b.IGST = b.TaxAmount
		b.CGST = types.Zero()
		b.SGST = types.Zero()
	default:
		half := types.RoundMoney(b.TaxAmount.Div(decimal.NewFromInt(2)))
		b.CGST = half
		b.SGST = b.TaxAmount.Sub(half)
		b.IGST = types.Zero()
	}
	return b
}
