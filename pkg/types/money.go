package types

import "fmt"

// Money represents a monetary amount in minor units (paise).
// All aggregation happens on integer minor units; rounding to a
// displayable value is a presentation concern.
type Money int64

// NewMoney builds a Money value from whole currency units and minor units.
func NewMoney(units int64, minor int64) Money {
	return Money(units*100 + minor)
}

// Rupees returns the amount as a float for display purposes only.
func (m Money) Rupees() float64 {
	return float64(m) / 100
}

// IsNegative returns true if the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// IsZero returns true if the amount is exactly zero.
func (m Money) IsZero() bool {
	return m == 0
}

// ClampZero returns the amount floored at zero.
func (m Money) ClampZero() Money {
	if m < 0 {
		return 0
	}
	return m
}

// MulQty multiplies the amount by an item quantity.
func (m Money) MulQty(qty int64) Money {
	return Money(int64(m) * qty)
}

// String formats the amount with two decimal places.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// basisPointsScale: percent rates are handled internally in basis points
// (10.00% == 1000 bp) so that tax math stays in integer arithmetic.
const basisPointsScale = 10000

// BasisPoints converts a percent rate (e.g. 18.0) to basis points.
func BasisPoints(percent float64) int64 {
	if percent < 0 {
		return 0
	}
	// round half up
	return int64(percent*100 + 0.5)
}

// roundDiv divides num by den rounding half up. Both operands must be
// non-negative; money amounts in this codebase never go negative before
// division.
func roundDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return (num + den/2) / den
}

// BaseFromInclusive backs the pre-tax base out of a tax-inclusive displayed
// price: base = displayed / (1 + rate).
func (m Money) BaseFromInclusive(ratePercent float64) Money {
	bp := BasisPoints(ratePercent)
	if bp == 0 {
		return m
	}
	return Money(roundDiv(int64(m)*basisPointsScale, basisPointsScale+bp))
}

// TaxOn computes the tax added on top of an exclusive base amount.
func (m Money) TaxOn(ratePercent float64) Money {
	bp := BasisPoints(ratePercent)
	if bp == 0 {
		return 0
	}
	return Money(roundDiv(int64(m)*bp, basisPointsScale))
}

// PercentOf computes percent of the amount, rounding half up.
// Used for percentage discounts and percentage commissions.
func (m Money) PercentOf(percent float64) Money {
	bp := BasisPoints(percent)
	return Money(roundDiv(int64(m)*bp, basisPointsScale))
}
