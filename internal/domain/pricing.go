package domain

import (
	"errors"
	"fmt"

	"github.com/kmatv/HS-BookingService/pkg/types"
)

// Pricing validation errors
var (
	// ErrNoLineItems возвращается при пустом списке позиций
	ErrNoLineItems = errors.New("pricing: booking must contain at least one line item")

	// ErrInvalidLineItem возвращается при некорректной позиции (количество, цена, ставка)
	ErrInvalidLineItem = errors.New("pricing: invalid line item")

	// ErrInvalidCharge возвращается при некорректном дополнительном сборе
	ErrInvalidCharge = errors.New("pricing: invalid charge")

	// ErrNegativeDiscount возвращается при отрицательной скидке
	ErrNegativeDiscount = errors.New("pricing: discount must not be negative")

	// ErrBreakdownInvariant возвращается, если итоговая сумма не сходится с компонентами.
	// Это дефект расчета, а не бизнес-отказ.
	ErrBreakdownInvariant = errors.New("pricing: breakdown total invariant violated")
)

// LineItemInput is one priced service position before tax resolution.
// A nil TaxRatePercent falls back to the default rate and is flagged
// for disclosure.
type LineItemInput struct {
	ServiceID      int64
	CategoryID     int64
	Name           string
	Quantity       int64
	PricePerUnit   types.Money
	IsTaxInclusive bool
	TaxRatePercent *float64
}

// ChargeInput is a visiting charge or platform fee before tax resolution
type ChargeInput struct {
	Name           string
	Amount         types.Money
	IsTaxInclusive bool
	TaxRatePercent *float64
}

// BreakdownInput carries everything the engine needs. The engine is pure:
// tax defaults and fees arrive here explicitly, never from ambient config.
type BreakdownInput struct {
	Items          []LineItemInput
	VisitingCharge *ChargeInput
	PlatformFees   []ChargeInput
	// Discount is the nominal discount against the items subtotal,
	// already resolved from a promo code. Never applied to the visiting
	// charge or platform fees.
	Discount              types.Money
	DefaultTaxRatePercent float64
}

// Breakdown is the fully itemized monetary result. TotalAmount satisfies:
// TotalAmount == ItemsSubtotal - DiscountAmount + TaxAmount +
// VisitingChargeBase + PlatformFeesBase (exact integer equality).
type Breakdown struct {
	Items          []ServiceLineItem
	VisitingCharge *ChargeLine
	PlatformFees   []ChargeLine

	ItemsSubtotal      types.Money // Σ base(item)
	DiscountAmount     types.Money // after clamping
	TaxAmount          types.Money // items + visiting charge + platform fees
	VisitingChargeBase types.Money
	PlatformFeesBase   types.Money
	TotalAmount        types.Money

	// DisplayedItemsSubtotal is the pre-tax-resolution sum of displayed
	// prices, the figure promo minimums are checked against.
	DisplayedItemsSubtotal types.Money
}

// ComputeBreakdown resolves base/tax for every priced element, applies the
// discount against the items subtotal and aggregates the grand total.
// Each element resolves independently: a tax-inclusive displayed price has
// its base backed out, an exclusive one gets tax added on top.
func ComputeBreakdown(in BreakdownInput) (*Breakdown, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoLineItems
	}
	if in.Discount.IsNegative() {
		return nil, ErrNegativeDiscount
	}

	out := &Breakdown{
		Items: make([]ServiceLineItem, 0, len(in.Items)),
	}

	for i, item := range in.Items {
		if err := validateLineItem(item); err != nil {
			return nil, fmt.Errorf("%w: item %d (%s): %v", ErrInvalidLineItem, i, item.Name, err)
		}

		rate, isDefault := resolveRate(item.TaxRatePercent, in.DefaultTaxRatePercent)
		displayed := item.PricePerUnit.MulQty(item.Quantity)
		base, tax := resolveBaseTax(displayed, item.IsTaxInclusive, rate)

		out.Items = append(out.Items, ServiceLineItem{
			ServiceID:      item.ServiceID,
			CategoryID:     item.CategoryID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			PricePerUnit:   item.PricePerUnit,
			IsTaxInclusive: item.IsTaxInclusive,
			TaxRatePercent: rate,
			IsDefaultRate:  isDefault,
			BaseAmount:     base,
			TaxAmount:      tax,
		})

		out.ItemsSubtotal += base
		out.TaxAmount += tax
		out.DisplayedItemsSubtotal += displayed
	}

	if in.VisitingCharge != nil {
		line, err := resolveCharge(*in.VisitingCharge, in.DefaultTaxRatePercent)
		if err != nil {
			return nil, err
		}
		out.VisitingCharge = line
		out.VisitingChargeBase = line.BaseAmount
		out.TaxAmount += line.TaxAmount
	}

	for _, fee := range in.PlatformFees {
		line, err := resolveCharge(fee, in.DefaultTaxRatePercent)
		if err != nil {
			return nil, err
		}
		out.PlatformFees = append(out.PlatformFees, *line)
		out.PlatformFeesBase += line.BaseAmount
		out.TaxAmount += line.TaxAmount
	}

	// The discount never exceeds the items subtotal: the post-discount
	// subtotal is clamped at zero, never negative.
	out.DiscountAmount = in.Discount
	if out.DiscountAmount > out.ItemsSubtotal {
		out.DiscountAmount = out.ItemsSubtotal
	}

	out.TotalAmount = out.ItemsSubtotal - out.DiscountAmount + out.TaxAmount +
		out.VisitingChargeBase + out.PlatformFeesBase

	if err := out.CheckInvariant(); err != nil {
		return nil, err
	}

	return out, nil
}

// CheckInvariant recomputes the total from its components. Violations mean
// a calculation bug and are never reconciled silently.
func (b *Breakdown) CheckInvariant() error {
	expected := b.ItemsSubtotal - b.DiscountAmount + b.TaxAmount +
		b.VisitingChargeBase + b.PlatformFeesBase
	if b.TotalAmount != expected {
		return fmt.Errorf("%w: total=%s expected=%s", ErrBreakdownInvariant, b.TotalAmount, expected)
	}
	return nil
}

func validateLineItem(item LineItemInput) error {
	if item.Quantity <= 0 || item.Quantity > MaxQuantityPerItem {
		return fmt.Errorf("quantity must be in 1..%d", MaxQuantityPerItem)
	}
	if item.PricePerUnit.IsNegative() {
		return errors.New("price must not be negative")
	}
	if item.TaxRatePercent != nil && *item.TaxRatePercent < 0 {
		return errors.New("tax rate must not be negative")
	}
	if item.CategoryID <= 0 {
		return errors.New("categoryId must be positive")
	}
	return nil
}

func resolveCharge(in ChargeInput, defaultRate float64) (*ChargeLine, error) {
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s: amount must not be negative", ErrInvalidCharge, in.Name)
	}
	if in.TaxRatePercent != nil && *in.TaxRatePercent < 0 {
		return nil, fmt.Errorf("%w: %s: tax rate must not be negative", ErrInvalidCharge, in.Name)
	}

	rate, isDefault := resolveRate(in.TaxRatePercent, defaultRate)
	base, tax := resolveBaseTax(in.Amount, in.IsTaxInclusive, rate)

	return &ChargeLine{
		Name:           in.Name,
		Amount:         in.Amount,
		IsTaxInclusive: in.IsTaxInclusive,
		TaxRatePercent: rate,
		IsDefaultRate:  isDefault,
		BaseAmount:     base,
		TaxAmount:      tax,
	}, nil
}

func resolveRate(explicit *float64, defaultRate float64) (rate float64, isDefault bool) {
	if explicit != nil {
		return *explicit, false
	}
	return defaultRate, true
}

// resolveBaseTax applies the inclusive/exclusive rule to one displayed amount
func resolveBaseTax(displayed types.Money, inclusive bool, ratePercent float64) (base, tax types.Money) {
	if inclusive {
		base = displayed.BaseFromInclusive(ratePercent)
		return base, displayed - base
	}
	return displayed, displayed.TaxOn(ratePercent)
}
