package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/pkg/ptr"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

func TestComputeBreakdown_InclusiveItem(t *testing.T) {
	// ₹110 с включенным налогом 10%: база 100, налог 10
	out, err := ComputeBreakdown(BreakdownInput{
		Items: []LineItemInput{
			{
				ServiceID:      1,
				CategoryID:     1,
				Name:           "Deep cleaning",
				Quantity:       1,
				PricePerUnit:   11000,
				IsTaxInclusive: true,
				TaxRatePercent: ptr.Ptr(10.0),
			},
		},
		DefaultTaxRatePercent: 18.0,
	})
	require.NoError(t, err)

	assert.Equal(t, types.Money(10000), out.ItemsSubtotal)
	assert.Equal(t, types.Money(1000), out.TaxAmount)
	assert.Equal(t, types.Money(11000), out.TotalAmount)
	assert.Equal(t, types.Money(11000), out.DisplayedItemsSubtotal)
	assert.False(t, out.Items[0].IsDefaultRate)
}

func TestComputeBreakdown_ExclusiveItemDefaultRate(t *testing.T) {
	// ₹100 без налога, ставка по умолчанию 18%: налог добавляется сверху
	out, err := ComputeBreakdown(BreakdownInput{
		Items: []LineItemInput{
			{ServiceID: 1, CategoryID: 1, Name: "Repair", Quantity: 1, PricePerUnit: 10000},
		},
		DefaultTaxRatePercent: 18.0,
	})
	require.NoError(t, err)

	assert.Equal(t, types.Money(10000), out.ItemsSubtotal)
	assert.Equal(t, types.Money(1800), out.TaxAmount)
	assert.Equal(t, types.Money(11800), out.TotalAmount)
	assert.True(t, out.Items[0].IsDefaultRate)
	assert.Equal(t, 18.0, out.Items[0].TaxRatePercent)
}

func TestComputeBreakdown_QuantityAndMixedRates(t *testing.T) {
	out, err := ComputeBreakdown(BreakdownInput{
		Items: []LineItemInput{
			{ServiceID: 1, CategoryID: 1, Name: "A", Quantity: 3, PricePerUnit: 5000},                                                       // exclusive, default 18%
			{ServiceID: 2, CategoryID: 2, Name: "B", Quantity: 1, PricePerUnit: 11800, IsTaxInclusive: true, TaxRatePercent: ptr.Ptr(18.0)}, // inclusive
		},
		DefaultTaxRatePercent: 18.0,
	})
	require.NoError(t, err)

	// A: база 15000, налог 2700; B: база 10000, налог 1800
	assert.Equal(t, types.Money(25000), out.ItemsSubtotal)
	assert.Equal(t, types.Money(4500), out.TaxAmount)
	assert.Equal(t, types.Money(29500), out.TotalAmount)
	assert.Equal(t, types.Money(26800), out.DisplayedItemsSubtotal)
}

func TestComputeBreakdown_ChargesResolveIndependently(t *testing.T) {
	out, err := ComputeBreakdown(BreakdownInput{
		Items: []LineItemInput{
			{ServiceID: 1, CategoryID: 1, Name: "A", Quantity: 1, PricePerUnit: 10000},
		},
		VisitingCharge:        &ChargeInput{Name: "Visiting charge", Amount: 10000, TaxRatePercent: ptr.Ptr(18.0)},
		PlatformFees:          []ChargeInput{{Name: "Platform fee", Amount: 4900, IsTaxInclusive: true}},
		DefaultTaxRatePercent: 18.0,
	})
	require.NoError(t, err)

	// Выезд: эксклюзивный, база 10000, налог 1800.
	// Сбор: инклюзивный по умолчанию 18%, база 4153, налог 747.
	assert.Equal(t, types.Money(10000), out.VisitingChargeBase)
	assert.Equal(t, types.Money(4153), out.PlatformFeesBase)
	assert.Equal(t, types.Money(1800+1800+747), out.TaxAmount)
	assert.Equal(t, types.Money(10000+10000+4153+4347), out.TotalAmount)
	require.NoError(t, out.CheckInvariant())
	assert.True(t, out.PlatformFees[0].IsDefaultRate)
}

func TestComputeBreakdown_DiscountClampedToItemsSubtotal(t *testing.T) {
	out, err := ComputeBreakdown(BreakdownInput{
		Items: []LineItemInput{
			{ServiceID: 1, CategoryID: 1, Name: "A", Quantity: 1, PricePerUnit: 5000},
		},
		Discount:              999999,
		DefaultTaxRatePercent: 0,
	})
	require.NoError(t, err)

	// Скидка не превышает сумму позиций, итог не уходит в минус
	assert.Equal(t, types.Money(5000), out.DiscountAmount)
	assert.Equal(t, types.Money(0), out.TotalAmount)
}

func TestComputeBreakdown_DiscountNeverTouchesCharges(t *testing.T) {
	out, err := ComputeBreakdown(BreakdownInput{
		Items: []LineItemInput{
			{ServiceID: 1, CategoryID: 1, Name: "A", Quantity: 1, PricePerUnit: 5000},
		},
		VisitingCharge:        &ChargeInput{Name: "Visiting charge", Amount: 10000},
		Discount:              999999,
		DefaultTaxRatePercent: 0,
	})
	require.NoError(t, err)

	// Даже при максимальной скидке выезд оплачивается полностью
	assert.Equal(t, types.Money(10000), out.TotalAmount)
}

func TestComputeBreakdown_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   BreakdownInput
		wantErr error
	}{
		{
			name:    "empty items",
			input:   BreakdownInput{},
			wantErr: ErrNoLineItems,
		},
		{
			name: "negative discount",
			input: BreakdownInput{
				Items:    []LineItemInput{{ServiceID: 1, CategoryID: 1, Quantity: 1, PricePerUnit: 100}},
				Discount: -1,
			},
			wantErr: ErrNegativeDiscount,
		},
		{
			name: "zero quantity",
			input: BreakdownInput{
				Items: []LineItemInput{{ServiceID: 1, CategoryID: 1, Quantity: 0, PricePerUnit: 100}},
			},
			wantErr: ErrInvalidLineItem,
		},
		{
			name: "negative price",
			input: BreakdownInput{
				Items: []LineItemInput{{ServiceID: 1, CategoryID: 1, Quantity: 1, PricePerUnit: -100}},
			},
			wantErr: ErrInvalidLineItem,
		},
		{
			name: "negative explicit rate",
			input: BreakdownInput{
				Items: []LineItemInput{{ServiceID: 1, CategoryID: 1, Quantity: 1, PricePerUnit: 100, TaxRatePercent: ptr.Ptr(-1.0)}},
			},
			wantErr: ErrInvalidLineItem,
		},
		{
			name: "negative charge",
			input: BreakdownInput{
				Items:          []LineItemInput{{ServiceID: 1, CategoryID: 1, Quantity: 1, PricePerUnit: 100}},
				VisitingCharge: &ChargeInput{Name: "Visiting charge", Amount: -1},
			},
			wantErr: ErrInvalidCharge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBreakdown(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBreakdown_CheckInvariant(t *testing.T) {
	b := &Breakdown{
		ItemsSubtotal:  10000,
		DiscountAmount: 1000,
		TaxAmount:      1620,
		TotalAmount:    10620,
	}
	require.NoError(t, b.CheckInvariant())

	b.TotalAmount = 10621
	assert.ErrorIs(t, b.CheckInvariant(), ErrBreakdownInvariant)
}
