package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/pkg/ptr"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

func activePromo() *PromoCode {
	return &PromoCode{
		ID:              1,
		Code:            "WELCOME10",
		DiscountType:    DiscountPercentage,
		DiscountPercent: 10.0,
		IsActive:        true,
	}
}

func TestPromoCode_ResolveDiscount_Percentage(t *testing.T) {
	p := activePromo()

	discount, err := p.ResolveDiscount(10000, 0, time.Now())
	require.NoError(t, err)
	assert.Equal(t, types.Money(1000), discount)
}

func TestPromoCode_ResolveDiscount_Fixed(t *testing.T) {
	p := activePromo()
	p.DiscountType = DiscountFixed
	p.DiscountFlat = 2500

	discount, err := p.ResolveDiscount(10000, 0, time.Now())
	require.NoError(t, err)
	assert.Equal(t, types.Money(2500), discount)
}

func TestPromoCode_ResolveDiscount_Rejections(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mutate     func(p *PromoCode)
		subtotal   types.Money
		userUses   int64
		wantReason PromoRejectReason
	}{
		{
			name:       "inactive",
			mutate:     func(p *PromoCode) { p.IsActive = false },
			subtotal:   10000,
			wantReason: PromoInactive,
		},
		{
			name:       "not started",
			mutate:     func(p *PromoCode) { p.ValidFrom = ptr.Ptr(now.Add(time.Hour)) },
			subtotal:   10000,
			wantReason: PromoNotStarted,
		},
		{
			name:       "expired",
			mutate:     func(p *PromoCode) { p.ValidUntil = ptr.Ptr(now.Add(-time.Hour)) },
			subtotal:   10000,
			wantReason: PromoExpired,
		},
		{
			name:       "min booking not met",
			mutate:     func(p *PromoCode) { p.MinBookingAmount = 20000 },
			subtotal:   19999,
			wantReason: PromoMinBookingNotMet,
		},
		{
			name: "max uses reached",
			mutate: func(p *PromoCode) {
				p.MaxUses = ptr.Ptr(int64(100))
				p.UsesCount = 100
			},
			subtotal:   10000,
			wantReason: PromoMaxUsesReached,
		},
		{
			name:       "user limit reached",
			mutate:     func(p *PromoCode) { p.MaxUsesPerUser = ptr.Ptr(int64(1)) },
			subtotal:   10000,
			userUses:   1,
			wantReason: PromoUserLimitReached,
		},
		{
			name:       "unknown discount type fails closed",
			mutate:     func(p *PromoCode) { p.DiscountType = "bogus" },
			subtotal:   10000,
			wantReason: PromoInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := activePromo()
			tt.mutate(p)

			discount, err := p.ResolveDiscount(tt.subtotal, tt.userUses, now)
			require.Error(t, err)
			assert.Equal(t, types.Money(0), discount)

			var verr *PromoValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantReason, verr.Reason)
		})
	}
}

func TestPromoCode_ResolveDiscount_WindowInclusive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	p := activePromo()
	p.ValidFrom = ptr.Ptr(now)
	p.ValidUntil = ptr.Ptr(now)

	// Границы окна действия включительны с обеих сторон
	_, err := p.ResolveDiscount(10000, 0, now)
	assert.NoError(t, err)
}

func TestPromoCode_ResolveDiscount_MinBookingExactlyMet(t *testing.T) {
	p := activePromo()
	p.MinBookingAmount = 10000

	_, err := p.ResolveDiscount(10000, 0, time.Now())
	assert.NoError(t, err)
}

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "WELCOME10", NormalizePromoCode("  welcome10 "))
	assert.Equal(t, "SALE", NormalizePromoCode("Sale"))
}
