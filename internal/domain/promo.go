package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/kmatv/HS-BookingService/pkg/types"
)

// DiscountType вид скидки промокода
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode is an admin-configured discount code. UsesCount only grows, and
// only when a booking that applied the code reaches Completed.
type PromoCode struct {
	ID               int64
	Code             string // stored case-normalized (upper)
	DiscountType     DiscountType
	DiscountPercent  float64     // for percentage type
	DiscountFlat     types.Money // for fixed type
	MinBookingAmount types.Money
	MaxUses          *int64 // nil = unlimited
	MaxUsesPerUser   *int64 // nil = unlimited
	UsesCount        int64
	ValidFrom        *time.Time
	ValidUntil       *time.Time
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NormalizePromoCode canonicalizes a user-supplied code for lookup
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PromoRejectReason is the closed set of reasons a promo code fails validation
type PromoRejectReason string

const (
	PromoInactive         PromoRejectReason = "inactive"
	PromoNotStarted       PromoRejectReason = "notStarted"
	PromoExpired          PromoRejectReason = "expired"
	PromoMinBookingNotMet PromoRejectReason = "minBookingNotMet"
	PromoMaxUsesReached   PromoRejectReason = "maxUsesReached"
	PromoUserLimitReached PromoRejectReason = "userLimitReached"
)

// PromoValidationError carries the specific rejection reason. A failing code
// yields "no discount" plus this reason — never a partial or guessed discount.
type PromoValidationError struct {
	Code   string
	Reason PromoRejectReason
}

// Error implements the error interface
func (e *PromoValidationError) Error() string {
	return fmt.Sprintf("promo code %q rejected: %s", e.Code, e.Reason)
}

// PromoUsage is one recorded application of a promo code, written when the
// booking completes. Per-user caps count these records.
type PromoUsage struct {
	ID         int64
	PromoID    int64
	CustomerID int64
	BookingID  int64
	Discount   types.Money
	UsedAt     time.Time
}

// ResolveDiscount validates the promo code against the pre-discount displayed
// items subtotal and the customer's own usage history, then computes the
// discount amount. Validation fails closed: any failure returns a zero
// discount and a *PromoValidationError.
//
// Validity window bounds are inclusive on both ends.
func (p *PromoCode) ResolveDiscount(itemsSubtotal types.Money, userUses int64, now time.Time) (types.Money, error) {
	reject := func(reason PromoRejectReason) (types.Money, error) {
		return 0, &PromoValidationError{Code: p.Code, Reason: reason}
	}

	if !p.IsActive {
		return reject(PromoInactive)
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return reject(PromoNotStarted)
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return reject(PromoExpired)
	}
	if itemsSubtotal < p.MinBookingAmount {
		return reject(PromoMinBookingNotMet)
	}
	if p.MaxUses != nil && p.UsesCount >= *p.MaxUses {
		return reject(PromoMaxUsesReached)
	}
	if p.MaxUsesPerUser != nil && userUses >= *p.MaxUsesPerUser {
		return reject(PromoUserLimitReached)
	}

	switch p.DiscountType {
	case DiscountPercentage:
		return itemsSubtotal.PercentOf(p.DiscountPercent), nil
	case DiscountFixed:
		return p.DiscountFlat, nil
	default:
		// неизвестный тип — отказ без скидки, fail closed
		return reject(PromoInactive)
	}
}
