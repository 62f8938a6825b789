package domain

import (
	"time"

	"github.com/kmatv/HS-BookingService/pkg/types"
)

// PaymentMethod represents how the customer pays for a booking
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

// IsValid returns true for a known payment method
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentOnline
}

// ServiceLineItem is one priced service position inside a booking.
// BaseAmount/TaxAmount are resolved at pricing time and frozen on the
// booking record together with the aggregates.
type ServiceLineItem struct {
	ServiceID      int64       `json:"serviceId"`
	CategoryID     int64       `json:"categoryId"`
	Name           string      `json:"name"`
	Quantity       int64       `json:"quantity"`
	PricePerUnit   types.Money `json:"pricePerUnit"`
	IsTaxInclusive bool        `json:"isTaxInclusive"`
	TaxRatePercent float64     `json:"taxRatePercent"`
	IsDefaultRate  bool        `json:"isDefaultRate"`
	BaseAmount     types.Money `json:"baseAmount"` // base for the whole quantity
	TaxAmount      types.Money `json:"taxAmount"`  // tax for the whole quantity
}

// ChargeLine is a single auxiliary charge (visiting charge, platform fee)
// with its own inclusive/exclusive tax resolution.
type ChargeLine struct {
	Name           string      `json:"name"`
	Amount         types.Money `json:"amount"` // displayed amount
	IsTaxInclusive bool        `json:"isTaxInclusive"`
	TaxRatePercent float64     `json:"taxRatePercent"`
	IsDefaultRate  bool        `json:"isDefaultRate"`
	BaseAmount     types.Money `json:"baseAmount"`
	TaxAmount      types.Money `json:"taxAmount"`
}

// Booking represents one customer order for one or more services at one
// scheduled slot. Financial fields are computed once at creation and only
// change through an explicit audited correction, never in-place.
type Booking struct {
	ID         int64
	BookingRef string // human-readable, stable once assigned
	CustomerID int64

	// Scheduling. CategoryID is the primary category; line items may span
	// additional categories, each of which holds slot capacity independently.
	CategoryID    int64
	ScheduledDate time.Time
	ScheduledSlot types.TimeSlot

	// Commercial
	Items          []ServiceLineItem
	VisitingCharge *ChargeLine
	PlatformFees   []ChargeLine
	DiscountCode   *string
	DiscountAmount types.Money
	SubTotal       types.Money
	TaxAmount      types.Money
	TotalAmount    types.Money

	// Payment
	PaymentMethod    PaymentMethod
	GatewayOrderID   *string
	GatewayPaymentID *string

	// Customer notes for the visit
	Notes *string

	// Lifecycle
	Status               BookingStatus
	ProviderID           *int64
	IsReviewedByCustomer bool
	// CapacityReleased guards slot release idempotence: set exactly once by
	// the winning cancel transition.
	CapacityReleased   bool
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryIDs returns the distinct categories of the booking's line items,
// in first-seen order. Every one of them must pass slot admission.
func (b *Booking) CategoryIDs() []int64 {
	seen := make(map[int64]struct{}, len(b.Items))
	ids := make([]int64, 0, len(b.Items))
	for _, item := range b.Items {
		if _, ok := seen[item.CategoryID]; ok {
			continue
		}
		seen[item.CategoryID] = struct{}{}
		ids = append(ids, item.CategoryID)
	}
	return ids
}

// SlotKeys returns the occupancy keys this booking holds, one per distinct
// line-item category.
func (b *Booking) SlotKeys() []SlotKey {
	categories := b.CategoryIDs()
	keys := make([]SlotKey, 0, len(categories))
	for _, categoryID := range categories {
		keys = append(keys, NewSlotKey(categoryID, b.ScheduledDate, b.ScheduledSlot))
	}
	return keys
}

// OccupiesSlot returns true while the booking holds its slot capacity.
// Cancellation is the only way capacity is given back; a provider rejection
// keeps the slot (only the provider changes).
func (b *Booking) OccupiesSlot() bool {
	for _, status := range InactiveStatuses {
		if b.Status == status {
			return false
		}
	}
	return true
}

// IsSettleable returns true if the booking contributes to provider settlement
func (b *Booking) IsSettleable() bool {
	return b.Status == StatusCompleted
}

// CustomerBookingsFilter фильтр для выборки бронирований клиента
type CustomerBookingsFilter struct {
	CustomerID int64
	Status     *BookingStatus // опционально
}

// ProviderBookingsFilter фильтр для выборки бронирований исполнителя
type ProviderBookingsFilter struct {
	ProviderID int64
	Status     *BookingStatus // опционально
	StartDate  *time.Time     // опционально
	EndDate    *time.Time     // опционально
}
