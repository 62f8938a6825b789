package domain

import (
	"fmt"
	"time"

	"github.com/kmatv/HS-BookingService/pkg/types"
)

// SlotKey identifies one admission-control bucket. Distinct keys never
// contend with each other.
type SlotKey struct {
	CategoryID int64
	Date       string // DateFormat, normalized — keys must be comparable
	TimeSlot   types.TimeSlot
}

// NewSlotKey builds a key from a calendar date and a slot label
func NewSlotKey(categoryID int64, date time.Time, slot types.TimeSlot) SlotKey {
	return SlotKey{
		CategoryID: categoryID,
		Date:       date.Format(DateFormat),
		TimeSlot:   slot,
	}
}

// String returns a stable textual form, used for lock keys and logs
func (k SlotKey) String() string {
	return fmt.Sprintf("%d/%s/%s", k.CategoryID, k.Date, k.TimeSlot)
}

// TimeSlotCategoryLimit is the admin-configured capacity ceiling for one
// category. Read-mostly; changing it does not retroactively affect bookings
// that were already admitted.
type TimeSlotCategoryLimit struct {
	ID                    int64
	CategoryID            int64
	MaxConcurrentBookings int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SlotOccupancy is one row of the operational occupancy dashboard
type SlotOccupancy struct {
	CategoryID int64
	Date       string
	TimeSlot   types.TimeSlot
	Count      int
}

// SlotAvailability is the customer-facing remaining capacity of one slot
type SlotAvailability struct {
	TimeSlot       types.TimeSlot
	AvailableSpots int
	TotalSpots     int
	Unlimited      bool
}

// IsFull returns true if the slot has no available spots
func (s *SlotAvailability) IsFull() bool {
	return !s.Unlimited && s.AvailableSpots <= 0
}
