package types

import (
	"database/sql/driver"
	"fmt"
)

// TimeSlot is a label from the fixed slot catalog, e.g. "10:00 AM - 12:00 PM".
// Bookings are scheduled into these discrete buckets; the catalog is the
// single source of truth for what counts as a valid slot.
type TimeSlot string

// Slot catalog. Order matters: availability listings follow this order.
const (
	Slot8to10  TimeSlot = "08:00 AM - 10:00 AM"
	Slot10to12 TimeSlot = "10:00 AM - 12:00 PM"
	Slot12to14 TimeSlot = "12:00 PM - 02:00 PM"
	Slot14to16 TimeSlot = "02:00 PM - 04:00 PM"
	Slot16to18 TimeSlot = "04:00 PM - 06:00 PM"
	Slot18to20 TimeSlot = "06:00 PM - 08:00 PM"
)

// AllTimeSlots перечисляет все слоты каталога в порядке следования по дню
var AllTimeSlots = []TimeSlot{
	Slot8to10,
	Slot10to12,
	Slot12to14,
	Slot14to16,
	Slot16to18,
	Slot18to20,
}

// IsZero returns true if the slot label is empty.
func (s TimeSlot) IsZero() bool {
	return s == ""
}

// Validate checks that the label belongs to the slot catalog.
func (s TimeSlot) Validate() error {
	for _, known := range AllTimeSlots {
		if s == known {
			return nil
		}
	}
	return fmt.Errorf("unknown time slot %q", string(s))
}

// String implements fmt.Stringer.
func (s TimeSlot) String() string {
	return string(s)
}

// Value implements driver.Valuer for database writes.
func (s TimeSlot) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan implements sql.Scanner for database reads.
func (s *TimeSlot) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = TimeSlot(v)
	case []byte:
		*s = TimeSlot(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeSlot", src)
	}
	return nil
}
