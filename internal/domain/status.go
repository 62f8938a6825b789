package domain

import "fmt"

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPendingPayment   BookingStatus = "pending_payment"
	StatusConfirmed        BookingStatus = "confirmed"
	StatusAssigned         BookingStatus = "assigned_to_provider"
	StatusProviderAccepted BookingStatus = "provider_accepted"
	StatusProviderRejected BookingStatus = "provider_rejected"
	StatusInProgress       BookingStatus = "in_progress"
	StatusCompleted        BookingStatus = "completed"
	StatusCancelled        BookingStatus = "cancelled"
)

// allowedTransitions is the single source of truth for booking lifecycle
// legality. Statuses are a closed enumeration; call sites never compare
// status strings directly.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPendingPayment:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed:        {StatusAssigned, StatusCancelled},
	StatusAssigned:         {StatusProviderAccepted, StatusProviderRejected, StatusCancelled},
	StatusProviderRejected: {StatusAssigned, StatusCancelled},
	StatusProviderAccepted: {StatusInProgress, StatusCancelled},
	StatusInProgress:       {StatusCompleted, StatusCancelled},
	StatusCompleted:        {},
	StatusCancelled:        {},
}

// AllStatuses enumerates every booking status
var AllStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
	StatusAssigned,
	StatusProviderAccepted,
	StatusProviderRejected,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// IsValid returns true for a known booking status
func (s BookingStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal returns true if no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo returns true if target is reachable from s in one step
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// StateError is returned on an illegal lifecycle transition. It identifies
// the current state and the attempted target; the state machine never
// coerces, the caller decides what to do with the refusal.
type StateError struct {
	BookingID int64
	From      BookingStatus
	To        BookingStatus
}

// Error implements the error interface
func (e *StateError) Error() string {
	return fmt.Sprintf("illegal booking transition: booking=%d %s -> %s", e.BookingID, e.From, e.To)
}

// CheckTransition validates a requested transition and returns a *StateError
// if it is not in the allowed table.
func CheckTransition(bookingID int64, from, to BookingStatus) error {
	if !from.CanTransitionTo(to) {
		return &StateError{BookingID: bookingID, From: from, To: to}
	}
	return nil
}
