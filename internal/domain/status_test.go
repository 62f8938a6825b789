package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	allowed := map[BookingStatus][]BookingStatus{
		StatusPendingPayment:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed:        {StatusAssigned, StatusCancelled},
		StatusAssigned:         {StatusProviderAccepted, StatusProviderRejected, StatusCancelled},
		StatusProviderRejected: {StatusAssigned, StatusCancelled},
		StatusProviderAccepted: {StatusInProgress, StatusCancelled},
		StatusInProgress:       {StatusCompleted, StatusCancelled},
		StatusCompleted:        {},
		StatusCancelled:        {},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.False(t, StatusPendingPayment.IsTerminal())
}

func TestBookingStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), "%s", s)
	}
	assert.False(t, BookingStatus("shipped").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(1, StatusConfirmed, StatusAssigned))

	err := CheckTransition(42, StatusCompleted, StatusCancelled)
	require.Error(t, err)

	var serr *StateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, int64(42), serr.BookingID)
	assert.Equal(t, StatusCompleted, serr.From)
	assert.Equal(t, StatusCancelled, serr.To)
}

func TestBooking_OccupiesSlot(t *testing.T) {
	// Отказ исполнителя не освобождает слот, только отмена
	b := &Booking{Status: StatusProviderRejected}
	assert.True(t, b.OccupiesSlot())

	b.Status = StatusCancelled
	assert.False(t, b.OccupiesSlot())
}
