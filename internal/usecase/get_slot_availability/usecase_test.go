package get_slot_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/pkg/ptr"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeLimits struct {
	limit *int
}

func (f *fakeLimits) MaxConcurrent(ctx context.Context, categoryID int64) (*int, error) {
	return f.limit, nil
}

type fakeOccupancy struct {
	counts map[string]int
}

func (f *fakeOccupancy) OccupancyForCategoryDate(ctx context.Context, categoryID int64, date time.Time) (map[string]int, error) {
	return f.counts, nil
}

func TestGetSlotAvailability_LimitedCategory(t *testing.T) {
	uc := NewUseCase(
		&fakeLimits{limit: ptr.Ptr(5)},
		&fakeOccupancy{counts: map[string]int{string(types.Slot10to12): 3}},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		CategoryID: 1,
		Date:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, len(types.AllTimeSlots))
	assert.Equal(t, "2025-07-01", resp.Date)

	for _, slot := range resp.Slots {
		assert.False(t, slot.Unlimited)
		assert.Equal(t, 5, slot.TotalSpots)
		if slot.TimeSlot == types.Slot10to12 {
			assert.Equal(t, 2, slot.AvailableSpots)
		} else {
			assert.Equal(t, 5, slot.AvailableSpots)
		}
	}
}

func TestGetSlotAvailability_UnconfiguredCategoryUnlimited(t *testing.T) {
	uc := NewUseCase(&fakeLimits{}, &fakeOccupancy{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		CategoryID: 1,
		Date:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Unlimited)
		assert.False(t, slot.IsFull())
	}
}

func TestGetSlotAvailability_LoweredLimitClampsAtZero(t *testing.T) {
	// Лимит понизили до 2 после того, как в слот уже допустили 4 бронирования
	uc := NewUseCase(
		&fakeLimits{limit: ptr.Ptr(2)},
		&fakeOccupancy{counts: map[string]int{string(types.Slot10to12): 4}},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		CategoryID: 1,
		Date:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		if slot.TimeSlot != types.Slot10to12 {
			continue
		}
		assert.Equal(t, 0, slot.AvailableSpots)
		assert.True(t, slot.IsFull())
	}
}

func TestGetSlotAvailability_ZeroLimitCategoryClosed(t *testing.T) {
	uc := NewUseCase(&fakeLimits{limit: ptr.Ptr(0)}, &fakeOccupancy{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		CategoryID: 1,
		Date:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.IsFull())
	}
}

func TestGetSlotAvailability_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeLimits{}, &fakeOccupancy{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{CategoryID: 0, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{CategoryID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
