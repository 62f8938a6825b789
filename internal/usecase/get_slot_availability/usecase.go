package get_slot_availability

import (
	"context"
	"fmt"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// UseCase use case для расчета доступности слотов категории на дату
type UseCase struct {
	limits    LimitSource
	occupancy OccupancyReader
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(limits LimitSource, occupancy OccupancyReader, logger Logger) *UseCase {
	return &UseCase{
		limits:    limits,
		occupancy: occupancy,
		logger:    logger,
	}
}

// Execute возвращает доступность каждого слота каталога: лимит категории
// минус текущая занятость. Категория без настроенного лимита не ограничена.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.CategoryID <= 0 {
		return nil, fmt.Errorf("%w: categoryID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	limit, err := uc.limits.MaxConcurrent(ctx, req.CategoryID)
	if err != nil {
		uc.logger.Error("GetSlotAvailability: failed to get limit for category=%d: %v", req.CategoryID, err)
		return nil, fmt.Errorf("%w: failed to get category limit: %v", ErrInternal, err)
	}

	counts, err := uc.occupancy.OccupancyForCategoryDate(ctx, req.CategoryID, req.Date)
	if err != nil {
		uc.logger.Error("GetSlotAvailability: failed to get occupancy for category=%d: %v", req.CategoryID, err)
		return nil, fmt.Errorf("%w: failed to get occupancy: %v", ErrInternal, err)
	}

	slots := make([]domain.SlotAvailability, 0, len(types.AllTimeSlots))
	for _, slot := range types.AllTimeSlots {
		taken := counts[string(slot)]

		availability := domain.SlotAvailability{TimeSlot: slot}
		if limit == nil {
			availability.Unlimited = true
		} else {
			availability.TotalSpots = *limit
			availability.AvailableSpots = *limit - taken
			if availability.AvailableSpots < 0 {
				// Лимит понизили после допуска бронирований
				availability.AvailableSpots = 0
			}
		}

		slots = append(slots, availability)
	}

	return &Response{
		CategoryID: req.CategoryID,
		Date:       req.Date.Format(domain.DateFormat),
		Slots:      slots,
	}, nil
}
