package create_booking

import (
	"fmt"
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ScheduledDate.IsZero() {
		return fmt.Errorf("%w: scheduledDate is required", ErrInvalidInput)
	}

	if req.ScheduledSlot.IsZero() {
		return fmt.Errorf("%w: scheduledSlot is required", ErrInvalidInput)
	}
	if err := req.ScheduledSlot.Validate(); err != nil {
		return fmt.Errorf("%w: invalid scheduledSlot: %v", ErrInvalidInput, err)
	}

	if !domain.PaymentMethod(req.PaymentMethod).IsValid() {
		return fmt.Errorf("%w: paymentMethod must be cash or online", ErrInvalidInput)
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalidInput)
	}
	if len(req.Items) > domain.MaxLineItemsPerBooking {
		return fmt.Errorf("%w: at most %d line items allowed", ErrInvalidInput, domain.MaxLineItemsPerBooking)
	}

	for i, item := range req.Items {
		if item.ServiceID <= 0 {
			return fmt.Errorf("%w: item %d: serviceID must be positive", ErrInvalidInput, i)
		}
		if item.CategoryID <= 0 {
			return fmt.Errorf("%w: item %d: categoryID must be positive", ErrInvalidInput, i)
		}
		if item.Name == "" {
			return fmt.Errorf("%w: item %d: name is required", ErrInvalidInput, i)
		}
		if item.Quantity <= 0 || item.Quantity > domain.MaxQuantityPerItem {
			return fmt.Errorf("%w: item %d: quantity must be in 1..%d", ErrInvalidInput, i, domain.MaxQuantityPerItem)
		}
		if item.PricePerUnit.IsNegative() {
			return fmt.Errorf("%w: item %d: pricePerUnit must not be negative", ErrInvalidInput, i)
		}
	}

	if req.PromoCode != nil && domain.NormalizePromoCode(*req.PromoCode) == "" {
		return fmt.Errorf("%w: promoCode must not be blank", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// Координаты задаются только парой
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be provided together", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата визита не в прошлом
func validateDate(date, now time.Time) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return fmt.Errorf("%w: scheduled date is in the past", ErrInvalidDate)
	}
	return nil
}

// displayedItemsSubtotal считает сумму отображаемых цен позиций —
// именно с ней сравнивается минимальная сумма промокода
func displayedItemsSubtotal(items []domain.LineItemInput) types.Money {
	var total types.Money
	for _, item := range items {
		total += item.PricePerUnit.MulQty(item.Quantity)
	}
	return total
}
