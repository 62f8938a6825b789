package transition_booking

import (
	"fmt"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: actor userID must be positive", ErrInvalidInput)
	}
	if !req.Actor.Role.IsValid() {
		return fmt.Errorf("%w: unknown actor role %q", ErrInvalidInput, req.Actor.Role)
	}

	target := domain.BookingStatus(req.TargetStatus)
	if !target.IsValid() {
		return fmt.Errorf("%w: unknown target status %q", ErrInvalidInput, req.TargetStatus)
	}

	if target == domain.StatusAssigned && (req.ProviderID == nil || *req.ProviderID <= 0) {
		return ErrProviderRequired
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}

// authorizeTransition проверяет, что вызывающий вправе выполнять переход.
// Оператор платформы может все; клиент управляет только своими
// бронированиями; исполнитель — только назначенными на него.
func authorizeTransition(actor domain.Actor, booking *domain.Booking, target domain.BookingStatus) error {
	if actor.IsAdmin() {
		return nil
	}

	switch actor.Role {
	case domain.RoleCustomer:
		if booking.CustomerID != actor.UserID {
			return ErrForbidden
		}
		// Клиенту доступны отмена и подтверждение оплаты своего бронирования
		if target == domain.StatusCancelled || target == domain.StatusConfirmed {
			return nil
		}
		return ErrForbidden

	case domain.RoleProvider:
		if booking.ProviderID == nil || *booking.ProviderID != actor.UserID {
			return ErrForbidden
		}
		switch target {
		case domain.StatusProviderAccepted, domain.StatusProviderRejected,
			domain.StatusInProgress, domain.StatusCompleted:
			return nil
		}
		return ErrForbidden
	}

	return ErrForbidden
}
