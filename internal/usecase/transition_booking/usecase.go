package transition_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	bookingStorage "github.com/kmatv/HS-BookingService/internal/infra/storage/booking"
	promoStorage "github.com/kmatv/HS-BookingService/internal/infra/storage/promocode"
	"github.com/kmatv/HS-BookingService/internal/integrations/paymentgateway"
	"github.com/kmatv/HS-BookingService/pkg/events"
)

// UseCase use case для перевода бронирования по жизненному циклу
type UseCase struct {
	bookingRepo   BookingRepository
	promoRepo     PromoRepository
	admission     AdmissionController
	paymentClient PaymentClient
	publisher     EventPublisher
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	promoRepo PromoRepository,
	admissionController AdmissionController,
	paymentClient PaymentClient,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		promoRepo:     promoRepo,
		admission:     admissionController,
		paymentClient: paymentClient,
		publisher:     publisher,
		logger:        logger,
	}
}

// Execute выполняет переход бронирования в целевой статус.
// Переход применяется условным обновлением "из текущего статуса":
// из двух конкурентных переходов побеждает ровно один, проигравший
// получает ErrInvalidTransition с актуальным статусом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionBooking: booking=%d, target=%s, actor=%d (%s)",
		req.BookingID, req.TargetStatus, req.Actor.UserID, req.Actor.Role)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingStorage.ErrBookingNotFound) {
			uc.logger.Warn("TransitionBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("TransitionBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	target := domain.BookingStatus(req.TargetStatus)

	// 3. Проверяем легальность перехода по таблице жизненного цикла
	if err := domain.CheckTransition(booking.ID, booking.Status, target); err != nil {
		uc.logger.Warn("TransitionBooking: illegal transition: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	// 4. Авторизация вызывающего
	if err := authorizeTransition(req.Actor, booking, target); err != nil {
		uc.logger.Warn("TransitionBooking: actor=%d (%s) is not allowed to move booking id=%d to %s",
			req.Actor.UserID, req.Actor.Role, booking.ID, target)
		return nil, err
	}

	// 5. Применяем переход
	if err := uc.applyTransition(ctx, booking, target, req); err != nil {
		if errors.Is(err, bookingStorage.ErrStatusConflict) {
			return nil, uc.lostTransition(ctx, booking, target)
		}
		return nil, err
	}

	// 6. Побочные эффекты победившего перехода
	uc.afterTransition(ctx, booking, target)

	// 7. Перечитываем бронирование для ответа
	updated, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		uc.logger.Error("TransitionBooking: failed to reload booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
	}

	uc.logger.Info("TransitionBooking: booking id=%d moved %s -> %s", booking.ID, booking.Status, target)

	return &Response{
		ID:            updated.ID,
		BookingRef:    updated.BookingRef,
		CustomerID:    updated.CustomerID,
		ProviderID:    updated.ProviderID,
		ScheduledDate: updated.ScheduledDate,
		ScheduledSlot: updated.ScheduledSlot,
		Status:        string(updated.Status),
		TotalAmount:   updated.TotalAmount,
		UpdatedAt:     updated.UpdatedAt,
	}, nil
}

// applyTransition выполняет условное обновление статуса с побочными
// эффектами целевого статуса
func (uc *UseCase) applyTransition(ctx context.Context, booking *domain.Booking, target domain.BookingStatus, req *Request) error {
	from := booking.Status

	switch target {
	case domain.StatusConfirmed:
		return uc.confirm(ctx, booking)

	case domain.StatusAssigned:
		return uc.bookingRepo.AssignProvider(ctx, booking.ID, *req.ProviderID, from)

	case domain.StatusCompleted:
		return uc.bookingRepo.Complete(ctx, booking.ID, from)

	case domain.StatusCancelled:
		return uc.bookingRepo.Cancel(ctx, booking.ID, from, req.Reason)

	default:
		return uc.bookingRepo.UpdateStatus(ctx, booking.ID, from, target)
	}
}

// confirm подтверждает бронирование. Онлайн-оплата подтверждается только
// после проверки платежа в платежном сервисе.
func (uc *UseCase) confirm(ctx context.Context, booking *domain.Booking) error {
	if booking.PaymentMethod != domain.PaymentOnline {
		return uc.bookingRepo.Confirm(ctx, booking.ID, booking.Status, nil)
	}

	status, err := uc.paymentClient.VerifyPayment(ctx, booking.BookingRef)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrPaymentNotFound) {
			uc.logger.Warn("TransitionBooking: no payment found for booking ref=%s", booking.BookingRef)
			return ErrPaymentNotConfirmed
		}
		uc.logger.Error("TransitionBooking: payment verification failed for ref=%s: %v", booking.BookingRef, err)
		return fmt.Errorf("%w: payment verification failed: %v", ErrInternal, err)
	}
	if !status.Verified {
		uc.logger.Warn("TransitionBooking: payment for booking ref=%s is not verified", booking.BookingRef)
		return ErrPaymentNotConfirmed
	}

	return uc.bookingRepo.Confirm(ctx, booking.ID, booking.Status, status.PaymentID)
}

// afterTransition выполняет побочные эффекты, которые делает только
// победитель условного обновления
func (uc *UseCase) afterTransition(ctx context.Context, booking *domain.Booking, target domain.BookingStatus) {
	switch target {
	case domain.StatusCancelled:
		// Возвращаем места в слотах: победитель отмены делает это ровно
		// один раз, повторная отмена до сюда не доходит. Установленный
		// capacity_released означает, что места уже возвращены ранее.
		if booking.CapacityReleased {
			uc.logger.Warn("TransitionBooking: capacity for booking id=%d already released, skipping", booking.ID)
		} else if err := uc.admission.Release(ctx, booking.SlotKeys()); err != nil {
			uc.logger.Error("TransitionBooking: failed to release slots for booking id=%d: %v", booking.ID, err)
		}
		uc.publish(ctx, events.KeyBookingCancelled, booking, target)

	case domain.StatusCompleted:
		// Счетчик применений промокода растет только при завершении
		uc.recordPromoUsage(ctx, booking)
		uc.publish(ctx, events.KeyBookingCompleted, booking, target)

	default:
		uc.publish(ctx, events.KeyBookingStatusChanged, booking, target)
	}
}

// recordPromoUsage фиксирует применение промокода завершенного бронирования.
// Идемпотентно по бронированию: повторное завершение после retry не
// увеличивает счетчик второй раз.
func (uc *UseCase) recordPromoUsage(ctx context.Context, booking *domain.Booking) {
	if booking.DiscountCode == nil {
		return
	}

	promo, err := uc.promoRepo.GetByCode(ctx, *booking.DiscountCode)
	if err != nil {
		if errors.Is(err, promoStorage.ErrPromoNotFound) {
			uc.logger.Warn("TransitionBooking: promo code %q of booking id=%d no longer exists",
				*booking.DiscountCode, booking.ID)
			return
		}
		uc.logger.Error("TransitionBooking: failed to load promo code %q: %v", *booking.DiscountCode, err)
		return
	}

	usage := &domain.PromoUsage{
		PromoID:    promo.ID,
		CustomerID: booking.CustomerID,
		BookingID:  booking.ID,
		Discount:   booking.DiscountAmount,
		UsedAt:     time.Now(),
	}
	if err := uc.promoRepo.RecordUsage(ctx, usage); err != nil {
		uc.logger.Error("TransitionBooking: failed to record promo usage for booking id=%d: %v", booking.ID, err)
	}
}

// lostTransition строит ошибку для проигравшего конкурентного перехода
func (uc *UseCase) lostTransition(ctx context.Context, booking *domain.Booking, target domain.BookingStatus) error {
	current, err := uc.bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("TransitionBooking: failed to reload booking id=%d after conflict: %v", booking.ID, err)
		return fmt.Errorf("%w: %v", ErrInvalidTransition, &domain.StateError{
			BookingID: booking.ID,
			From:      booking.Status,
			To:        target,
		})
	}

	stateErr := &domain.StateError{
		BookingID: booking.ID,
		From:      current.Status,
		To:        target,
	}
	uc.logger.Warn("TransitionBooking: booking id=%d lost concurrent transition: %v", booking.ID, stateErr)
	return fmt.Errorf("%w: %v", ErrInvalidTransition, stateErr)
}

// publish публикует событие перехода (best-effort)
func (uc *UseCase) publish(ctx context.Context, routingKey string, booking *domain.Booking, target domain.BookingStatus) {
	payload := map[string]interface{}{
		"bookingId":  booking.ID,
		"bookingRef": booking.BookingRef,
		"customerId": booking.CustomerID,
		"fromStatus": booking.Status,
		"toStatus":   target,
	}
	if booking.ProviderID != nil {
		payload["providerId"] = *booking.ProviderID
	}
	if err := uc.publisher.Publish(ctx, routingKey, payload); err != nil {
		uc.logger.Warn("TransitionBooking: failed to publish %s event for booking id=%d: %v",
			routingKey, booking.ID, err)
	}
}
