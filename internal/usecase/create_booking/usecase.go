package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/infra/locks"
	promoStorage "github.com/kmatv/HS-BookingService/internal/infra/storage/promocode"
	"github.com/kmatv/HS-BookingService/internal/integrations/geoservice"
	"github.com/kmatv/HS-BookingService/internal/service/admission"
	"github.com/kmatv/HS-BookingService/pkg/events"
	"github.com/kmatv/HS-BookingService/pkg/txmanager"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	promoRepo    PromoRepository
	admission    AdmissionController
	geoChecker   GeoChecker
	locker       SlotLocker
	publisher    EventPublisher
	txManager    TransactionManager
	policy       BillingPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	promoRepo PromoRepository,
	admissionController AdmissionController,
	geoChecker GeoChecker,
	locker SlotLocker,
	publisher EventPublisher,
	txManager TransactionManager,
	policy BillingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		promoRepo:    promoRepo,
		admission:    admissionController,
		geoChecker:   geoChecker,
		locker:       locker,
		publisher:    publisher,
		txManager:    txManager,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Допуск в слоты и вставка бронирования выполняются в сериализуемой
// транзакции под per-key блокировками — из конкурентных запросов на
// последнее место побеждает ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, date=%s, slot=%s, items=%d, payment=%s",
		req.CustomerID, req.ScheduledDate.Format(domain.DateFormat), req.ScheduledSlot, len(req.Items), req.PaymentMethod)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты визита
	if err := validateDate(req.ScheduledDate, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 4. Проверяем зону обслуживания (если переданы координаты)
	if req.Latitude != nil && req.Longitude != nil {
		if err := uc.checkServiceability(ctx, *req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}

	// 5. Разрешаем промокод в сумму скидки (fail-closed: любая неуверенность —
	// отказ в применении, а не скидка "на всякий случай")
	discount := types.Money(0)
	var discountCode *string
	if req.PromoCode != nil {
		code := domain.NormalizePromoCode(*req.PromoCode)

		resolved, err := uc.resolvePromo(ctx, code, req, now)
		if err != nil {
			return nil, err
		}

		discount = resolved
		discountCode = &code
	}

	// 6. Считаем разложение стоимости
	breakdown, err := domain.ComputeBreakdown(domain.BreakdownInput{
		Items:                 req.Items,
		VisitingCharge:        uc.policy.VisitingCharge,
		PlatformFees:          uc.policy.PlatformFees,
		Discount:              discount,
		DefaultTaxRatePercent: uc.policy.DefaultTaxRatePercent,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBreakdownInvariant) {
			// Дефект расчета, а не ошибка клиента — логируем громко
			uc.logger.Error("CreateBooking: breakdown invariant violated: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		uc.logger.Warn("CreateBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 7. Начальный статус зависит от способа оплаты: наличные подтверждаются
	// сразу, онлайн ждет подтверждения платежа
	status := domain.StatusPendingPayment
	if domain.PaymentMethod(req.PaymentMethod) == domain.PaymentCash {
		status = domain.StatusConfirmed
	}

	booking := &domain.Booking{
		BookingRef:     newBookingRef(req.ScheduledDate),
		CustomerID:     req.CustomerID,
		CategoryID:     breakdown.Items[0].CategoryID,
		ScheduledDate:  req.ScheduledDate,
		ScheduledSlot:  req.ScheduledSlot,
		Items:          breakdown.Items,
		VisitingCharge: breakdown.VisitingCharge,
		PlatformFees:   breakdown.PlatformFees,
		DiscountCode:   discountCode,
		DiscountAmount: breakdown.DiscountAmount,
		SubTotal:       breakdown.ItemsSubtotal,
		TaxAmount:      breakdown.TaxAmount,
		TotalAmount:    breakdown.TotalAmount,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		Notes:          req.Notes,
		Status:         status,
	}

	// 8. Допуск в слоты и вставка — неделимо, под блокировками ключей слотов.
	// Каждая категория позиций держит место независимо: допуск по всем
	// ключам или ни по одному.
	keys := booking.SlotKeys()
	lockKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		lockKeys = append(lockKeys, key.String())
	}

	var result *domain.Booking

	err = uc.locker.WithSlotLocks(ctx, lockKeys, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			if err := uc.admission.TryAdmit(txCtx, keys); err != nil {
				return err
			}

			created, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				// Возвращаем занятые места, если вставка не удалась
				if releaseErr := uc.admission.Release(txCtx, keys); releaseErr != nil {
					uc.logger.Error("CreateBooking: failed to release slots after create failure: %v", releaseErr)
				}
				uc.logger.Error("CreateBooking: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}

			result = created
			return nil
		})
	})

	if err != nil {
		switch {
		case errors.Is(err, admission.ErrCapacityExceeded):
			uc.logger.Warn("CreateBooking: slot capacity exceeded for customer=%d: %v", req.CustomerID, err)
			return nil, fmt.Errorf("%w: %v", ErrSlotCapacityExceeded, err)
		case errors.Is(err, txmanager.ErrSerializationFailure), errors.Is(err, locks.ErrLockBusy):
			uc.logger.Warn("CreateBooking: admission contention for customer=%d: %v", req.CustomerID, err)
			return nil, fmt.Errorf("%w: %v", ErrAdmissionContention, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d ref=%s status=%s",
		result.ID, result.BookingRef, result.Status)

	// 9. Публикуем событие (best-effort, бронирование уже создано)
	uc.publishCreated(ctx, result)

	return toResponse(result), nil
}

// checkServiceability проверяет покрытие адреса зоной обслуживания.
// Недоступный геосервис пропускает бронирование (если конфигурация
// не требует строгой проверки) — деградация внешнего сервиса не должна
// останавливать прием заказов.
func (uc *UseCase) checkServiceability(ctx context.Context, lat, lng float64) error {
	err := uc.geoChecker.CheckServiceability(ctx, lat, lng)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, geoservice.ErrNotServiceable):
		uc.logger.Warn("CreateBooking: address (%f, %f) is outside the service area", lat, lng)
		return ErrOutsideServiceArea
	case errors.Is(err, geoservice.ErrServiceDegraded):
		if uc.policy.StrictServiceability {
			uc.logger.Warn("CreateBooking: geo service degraded, rejecting by policy: %v", err)
			return fmt.Errorf("%w: %v", ErrServiceAreaUnavailable, err)
		}
		uc.logger.Warn("CreateBooking: geo service degraded, admitting without check: %v", err)
		return nil
	default:
		uc.logger.Error("CreateBooking: serviceability check failed: %v", err)
		return fmt.Errorf("%w: serviceability check failed: %v", ErrInternal, err)
	}
}

// resolvePromo загружает промокод и разрешает его в сумму скидки
func (uc *UseCase) resolvePromo(ctx context.Context, code string, req *Request, now time.Time) (types.Money, error) {
	promo, err := uc.promoRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, promoStorage.ErrPromoNotFound) {
			uc.logger.Warn("CreateBooking: promo code %q not found", code)
			return 0, fmt.Errorf("%w: code not found", ErrPromoRejected)
		}
		uc.logger.Error("CreateBooking: failed to load promo code %q: %v", code, err)
		return 0, fmt.Errorf("%w: failed to load promo code: %v", ErrInternal, err)
	}

	userUses, err := uc.promoRepo.CountUserApplications(ctx, promo.ID, req.CustomerID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to count promo applications: %v", err)
		return 0, fmt.Errorf("%w: failed to count promo applications: %v", ErrInternal, err)
	}

	discount, err := promo.ResolveDiscount(displayedItemsSubtotal(req.Items), userUses, now)
	if err != nil {
		var validationErr *domain.PromoValidationError
		if errors.As(err, &validationErr) {
			uc.logger.Warn("CreateBooking: promo code %q rejected: %s", code, validationErr.Reason)
			return 0, fmt.Errorf("%w: %s", ErrPromoRejected, validationErr.Reason)
		}
		uc.logger.Error("CreateBooking: promo resolution failed: %v", err)
		return 0, fmt.Errorf("%w: promo resolution failed: %v", ErrInternal, err)
	}

	return discount, nil
}

// publishCreated публикует событие о созданном бронировании
func (uc *UseCase) publishCreated(ctx context.Context, b *domain.Booking) {
	payload := map[string]interface{}{
		"bookingId":     b.ID,
		"bookingRef":    b.BookingRef,
		"customerId":    b.CustomerID,
		"categoryId":    b.CategoryID,
		"scheduledDate": b.ScheduledDate.Format(domain.DateFormat),
		"scheduledSlot": b.ScheduledSlot,
		"status":        b.Status,
		"totalAmount":   b.TotalAmount,
		"paymentMethod": b.PaymentMethod,
	}
	if err := uc.publisher.Publish(ctx, events.KeyBookingCreated, payload); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s event for booking id=%d: %v",
			events.KeyBookingCreated, b.ID, err)
	}
}

// newBookingRef генерирует человекочитаемый номер бронирования
func newBookingRef(date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("HS-%s-%s", date.Format("20060102"), suffix)
}

// toResponse конвертирует доменную модель в response
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:             b.ID,
		BookingRef:     b.BookingRef,
		CustomerID:     b.CustomerID,
		CategoryID:     b.CategoryID,
		ScheduledDate:  b.ScheduledDate,
		ScheduledSlot:  b.ScheduledSlot,
		Status:         string(b.Status),
		PaymentMethod:  string(b.PaymentMethod),
		Items:          b.Items,
		VisitingCharge: b.VisitingCharge,
		PlatformFees:   b.PlatformFees,
		SubTotal:       b.SubTotal,
		DiscountCode:   b.DiscountCode,
		DiscountAmount: b.DiscountAmount,
		TaxAmount:      b.TaxAmount,
		TotalAmount:    b.TotalAmount,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
