package create_booking

import (
	"errors"
	"net/http"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	createBooking "github.com/kmatv/HS-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты визита, ожидается YYYY-MM-DD"
	msgCapacityExceeded     = "на выбранный слот не осталось мест"
	msgAdmissionContention  = "слот бронируется конкурентным запросом, повторите попытку"
	msgOutsideServiceArea   = "адрес вне зоны обслуживания"
	msgServiceUnavailable   = "проверка зоны обслуживания временно недоступна"
	msgPromoRejected        = "промокод не может быть применен"
	msgInvalidScheduledDate = "некорректная дата визита"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты)
	useCaseReq, err := req.ToUseCaseRequest(actor.UserID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: customer_id=%d, slot=%s", actor.UserID, req.ScheduledSlot)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, createBooking.ErrAdmissionContention):
			h.logger.Warn("POST /bookings - Admission contention: customer_id=%d, slot=%s", actor.UserID, req.ScheduledSlot)
			handlers.RespondError(w, http.StatusConflict, msgAdmissionContention)

		case errors.Is(err, createBooking.ErrOutsideServiceArea):
			h.logger.Warn("POST /bookings - Outside service area: customer_id=%d", actor.UserID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgOutsideServiceArea)

		case errors.Is(err, createBooking.ErrServiceAreaUnavailable):
			h.logger.Warn("POST /bookings - Serviceability check unavailable: customer_id=%d", actor.UserID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgServiceUnavailable)

		case errors.Is(err, createBooking.ErrPromoRejected):
			h.logger.Warn("POST /bookings - Promo rejected: customer_id=%d, error=%v", actor.UserID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgPromoRejected)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid scheduled date: customer_id=%d", actor.UserID)
			handlers.RespondBadRequest(w, msgInvalidScheduledDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, ref=%s, customer_id=%d",
		result.ID, result.BookingRef, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
