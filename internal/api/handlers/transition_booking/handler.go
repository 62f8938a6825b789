package transition_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	transitionBooking "github.com/kmatv/HS-BookingService/internal/usecase/transition_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidBookingID    = "некорректный идентификатор бронирования"
	msgBookingNotFound     = "бронирование не найдено"
	msgAccessDenied        = "доступ запрещен"
	msgInvalidTransition   = "переход в указанный статус невозможен"
	msgProviderRequired    = "не указан исполнитель для назначения"
	msgPaymentNotConfirmed = "платеж не подтвержден"
)

type Handler struct {
	useCase TransitionBookingUseCase
	logger  Logger
}

func NewHandler(useCase TransitionBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{id}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &transitionBooking.Request{
		BookingID:    id,
		Actor:        actor,
		TargetStatus: req.Status,
		ProviderID:   req.ProviderID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.respondError(w, id, req.Status, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Booking id=%d moved to %s by actor=%d", id, result.Status, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, id int64, target string, err error) {
	switch {
	case errors.Is(err, transitionBooking.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgBookingNotFound)

	case errors.Is(err, transitionBooking.ErrForbidden):
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, transitionBooking.ErrInvalidTransition):
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%d, target=%s, error=%v", id, target, err)
		handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

	case errors.Is(err, transitionBooking.ErrProviderRequired):
		handlers.RespondBadRequest(w, msgProviderRequired)

	case errors.Is(err, transitionBooking.ErrPaymentNotConfirmed):
		h.logger.Warn("PATCH /bookings/{id}/status - Payment not confirmed: booking_id=%d", id)
		handlers.RespondError(w, http.StatusUnprocessableEntity, msgPaymentNotConfirmed)

	case errors.Is(err, transitionBooking.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("PATCH /bookings/{id}/status - Failed: booking_id=%d, target=%s, error=%v", id, target, err)
		handlers.RespondInternalError(w)
	}
}
