package get_occupancy

import (
	"errors"
	"net/http"
	"time"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/service/slotlimits"
)

const (
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgAccessDenied = "доступ запрещен"
)

type Handler struct {
	service SlotLimitsService
	logger  Logger
}

func NewHandler(service SlotLimitsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/occupancy?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /admin/occupancy - Invalid date: %q", r.URL.Query().Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Occupancy(r.Context(), date, actor)
	if err != nil {
		switch {
		case errors.Is(err, slotlimits.ErrForbidden):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, slotlimits.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /admin/occupancy - Failed for date=%s: %v", date.Format(domain.DateFormat), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
