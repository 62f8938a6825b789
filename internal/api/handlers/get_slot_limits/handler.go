package get_slot_limits

import (
	"errors"
	"net/http"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	"github.com/kmatv/HS-BookingService/internal/service/slotlimits"
)

const msgAccessDenied = "доступ запрещен"

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

// Handle GET /api/v1/admin/slot-limits
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
		return
	}

	result, err := h.service.ListLimits(r.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, slotlimits.ErrForbidden):
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /admin/slot-limits - Failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
