package set_slot_limit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	"github.com/kmatv/HS-BookingService/internal/service/slotlimits"
	"github.com/kmatv/HS-BookingService/internal/service/slotlimits/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCategoryID  = "некорректный идентификатор категории"
	msgAccessDenied       = "доступ запрещен"
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

// Handle PUT /api/v1/categories/{id}/slot-limit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
		return
	}

	categoryID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || categoryID <= 0 {
		h.logger.Warn("PUT /categories/{id}/slot-limit - Invalid category id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidCategoryID)
		return
	}

	var req SetSlotLimitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /categories/{id}/slot-limit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetLimit(r.Context(), &models.SetLimitRequest{
		CategoryID:    categoryID,
		MaxConcurrent: req.MaxConcurrentBookings,
		Actor:         actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, slotlimits.ErrForbidden):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, slotlimits.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PUT /categories/{id}/slot-limit - Failed for category=%d: %v", categoryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /categories/{id}/slot-limit - Limit for category=%d set to %d by actor=%d",
		categoryID, req.MaxConcurrentBookings, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
