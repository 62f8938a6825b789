package get_withdrawals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	"github.com/kmatv/HS-BookingService/internal/service/withdrawals"
)

const (
	msgInvalidProviderID = "некорректный идентификатор исполнителя"
	msgAccessDenied      = "доступ запрещен"
)

type Handler struct {
	service WithdrawalsService
	logger  Logger
}

func NewHandler(service WithdrawalsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{id}/withdrawals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("GET /providers/{id}/withdrawals - Invalid provider id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	result, err := h.service.List(r.Context(), providerID, actor)
	if err != nil {
		switch {
		case errors.Is(err, withdrawals.ErrForbidden):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, withdrawals.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /providers/{id}/withdrawals - Failed for provider=%d: %v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
