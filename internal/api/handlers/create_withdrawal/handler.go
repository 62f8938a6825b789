package create_withdrawal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	"github.com/kmatv/HS-BookingService/internal/service/withdrawals"
	"github.com/kmatv/HS-BookingService/internal/service/withdrawals/models"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidProviderID   = "некорректный идентификатор исполнителя"
	msgAccessDenied        = "доступ запрещен"
	msgInsufficientBalance = "недостаточно средств для вывода"
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

// Handle POST /api/v1/providers/{id}/withdrawals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("POST /providers/{id}/withdrawals - Invalid provider id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req CreateWithdrawalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/{id}/withdrawals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &models.CreateWithdrawalRequest{
		ProviderID: providerID,
		Amount:     types.Money(req.Amount),
		Actor:      actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, withdrawals.ErrForbidden):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, withdrawals.ErrInsufficientBalance):
			h.logger.Warn("POST /providers/{id}/withdrawals - Insufficient balance: provider=%d, amount=%d", providerID, req.Amount)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInsufficientBalance)
		case errors.Is(err, withdrawals.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /providers/{id}/withdrawals - Failed for provider=%d: %v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/{id}/withdrawals - Withdrawal id=%d created for provider=%d", result.ID, providerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
