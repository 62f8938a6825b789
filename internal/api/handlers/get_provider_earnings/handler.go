package get_provider_earnings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/api/middleware"
	getEarnings "github.com/kmatv/HS-BookingService/internal/usecase/get_earnings_summary"
)

const (
	msgInvalidProviderID = "некорректный идентификатор исполнителя"
	msgAccessDenied      = "доступ запрещен"
)

type Handler struct {
	useCase GetEarningsSummaryUseCase
	logger  Logger
}

func NewHandler(useCase GetEarningsSummaryUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{id}/earnings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не указан идентификатор пользователя")
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("GET /providers/{id}/earnings - Invalid provider id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getEarnings.Request{
		ProviderID: providerID,
		Actor:      actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, getEarnings.ErrForbidden):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, getEarnings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /providers/{id}/earnings - Failed for provider=%d: %v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
