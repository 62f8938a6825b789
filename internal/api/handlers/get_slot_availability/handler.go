package get_slot_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/kmatv/HS-BookingService/internal/api/handlers"
	"github.com/kmatv/HS-BookingService/internal/domain"
	getAvailability "github.com/kmatv/HS-BookingService/internal/usecase/get_slot_availability"
)

const (
	msgInvalidCategoryID = "некорректный идентификатор категории"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetSlotAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/categories/{id}/availability?date=YYYY-MM-DD
//
// Публичный маршрут: клиент видит доступность до авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || categoryID <= 0 {
		h.logger.Warn("GET /categories/{id}/availability - Invalid category id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidCategoryID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /categories/{id}/availability - Invalid date: %q", r.URL.Query().Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		CategoryID: categoryID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /categories/{id}/availability - Failed for category=%d: %v", categoryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
