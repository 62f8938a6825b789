package transition_booking

import (
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	transitionBooking "github.com/kmatv/HS-BookingService/internal/usecase/transition_booking"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Status     string  `json:"status"`               // Целевой статус
	ProviderID *int64  `json:"providerId,omitempty"` // Для назначения исполнителя
	Reason     *string `json:"reason,omitempty"`     // Для отмены и отказа исполнителя
}

// TransitionResponse HTTP response model
type TransitionResponse struct {
	ID            int64  `json:"id"`
	BookingRef    string `json:"bookingRef"`
	CustomerID    int64  `json:"customerId"`
	ProviderID    *int64 `json:"providerId,omitempty"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledSlot string `json:"scheduledSlot"`
	Status        string `json:"status"`
	TotalAmount   int64  `json:"totalAmount"`
	UpdatedAt     string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionBooking.Response) *TransitionResponse {
	return &TransitionResponse{
		ID:            resp.ID,
		BookingRef:    resp.BookingRef,
		CustomerID:    resp.CustomerID,
		ProviderID:    resp.ProviderID,
		ScheduledDate: resp.ScheduledDate.Format(domain.DateFormat),
		ScheduledSlot: string(resp.ScheduledSlot),
		Status:        resp.Status,
		TotalAmount:   int64(resp.TotalAmount),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
