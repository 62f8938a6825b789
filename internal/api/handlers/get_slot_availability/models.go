package get_slot_availability

import (
	getAvailability "github.com/kmatv/HS-BookingService/internal/usecase/get_slot_availability"
)

// SlotResponse HTTP model доступности одного слота
type SlotResponse struct {
	TimeSlot       string `json:"timeSlot"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
	Unlimited      bool   `json:"unlimited"`
	IsFull         bool   `json:"isFull"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CategoryID int64          `json:"categoryId"`
	Date       string         `json:"date"`
	Slots      []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		CategoryID: resp.CategoryID,
		Date:       resp.Date,
		Slots:      make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, slot := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			TimeSlot:       string(slot.TimeSlot),
			AvailableSpots: slot.AvailableSpots,
			TotalSpots:     slot.TotalSpots,
			Unlimited:      slot.Unlimited,
			IsFull:         slot.IsFull(),
		})
	}
	return out
}
