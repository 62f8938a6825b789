package create_booking

import (
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	createBooking "github.com/kmatv/HS-BookingService/internal/usecase/create_booking"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// LineItemRequest HTTP model одной позиции заказа
type LineItemRequest struct {
	ServiceID      int64    `json:"serviceId"`
	CategoryID     int64    `json:"categoryId"`
	Name           string   `json:"name"`
	Quantity       int64    `json:"quantity"`
	PricePerUnit   int64    `json:"pricePerUnit"` // в минорных единицах
	IsTaxInclusive bool     `json:"isTaxInclusive"`
	TaxRatePercent *float64 `json:"taxRatePercent,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ScheduledDate string            `json:"scheduledDate"` // "2026-03-15"
	ScheduledSlot string            `json:"scheduledSlot"` // "08:00 AM - 10:00 AM"
	Items         []LineItemRequest `json:"items"`
	PromoCode     *string           `json:"promoCode,omitempty"`
	PaymentMethod string            `json:"paymentMethod"` // cash | online
	Latitude      *float64          `json:"latitude,omitempty"`
	Longitude     *float64          `json:"longitude,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64  `json:"id"`
	BookingRef    string `json:"bookingRef"`
	CustomerID    int64  `json:"customerId"`
	CategoryID    int64  `json:"categoryId"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledSlot string `json:"scheduledSlot"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`

	Items          []domain.ServiceLineItem `json:"items"`
	VisitingCharge *domain.ChargeLine       `json:"visitingCharge,omitempty"`
	PlatformFees   []domain.ChargeLine      `json:"platformFees,omitempty"`

	SubTotal       int64   `json:"subTotal"`
	DiscountCode   *string `json:"discountCode,omitempty"`
	DiscountAmount int64   `json:"discountAmount"`
	TaxAmount      int64   `json:"taxAmount"`
	TotalAmount    int64   `json:"totalAmount"`

	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	scheduledDate, err := time.Parse(domain.DateFormat, r.ScheduledDate)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LineItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItemInput{
			ServiceID:      item.ServiceID,
			CategoryID:     item.CategoryID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			PricePerUnit:   types.Money(item.PricePerUnit),
			IsTaxInclusive: item.IsTaxInclusive,
			TaxRatePercent: item.TaxRatePercent,
		})
	}

	return &createBooking.Request{
		CustomerID:    customerID,
		ScheduledDate: scheduledDate,
		ScheduledSlot: types.TimeSlot(r.ScheduledSlot),
		Items:         items,
		PromoCode:     r.PromoCode,
		PaymentMethod: r.PaymentMethod,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		BookingRef:     resp.BookingRef,
		CustomerID:     resp.CustomerID,
		CategoryID:     resp.CategoryID,
		ScheduledDate:  resp.ScheduledDate.Format(domain.DateFormat),
		ScheduledSlot:  string(resp.ScheduledSlot),
		Status:         resp.Status,
		PaymentMethod:  resp.PaymentMethod,
		Items:          resp.Items,
		VisitingCharge: resp.VisitingCharge,
		PlatformFees:   resp.PlatformFees,
		SubTotal:       int64(resp.SubTotal),
		DiscountCode:   resp.DiscountCode,
		DiscountAmount: int64(resp.DiscountAmount),
		TaxAmount:      int64(resp.TaxAmount),
		TotalAmount:    int64(resp.TotalAmount),
		Notes:          resp.Notes,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
