package models

import (
	"errors"
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64        `json:"customerId"`
	Status     *string      `json:"status,omitempty"` // Фильтр по статусу (опционально)
	Actor      domain.Actor `json:"-"`
}

// GetProviderBookingsRequest запрос на получение бронирований исполнителя
type GetProviderBookingsRequest struct {
	ProviderID int64        `json:"providerId"`
	Status     *string      `json:"status,omitempty"`    // Фильтр по статусу (опционально)
	StartDate  *time.Time   `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate    *time.Time   `json:"endDate,omitempty"`   // Конец периода (опционально)
	Actor      domain.Actor `json:"-"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID: r.ProviderID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64  `json:"id"`
	BookingRef    string `json:"bookingRef"`
	CustomerID    int64  `json:"customerId"`
	CategoryID    int64  `json:"categoryId"`
	ScheduledDate string `json:"scheduledDate"` // "2026-03-15"
	ScheduledSlot string `json:"scheduledSlot"` // "08:00 AM - 10:00 AM"
	Status        string `json:"status"`

	Items          []domain.ServiceLineItem `json:"items"`
	VisitingCharge *domain.ChargeLine       `json:"visitingCharge,omitempty"`
	PlatformFees   []domain.ChargeLine      `json:"platformFees,omitempty"`

	DiscountCode   *string     `json:"discountCode,omitempty"`
	DiscountAmount types.Money `json:"discountAmount"`
	SubTotal       types.Money `json:"subTotal"`
	TaxAmount      types.Money `json:"taxAmount"`
	TotalAmount    types.Money `json:"totalAmount"`

	PaymentMethod    string  `json:"paymentMethod"`
	GatewayOrderID   *string `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID *string `json:"gatewayPaymentId,omitempty"`

	ProviderID           *int64  `json:"providerId,omitempty"`
	IsReviewedByCustomer bool    `json:"isReviewedByCustomer"`
	Notes                *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                   b.ID,
		BookingRef:           b.BookingRef,
		CustomerID:           b.CustomerID,
		CategoryID:           b.CategoryID,
		ScheduledDate:        b.ScheduledDate.Format(domain.DateFormat),
		ScheduledSlot:        string(b.ScheduledSlot),
		Status:               string(b.Status),
		Items:                b.Items,
		VisitingCharge:       b.VisitingCharge,
		PlatformFees:         b.PlatformFees,
		DiscountCode:         b.DiscountCode,
		DiscountAmount:       b.DiscountAmount,
		SubTotal:             b.SubTotal,
		TaxAmount:            b.TaxAmount,
		TotalAmount:          b.TotalAmount,
		PaymentMethod:        string(b.PaymentMethod),
		GatewayOrderID:       b.GatewayOrderID,
		GatewayPaymentID:     b.GatewayPaymentID,
		ProviderID:           b.ProviderID,
		IsReviewedByCustomer: b.IsReviewedByCustomer,
		Notes:                b.Notes,
		CancellationReason:   b.CancellationReason,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
