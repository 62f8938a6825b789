package models

import (
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// Request модели

// SetLimitRequest запрос на установку лимита одновременных бронирований
type SetLimitRequest struct {
	CategoryID    int64        `json:"categoryId"`
	MaxConcurrent int          `json:"maxConcurrentBookings"`
	Actor         domain.Actor `json:"-"`
}

// Response модели

// LimitResponse ответ с лимитом категории
type LimitResponse struct {
	ID                    int64     `json:"id"`
	CategoryID            int64     `json:"categoryId"`
	MaxConcurrentBookings int       `json:"maxConcurrentBookings"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// LimitListResponse ответ со списком лимитов
type LimitListResponse struct {
	Limits []LimitResponse `json:"limits"`
}

// OccupancyRow строка операционного дашборда занятости
type OccupancyRow struct {
	CategoryID int64  `json:"categoryId"`
	Date       string `json:"date"`
	TimeSlot   string `json:"timeSlot"`
	Count      int    `json:"count"`
}

// OccupancyResponse ответ дашборда занятости на дату
type OccupancyResponse struct {
	Date string         `json:"date"`
	Rows []OccupancyRow `json:"rows"`
}

// Методы конвертации

// FromDomainLimit конвертирует domain модель в DTO
func FromDomainLimit(l *domain.TimeSlotCategoryLimit) *LimitResponse {
	if l == nil {
		return nil
	}
	return &LimitResponse{
		ID:                    l.ID,
		CategoryID:            l.CategoryID,
		MaxConcurrentBookings: l.MaxConcurrentBookings,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}

// FromDomainLimitList конвертирует список domain моделей в DTO
func FromDomainLimitList(limits []*domain.TimeSlotCategoryLimit) *LimitListResponse {
	resp := &LimitListResponse{Limits: make([]LimitResponse, 0, len(limits))}
	for _, limit := range limits {
		if limitResp := FromDomainLimit(limit); limitResp != nil {
			resp.Limits = append(resp.Limits, *limitResp)
		}
	}
	return resp
}

// FromDomainOccupancy конвертирует строки занятости в DTO
func FromDomainOccupancy(date string, rows []domain.SlotOccupancy) *OccupancyResponse {
	resp := &OccupancyResponse{
		Date: date,
		Rows: make([]OccupancyRow, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, OccupancyRow{
			CategoryID: row.CategoryID,
			Date:       row.Date,
			TimeSlot:   string(row.TimeSlot),
			Count:      row.Count,
		})
	}
	return resp
}
