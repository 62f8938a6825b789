package models

import (
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// Request модели

// CreateWithdrawalRequest запрос на вывод средств
type CreateWithdrawalRequest struct {
	ProviderID int64        `json:"providerId"`
	Amount     types.Money  `json:"amount"`
	Actor      domain.Actor `json:"-"`
}

// Response модели

// WithdrawalResponse ответ с заявкой на вывод средств
type WithdrawalResponse struct {
	ID         int64       `json:"id"`
	ProviderID int64       `json:"providerId"`
	Amount     types.Money `json:"amount"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// WithdrawalListResponse ответ со списком заявок
type WithdrawalListResponse struct {
	Withdrawals []WithdrawalResponse `json:"withdrawals"`
}

// Методы конвертации

// FromDomainWithdrawal конвертирует domain модель в DTO
func FromDomainWithdrawal(w *domain.WithdrawalRequest) *WithdrawalResponse {
	if w == nil {
		return nil
	}
	return &WithdrawalResponse{
		ID:         w.ID,
		ProviderID: w.ProviderID,
		Amount:     w.Amount,
		Status:     string(w.Status),
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

// FromDomainWithdrawalList конвертирует список domain моделей в DTO
func FromDomainWithdrawalList(withdrawals []*domain.WithdrawalRequest) *WithdrawalListResponse {
	resp := &WithdrawalListResponse{Withdrawals: make([]WithdrawalResponse, 0, len(withdrawals))}
	for _, w := range withdrawals {
		if wResp := FromDomainWithdrawal(w); wResp != nil {
			resp.Withdrawals = append(resp.Withdrawals, *wResp)
		}
	}
	return resp
}
