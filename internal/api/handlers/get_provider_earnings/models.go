package get_provider_earnings

import (
	getEarnings "github.com/kmatv/HS-BookingService/internal/usecase/get_earnings_summary"
)

// EarningsResponse HTTP response model сводки взаиморасчетов
type EarningsResponse struct {
	ProviderID        int64 `json:"providerId"`
	CompletedBookings int   `json:"completedBookings"`

	TotalRevenue     int64 `json:"totalRevenue"`
	TotalCommission  int64 `json:"totalCommission"`
	TotalNetEarnings int64 `json:"totalNetEarnings"`

	CashCollectedByProvider int64 `json:"cashCollectedByProvider"`
	NetFromOnlinePayments   int64 `json:"netFromOnlinePayments"`

	WithdrawnOrReserved int64 `json:"withdrawnOrReserved"`
	WithdrawableBalance int64 `json:"withdrawableBalance"`

	ProviderOwesAdmin int64 `json:"providerOwesAdmin"`
	AdminOwesProvider int64 `json:"adminOwesProvider"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getEarnings.Response) *EarningsResponse {
	return &EarningsResponse{
		ProviderID:              resp.ProviderID,
		CompletedBookings:       resp.CompletedBookings,
		TotalRevenue:            int64(resp.TotalRevenue),
		TotalCommission:         int64(resp.TotalCommission),
		TotalNetEarnings:        int64(resp.TotalNetEarnings),
		CashCollectedByProvider: int64(resp.CashCollectedByProvider),
		NetFromOnlinePayments:   int64(resp.NetFromOnlinePayments),
		WithdrawnOrReserved:     int64(resp.WithdrawnOrReserved),
		WithdrawableBalance:     int64(resp.WithdrawableBalance),
		ProviderOwesAdmin:       int64(resp.ProviderOwesAdmin),
		AdminOwesProvider:       int64(resp.AdminOwesProvider),
	}
}
