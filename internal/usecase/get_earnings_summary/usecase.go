package get_earnings_summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// UseCase use case для сводки взаиморасчетов исполнителя
type UseCase struct {
	bookingRepo    BookingRepository
	withdrawalRepo WithdrawalRepository
	fee            domain.ProviderFeeConfig
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	withdrawalRepo WithdrawalRepository,
	fee domain.ProviderFeeConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		withdrawalRepo: withdrawalRepo,
		fee:            fee,
		logger:         logger,
	}
}

// Execute строит сводку взаиморасчетов по завершенным бронированиям
// и истории выводов средств исполнителя
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	// Исполнитель видит только свою сводку, оператор — любую
	if !req.Actor.IsAdmin() && (req.Actor.Role != domain.RoleProvider || req.Actor.UserID != req.ProviderID) {
		uc.logger.Warn("GetEarningsSummary: actor=%d (%s) denied access to provider=%d",
			req.Actor.UserID, req.Actor.Role, req.ProviderID)
		return nil, ErrForbidden
	}

	completed, err := uc.bookingRepo.GetCompletedByProvider(ctx, req.ProviderID)
	if err != nil {
		uc.logger.Error("GetEarningsSummary: failed to get completed bookings for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get completed bookings: %v", ErrInternal, err)
	}

	withdrawals, err := uc.withdrawalRepo.GetByProvider(ctx, req.ProviderID)
	if err != nil {
		uc.logger.Error("GetEarningsSummary: failed to get withdrawals for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get withdrawals: %v", ErrInternal, err)
	}

	summary, err := domain.SummarizeEarnings(req.ProviderID, completed, withdrawals, uc.fee)
	if err != nil {
		if errors.Is(err, domain.ErrSettlementInconsistency) {
			// Нарушение инварианта направления долга — дефект данных,
			// логируем громко
			uc.logger.Error("GetEarningsSummary: settlement inconsistency for provider=%d: %v", req.ProviderID, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("GetEarningsSummary: provider=%d, completed=%d, withdrawable=%s",
		req.ProviderID, summary.CompletedBookings, summary.WithdrawableBalance)

	return &Response{
		ProviderID:              summary.ProviderID,
		CompletedBookings:       summary.CompletedBookings,
		TotalRevenue:            summary.TotalRevenue,
		TotalCommission:         summary.TotalCommission,
		TotalNetEarnings:        summary.TotalNetEarnings,
		CashCollectedByProvider: summary.CashCollectedByProvider,
		NetFromOnlinePayments:   summary.NetFromOnlinePayments,
		WithdrawnOrReserved:     summary.WithdrawnOrReserved,
		WithdrawableBalance:     summary.WithdrawableBalance,
		ProviderOwesAdmin:       summary.ProviderOwesAdmin,
		AdminOwesProvider:       summary.AdminOwesProvider,
	}, nil
}
