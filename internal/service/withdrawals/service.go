package withdrawals

import (
	"context"
	"fmt"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/service/withdrawals/models"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// Service сервис заявок на вывод средств
type Service struct {
	withdrawalRepo WithdrawalRepository
	bookingRepo    BookingRepository
	fee            domain.ProviderFeeConfig
	logger         Logger
}

// NewService создает новый экземпляр сервиса выводов средств
func NewService(
	withdrawalRepo WithdrawalRepository,
	bookingRepo BookingRepository,
	fee domain.ProviderFeeConfig,
	logger Logger,
) *Service {
	return &Service{
		withdrawalRepo: withdrawalRepo,
		bookingRepo:    bookingRepo,
		fee:            fee,
		logger:         logger,
	}
}

// Create создает заявку на вывод средств. Сумма проверяется против
// доступного баланса: чистая доля онлайн-оплат минус уже выведенное
// или зарезервированное другими заявками.
func (s *Service) Create(ctx context.Context, req *models.CreateWithdrawalRequest) (*models.WithdrawalResponse, error) {
	s.logger.Info("CreateWithdrawal: provider=%d, amount=%s", req.ProviderID, req.Amount)

	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !req.Actor.IsAdmin() && (req.Actor.Role != domain.RoleProvider || req.Actor.UserID != req.ProviderID) {
		s.logger.Warn("CreateWithdrawal: actor=%d denied access to provider=%d", req.Actor.UserID, req.ProviderID)
		return nil, ErrForbidden
	}

	balance, err := s.withdrawableBalance(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}

	if req.Amount > balance {
		s.logger.Warn("CreateWithdrawal: provider=%d requested %s, available %s", req.ProviderID, req.Amount, balance)
		return nil, fmt.Errorf("%w: requested %s, available %s", ErrInsufficientBalance, req.Amount, balance)
	}

	withdrawal := &domain.WithdrawalRequest{
		ProviderID: req.ProviderID,
		Amount:     req.Amount,
		Status:     domain.WithdrawalPending,
	}

	created, err := s.withdrawalRepo.Create(ctx, withdrawal)
	if err != nil {
		s.logger.Error("CreateWithdrawal: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateWithdrawal: created withdrawal id=%d for provider=%d", created.ID, req.ProviderID)
	return models.FromDomainWithdrawal(created), nil
}

// List возвращает заявки исполнителя на вывод средств
func (s *Service) List(ctx context.Context, providerID int64, actor domain.Actor) (*models.WithdrawalListResponse, error) {
	if providerID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if !actor.IsAdmin() && (actor.Role != domain.RoleProvider || actor.UserID != providerID) {
		s.logger.Warn("ListWithdrawals: actor=%d denied access to provider=%d", actor.UserID, providerID)
		return nil, ErrForbidden
	}

	withdrawals, err := s.withdrawalRepo.GetByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("ListWithdrawals: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWithdrawalList(withdrawals), nil
}

// withdrawableBalance считает доступный к выводу баланс исполнителя
func (s *Service) withdrawableBalance(ctx context.Context, providerID int64) (types.Money, error) {
	completed, err := s.bookingRepo.GetCompletedByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("CreateWithdrawal: failed to get completed bookings for provider=%d: %v", providerID, err)
		return 0, fmt.Errorf("%w: failed to get completed bookings: %v", ErrInternal, err)
	}

	withdrawals, err := s.withdrawalRepo.GetByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("CreateWithdrawal: failed to get withdrawals for provider=%d: %v", providerID, err)
		return 0, fmt.Errorf("%w: failed to get withdrawals: %v", ErrInternal, err)
	}

	summary, err := domain.SummarizeEarnings(providerID, completed, withdrawals, s.fee)
	if err != nil {
		s.logger.Error("CreateWithdrawal: settlement error for provider=%d: %v", providerID, err)
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return summary.WithdrawableBalance, nil
}
