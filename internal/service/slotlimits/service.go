package slotlimits

import (
	"context"
	"fmt"
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/service/slotlimits/models"
)

// Service сервис управления лимитами слотов
type Service struct {
	limitRepo LimitRepository
	occupancy OccupancyReader
	logger    Logger
}

// NewService создает новый экземпляр сервиса лимитов
func NewService(limitRepo LimitRepository, occupancy OccupancyReader, logger Logger) *Service {
	return &Service{
		limitRepo: limitRepo,
		occupancy: occupancy,
		logger:    logger,
	}
}

// SetLimit устанавливает лимит одновременных бронирований категории.
// Лимит 0 полностью закрывает категорию для новых бронирований.
// Понижение лимита не трогает уже допущенные бронирования.
func (s *Service) SetLimit(ctx context.Context, req *models.SetLimitRequest) (*models.LimitResponse, error) {
	s.logger.Info("SetLimit: category=%d, maxConcurrent=%d, actor=%d", req.CategoryID, req.MaxConcurrent, req.Actor.UserID)

	if !req.Actor.IsAdmin() {
		s.logger.Warn("SetLimit: actor=%d (%s) is not an operator", req.Actor.UserID, req.Actor.Role)
		return nil, ErrForbidden
	}

	if req.CategoryID <= 0 {
		return nil, fmt.Errorf("%w: categoryID must be positive", ErrInvalidInput)
	}
	if req.MaxConcurrent < domain.MinConcurrentBookings || req.MaxConcurrent > domain.MaxConcurrentBookingsLimit {
		return nil, fmt.Errorf("%w: maxConcurrentBookings must be in %d..%d",
			ErrInvalidInput, domain.MinConcurrentBookings, domain.MaxConcurrentBookingsLimit)
	}

	limit, err := s.limitRepo.Upsert(ctx, req.CategoryID, req.MaxConcurrent)
	if err != nil {
		s.logger.Error("SetLimit: repository error for category=%d: %v", req.CategoryID, err)
		return nil, fmt.Errorf("%w: SetLimit - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetLimit: category=%d limit set to %d", req.CategoryID, req.MaxConcurrent)
	return models.FromDomainLimit(limit), nil
}

// ListLimits возвращает лимиты всех категорий
func (s *Service) ListLimits(ctx context.Context, actor domain.Actor) (*models.LimitListResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("ListLimits: actor=%d (%s) is not an operator", actor.UserID, actor.Role)
		return nil, ErrForbidden
	}

	limits, err := s.limitRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListLimits: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListLimits - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainLimitList(limits), nil
}

// Occupancy возвращает занятость всех ключей слотов на дату —
// операционный дашборд для оператора
func (s *Service) Occupancy(ctx context.Context, date time.Time, actor domain.Actor) (*models.OccupancyResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("Occupancy: actor=%d (%s) is not an operator", actor.UserID, actor.Role)
		return nil, ErrForbidden
	}

	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	rows, err := s.occupancy.OccupancyByDate(ctx, date)
	if err != nil {
		s.logger.Error("Occupancy: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: Occupancy - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOccupancy(date.Format(domain.DateFormat), rows), nil
}
