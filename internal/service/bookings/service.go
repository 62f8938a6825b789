package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/kmatv/HS-BookingService/internal/domain"
	bookingRepo "github.com/kmatv/HS-BookingService/internal/infra/storage/booking"
	"github.com/kmatv/HS-BookingService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Бронирование видят его клиент, назначенный исполнитель и оператор.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d (%s)", id, actor.UserID, actor.Role)

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента.
// Опционально фильтрует по статусу. Клиент видит только свою историю.
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if !req.Actor.IsAdmin() && req.Actor.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerBookings: actor=%d denied access to customer=%d", req.Actor.UserID, req.CustomerID)
		return nil, ErrForbidden
	}

	filter := domain.CustomerBookingsFilter{CustomerID: req.CustomerID}
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования исполнителя с фильтрацией
// по статусу и периоду. Исполнитель видит только свои назначения.
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d, status=%v", req.ProviderID, req.Status)

	if !req.Actor.IsAdmin() && (req.Actor.Role != domain.RoleProvider || req.Actor.UserID != req.ProviderID) {
		s.logger.Warn("GetProviderBookings: actor=%d denied access to provider=%d", req.Actor.UserID, req.ProviderID)
		return nil, ErrForbidden
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByProvider(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// MarkReviewed отмечает завершенное бронирование как отрецензированное.
// Доступно только клиенту бронирования.
func (s *Service) MarkReviewed(ctx context.Context, id int64, actor domain.Actor) error {
	s.logger.Info("MarkReviewed: booking id=%d, actor=%d", id, actor.UserID)

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() && booking.CustomerID != actor.UserID {
		s.logger.Warn("MarkReviewed: actor=%d denied access to booking id=%d", actor.UserID, id)
		return ErrForbidden
	}

	if booking.Status != domain.StatusCompleted {
		s.logger.Warn("MarkReviewed: booking id=%d is not completed (status=%s)", id, booking.Status)
		return ErrNotCompleted
	}

	if err := s.bookingRepo.MarkReviewed(ctx, id); err != nil {
		// Условное обновление по статусу completed: проигрыш конкурентному
		// переходу трактуем как "не завершено"
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return ErrNotCompleted
		}
		s.logger.Error("MarkReviewed: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkReviewed - repository error: %v", ErrInternal, err)
	}

	return nil
}

// load загружает бронирование с трансляцией ошибок репозитория
func (s *Service) load(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("failed to get booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkAccess проверяет право вызывающего видеть бронирование
func (s *Service) checkAccess(booking *domain.Booking, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if booking.CustomerID == actor.UserID && actor.Role == domain.RoleCustomer {
		return nil
	}
	if booking.ProviderID != nil && *booking.ProviderID == actor.UserID && actor.Role == domain.RoleProvider {
		return nil
	}
	return ErrForbidden
}
