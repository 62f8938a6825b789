package create_booking

import (
	"context"
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// PromoRepository интерфейс репозитория промокодов
type PromoRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	CountUserApplications(ctx context.Context, promoID, customerID int64) (int64, error)
}

// AdmissionController интерфейс контроллера допуска в слоты
type AdmissionController interface {
	TryAdmit(ctx context.Context, keys []domain.SlotKey) error
	Release(ctx context.Context, keys []domain.SlotKey) error
}

// GeoChecker интерфейс проверки зоны обслуживания
type GeoChecker interface {
	CheckServiceability(ctx context.Context, lat, lng float64) error
}

// SlotLocker интерфейс per-key сериализации admission-проверок
type SlotLocker interface {
	WithSlotLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
