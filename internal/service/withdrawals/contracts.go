package withdrawals

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// WithdrawalRepository интерфейс репозитория заявок на вывод средств
type WithdrawalRepository interface {
	Create(ctx context.Context, w *domain.WithdrawalRequest) (*domain.WithdrawalRequest, error)
	GetByProvider(ctx context.Context, providerID int64) ([]*domain.WithdrawalRequest, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetCompletedByProvider(ctx context.Context, providerID int64) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
