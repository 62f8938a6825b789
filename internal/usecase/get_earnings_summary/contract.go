package get_earnings_summary

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetCompletedByProvider(ctx context.Context, providerID int64) ([]*domain.Booking, error)
}

// WithdrawalRepository интерфейс репозитория заявок на вывод средств
type WithdrawalRepository interface {
	GetByProvider(ctx context.Context, providerID int64) ([]*domain.WithdrawalRequest, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
