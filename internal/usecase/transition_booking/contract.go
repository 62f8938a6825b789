package transition_booking

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/internal/integrations/paymentgateway"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Confirm(ctx context.Context, id int64, from domain.BookingStatus, gatewayPaymentID *string) error
	AssignProvider(ctx context.Context, id int64, providerID int64, from domain.BookingStatus) error
	Complete(ctx context.Context, id int64, from domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string) error
}

// PromoRepository интерфейс репозитория промокодов
type PromoRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	RecordUsage(ctx context.Context, usage *domain.PromoUsage) error
}

// AdmissionController интерфейс контроллера допуска в слоты
type AdmissionController interface {
	Release(ctx context.Context, keys []domain.SlotKey) error
}

// PaymentClient интерфейс клиента платежного сервиса
type PaymentClient interface {
	VerifyPayment(ctx context.Context, bookingRef string) (*paymentgateway.PaymentStatus, error)
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
