package slotlimits

import (
	"context"
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// LimitRepository интерфейс репозитория лимитов категорий
type LimitRepository interface {
	Upsert(ctx context.Context, categoryID int64, maxConcurrent int) (*domain.TimeSlotCategoryLimit, error)
	List(ctx context.Context) ([]*domain.TimeSlotCategoryLimit, error)
}

// OccupancyReader интерфейс чтения занятости слотов
type OccupancyReader interface {
	OccupancyByDate(ctx context.Context, date time.Time) ([]domain.SlotOccupancy, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
