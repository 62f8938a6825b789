package get_slot_availability

import (
	"context"
	"time"
)

// LimitSource интерфейс источника лимитов одновременных бронирований
type LimitSource interface {
	// MaxConcurrent возвращает nil для категории без настроенного лимита
	MaxConcurrent(ctx context.Context, categoryID int64) (*int, error)
}

// OccupancyReader интерфейс чтения занятости слотов категории на дату
type OccupancyReader interface {
	OccupancyForCategoryDate(ctx context.Context, categoryID int64, date time.Time) (map[string]int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
