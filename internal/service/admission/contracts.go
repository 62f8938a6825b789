package admission

import (
	"context"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// OccupancyStore хранилище счетчиков занятости слотов.
// Контракт — неделимость read-compare-increment для одного ключа:
// реализация может использовать per-key мьютекс (MemStore) или
// сериализуемую транзакцию БД (infra/occupancy). Разные ключи
// никогда не блокируют друг друга.
type OccupancyStore interface {
	// TryIncrement атомарно сравнивает занятость ключа с лимитом и
	// инкрементирует ее при наличии места. limit < 0 означает "без лимита".
	TryIncrement(ctx context.Context, key domain.SlotKey, limit int) (bool, error)

	// Release возвращает одно место по ключу. Повторный вызов для уже
	// освобожденного места — no-op: занятость не уходит в минус.
	Release(ctx context.Context, key domain.SlotKey) error

	// Count возвращает текущую занятость ключа
	Count(ctx context.Context, key domain.SlotKey) (int, error)
}

// LimitSource источник лимитов по категориям.
// nil означает, что лимит для категории не настроен — запись без ограничений.
type LimitSource interface {
	MaxConcurrent(ctx context.Context, categoryID int64) (*int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
