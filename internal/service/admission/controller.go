package admission

import (
	"context"
	"fmt"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// Controller контроллер допуска бронирований в слоты.
// Решает, может ли новое бронирование занять место в слоте с учетом
// лимита категории, и отслеживает текущую занятость.
type Controller struct {
	store  OccupancyStore
	limits LimitSource
	logger Logger
}

// NewController создает контроллер допуска
func NewController(store OccupancyStore, limits LimitSource, logger Logger) *Controller {
	return &Controller{
		store:  store,
		limits: limits,
		logger: logger,
	}
}

// TryAdmit пытается занять место по каждому из ключей (бронирование с
// услугами из нескольких категорий проходит допуск в каждой независимо).
// Допуск атомарен по принципу "все или ничего": при отказе любого ключа
// уже занятые места откатываются и возвращается ErrCapacityExceeded.
//
// Лимит 0 всегда отклоняет. Отсутствие настроенного лимита — без ограничений.
//
// Ошибки хранилища оборачиваются с сохранением причины: конфликт сериализации
// внутри транзакции должен оставаться распознаваемым для повторов txmanager.
func (c *Controller) TryAdmit(ctx context.Context, keys []domain.SlotKey) error {
	admitted := make([]domain.SlotKey, 0, len(keys))

	for _, key := range keys {
		limit, err := c.limits.MaxConcurrent(ctx, key.CategoryID)
		if err != nil {
			c.rollback(ctx, admitted)
			return fmt.Errorf("%w: limit lookup for category=%d: %w", ErrInternal, key.CategoryID, err)
		}

		effectiveLimit := -1 // без лимита
		if limit != nil {
			effectiveLimit = *limit
		}

		if effectiveLimit == 0 {
			c.logger.Warn("TryAdmit: category=%d closed for booking (limit=0), key=%s", key.CategoryID, key)
			c.rollback(ctx, admitted)
			return fmt.Errorf("%w: key=%s", ErrCapacityExceeded, key)
		}

		ok, err := c.store.TryIncrement(ctx, key, effectiveLimit)
		if err != nil {
			c.rollback(ctx, admitted)
			return fmt.Errorf("%w: try increment key=%s: %w", ErrInternal, key, err)
		}
		if !ok {
			c.logger.Warn("TryAdmit: capacity exceeded, key=%s, limit=%d", key, effectiveLimit)
			c.rollback(ctx, admitted)
			return fmt.Errorf("%w: key=%s", ErrCapacityExceeded, key)
		}

		admitted = append(admitted, key)
	}

	return nil
}

// Release возвращает места по всем ключам бронирования. Вызывается ровно
// один раз при переходе в Cancelled; идемпотентность по бронированию
// обеспечивает флаг capacity_released у победителя условного обновления.
func (c *Controller) Release(ctx context.Context, keys []domain.SlotKey) error {
	var firstErr error
	for _, key := range keys {
		if err := c.store.Release(ctx, key); err != nil {
			c.logger.Error("Release: failed to release key=%s: %v", key, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: release key=%s: %w", ErrInternal, key, err)
			}
		}
	}
	return firstErr
}

// Occupancy возвращает текущую занятость ключа
func (c *Controller) Occupancy(ctx context.Context, key domain.SlotKey) (int, error) {
	count, err := c.store.Count(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("%w: count key=%s: %w", ErrInternal, key, err)
	}
	return count, nil
}

// rollback откатывает уже занятые места при отказе по принципу "все или ничего"
func (c *Controller) rollback(ctx context.Context, admitted []domain.SlotKey) {
	for _, key := range admitted {
		if err := c.store.Release(ctx, key); err != nil {
			c.logger.Error("TryAdmit: rollback failed for key=%s: %v", key, err)
		}
	}
}
