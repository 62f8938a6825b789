// Package occupancy реализация admission.OccupancyStore поверх Postgres.
//
// Занятость не хранится отдельным счетчиком, а выводится из строк
// booking_slot_claims. Неделимость read-compare-increment обеспечивает
// вызывающий код: проверка и вставка claim-строк выполняются в одной
// SERIALIZABLE транзакции (pkg/txmanager), конфликт конкурентных допусков
// по одному ключу проявляется как serialization failure и повторяется.
package occupancy

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/dbmetrics"
	"github.com/kmatv/HS-BookingService/pkg/psqlbuilder"
)

// PgStore хранилище занятости, выводимой из booking_slot_claims
type PgStore struct {
	db dbmetrics.DBExecutor
}

// NewPgStore создает хранилище занятости поверх БД
func NewPgStore(db dbmetrics.DBExecutor) *PgStore {
	return &PgStore{db: db}
}

// TryIncrement сравнивает текущую занятость ключа с лимитом. Сам инкремент —
// это вставка claim-строки репозиторием бронирований в той же транзакции;
// здесь только проверка места. limit < 0 означает "без лимита".
func (s *PgStore) TryIncrement(ctx context.Context, key domain.SlotKey, limit int) (bool, error) {
	if limit < 0 {
		return true, nil
	}

	count, err := s.Count(ctx, key)
	if err != nil {
		return false, err
	}

	return count < limit, nil
}

// Release no-op: занятость выводится из claim-строк, которые удаляет
// отмена бронирования; повторное удаление само по себе идемпотентно.
func (s *PgStore) Release(ctx context.Context, key domain.SlotKey) error {
	return nil
}

// Count возвращает текущую занятость ключа
func (s *PgStore) Count(ctx context.Context, key domain.SlotKey) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, s.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("booking_slot_claims").
		Where(squirrel.Eq{
			"category_id":    key.CategoryID,
			"scheduled_date": key.Date,
			"scheduled_slot": key.TimeSlot,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("occupancy: build count query: %w", err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("occupancy: count claims for key=%s: %w", key, err)
	}

	return count, nil
}
