package slotlimit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/dbmetrics"
	"github.com/kmatv/HS-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий лимитов слотов по категориям
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория лимитов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или обновляет лимит категории.
// Изменение лимита не влияет на уже допущенные бронирования.
func (r *Repository) Upsert(ctx context.Context, categoryID int64, maxConcurrent int) (*domain.TimeSlotCategoryLimit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("timeslot_category_limits").
		Columns("category_id", "max_concurrent_bookings").
		Values(categoryID, maxConcurrent).
		Suffix(`ON CONFLICT (category_id) DO UPDATE
			SET max_concurrent_bookings = EXCLUDED.max_concurrent_bookings, updated_at = now()
			RETURNING id, category_id, max_concurrent_bookings, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build query: %v", ErrBuildQuery, err)
	}

	var limit domain.TimeSlotCategoryLimit
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&limit.ID,
		&limit.CategoryID,
		&limit.MaxConcurrentBookings,
		&limit.CreatedAt,
		&limit.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute query: %w", ErrExecQuery, err)
	}

	return &limit, nil
}

// GetByCategory возвращает лимит категории, ErrLimitNotFound если не настроен
func (r *Repository) GetByCategory(ctx context.Context, categoryID int64) (*domain.TimeSlotCategoryLimit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "category_id", "max_concurrent_bookings", "created_at", "updated_at").
		From("timeslot_category_limits").
		Where(squirrel.Eq{"category_id": categoryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCategory - build query: %v", ErrBuildQuery, err)
	}

	var limit domain.TimeSlotCategoryLimit
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&limit.ID,
		&limit.CategoryID,
		&limit.MaxConcurrentBookings,
		&limit.CreatedAt,
		&limit.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrLimitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCategory - scan row: %w", ErrScanRow, err)
	}

	return &limit, nil
}

// MaxConcurrent реализует admission.LimitSource: nil означает "лимит не настроен"
func (r *Repository) MaxConcurrent(ctx context.Context, categoryID int64) (*int, error) {
	limit, err := r.GetByCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrLimitNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &limit.MaxConcurrentBookings, nil
}

// List возвращает все настроенные лимиты
func (r *Repository) List(ctx context.Context) ([]*domain.TimeSlotCategoryLimit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "category_id", "max_concurrent_bookings", "created_at", "updated_at").
		From("timeslot_category_limits").
		OrderBy("category_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.TimeSlotCategoryLimit, 0)
	for rows.Next() {
		var limit domain.TimeSlotCategoryLimit
		if err := rows.Scan(&limit.ID, &limit.CategoryID, &limit.MaxConcurrentBookings, &limit.CreatedAt, &limit.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		result = append(result, &limit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrExecQuery, err)
	}

	return result, nil
}
