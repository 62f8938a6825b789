package promocode

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/dbmetrics"
	"github.com/kmatv/HS-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий промокодов и истории их применений
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория промокодов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode возвращает промокод по нормализованному коду
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"code",
		"discount_type",
		"discount_percent",
		"discount_flat",
		"min_booking_amount",
		"max_uses",
		"max_uses_per_user",
		"uses_count",
		"valid_from",
		"valid_until",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("promo_codes").
		Where(squirrel.Eq{"code": domain.NormalizePromoCode(code)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build query: %v", ErrBuildQuery, err)
	}

	var p domain.PromoCode
	var discountType string
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Code,
		&discountType,
		&p.DiscountPercent,
		&p.DiscountFlat,
		&p.MinBookingAmount,
		&p.MaxUses,
		&p.MaxUsesPerUser,
		&p.UsesCount,
		&p.ValidFrom,
		&p.ValidUntil,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan row: %w", ErrScanRow, err)
	}

	p.DiscountType = domain.DiscountType(discountType)
	return &p, nil
}

// CountUserApplications возвращает число применений промокода данным клиентом.
// Считаются только зафиксированные применения (завершенные бронирования).
func (r *Repository) CountUserApplications(ctx context.Context, promoID, customerID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("promo_usages").
		Where(squirrel.Eq{"promo_id": promoID, "customer_id": customerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUserApplications - build query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUserApplications - scan row: %w", ErrScanRow, err)
	}

	return count, nil
}

// RecordUsage фиксирует применение промокода завершенным бронированием и
// монотонно инкрементирует uses_count. Вызывается ровно один раз на переходе
// бронирования в completed.
func (r *Repository) RecordUsage(ctx context.Context, usage *domain.PromoUsage) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertQuery, insertArgs, err := psqlbuilder.Insert("promo_usages").
		Columns("promo_id", "customer_id", "booking_id", "discount", "created_at").
		Values(usage.PromoID, usage.CustomerID, usage.BookingID, int64(usage.Discount), usage.UsedAt).
		Suffix("ON CONFLICT (booking_id) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RecordUsage - build insert: %v", ErrBuildQuery, err)
	}

	// ON CONFLICT DO NOTHING делает фиксацию идемпотентной по бронированию:
	// повторный вызов не инкрементирует uses_count второй раз
	err = executor.QueryRowContext(ctx, insertQuery, insertArgs...).Scan(&usage.ID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: RecordUsage - execute insert: %w", ErrExecQuery, err)
	}

	updateQuery, updateArgs, err := psqlbuilder.Update("promo_codes").
		Set("uses_count", squirrel.Expr("uses_count + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": usage.PromoID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RecordUsage - build update: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return fmt.Errorf("%w: RecordUsage - increment uses: %w", ErrExecQuery, err)
	}

	return nil
}
