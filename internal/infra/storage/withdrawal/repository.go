package withdrawal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/dbmetrics"
	"github.com/kmatv/HS-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий заявок на вывод средств
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок на вывод
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заявку на вывод в статусе pending
func (r *Repository) Create(ctx context.Context, w *domain.WithdrawalRequest) (*domain.WithdrawalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("withdrawal_requests").
		Columns("provider_id", "amount", "status").
		Values(w.ProviderID, int64(w.Amount), string(domain.WithdrawalPending)).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert: %v", ErrBuildQuery, err)
	}

	var status string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&w.ID, &status, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	w.Status = domain.WithdrawalStatus(status)

	return w, nil
}

// GetByProvider возвращает все заявки исполнителя, новые первыми
func (r *Repository) GetByProvider(ctx context.Context, providerID int64) ([]*domain.WithdrawalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "provider_id", "amount", "status", "created_at", "updated_at").
		From("withdrawal_requests").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// UpdateStatus условно переводит заявку из статуса from в to
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.WithdrawalStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("withdrawal_requests").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrWithdrawalNotFound
	}

	return nil
}

func scanWithdrawals(rows *sql.Rows) ([]*domain.WithdrawalRequest, error) {
	result := make([]*domain.WithdrawalRequest, 0)
	for rows.Next() {
		var w domain.WithdrawalRequest
		var status string
		if err := rows.Scan(&w.ID, &w.ProviderID, &w.Amount, &status, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan withdrawal: %w", ErrScanRow, err)
		}
		w.Status = domain.WithdrawalStatus(status)
		result = append(result, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate withdrawals: %w", ErrExecQuery, err)
	}
	return result, nil
}
