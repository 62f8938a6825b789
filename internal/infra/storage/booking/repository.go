package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/dbmetrics"
	"github.com/kmatv/HS-BookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"booking_ref",
	"customer_id",
	"category_id",
	"scheduled_date",
	"scheduled_slot",
	"items",
	"visiting_charge",
	"platform_fees",
	"discount_code",
	"discount_amount",
	"sub_total",
	"tax_amount",
	"total_amount",
	"payment_method",
	"gateway_order_id",
	"gateway_payment_id",
	"notes",
	"status",
	"provider_id",
	"is_reviewed",
	"capacity_released",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе со строками занятости слотов
// (booking_slot_claims) — по одной на каждую категорию бронирования.
// Вызывается внутри сериализуемой транзакции usecase создания бронирования:
// проверка занятости и вставка должны быть неделимы для одного ключа слота.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	itemsJSON, err := json.Marshal(b.Items)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal items: %v", ErrBuildQuery, err)
	}
	feesJSON, err := json.Marshal(b.PlatformFees)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal platform fees: %v", ErrBuildQuery, err)
	}
	var visitingJSON []byte
	if b.VisitingCharge != nil {
		visitingJSON, err = json.Marshal(b.VisitingCharge)
		if err != nil {
			return nil, fmt.Errorf("%w: Create - marshal visiting charge: %v", ErrBuildQuery, err)
		}
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_ref",
			"customer_id",
			"category_id",
			"scheduled_date",
			"scheduled_slot",
			"items",
			"visiting_charge",
			"platform_fees",
			"discount_code",
			"discount_amount",
			"sub_total",
			"tax_amount",
			"total_amount",
			"payment_method",
			"gateway_order_id",
			"notes",
			"status",
			"provider_id",
		).
		Values(
			b.BookingRef,
			b.CustomerID,
			b.CategoryID,
			b.ScheduledDate,
			b.ScheduledSlot,
			itemsJSON,
			nullableBytes(visitingJSON),
			feesJSON,
			b.DiscountCode,
			int64(b.DiscountAmount),
			int64(b.SubTotal),
			int64(b.TaxAmount),
			int64(b.TotalAmount),
			string(b.PaymentMethod),
			b.GatewayOrderID,
			b.Notes,
			string(b.Status),
			b.ProviderID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	// Строки занятости: по одной на каждый ключ слота бронирования
	for _, key := range b.SlotKeys() {
		claimQuery, claimArgs, err := psqlbuilder.Insert("booking_slot_claims").
			Columns("booking_id", "category_id", "scheduled_date", "scheduled_slot").
			Values(b.ID, key.CategoryID, key.Date, key.TimeSlot).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build claim insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, claimQuery, claimArgs...); err != nil {
			return nil, fmt.Errorf("%w: Create - insert slot claim: %w", ErrExecQuery, err)
		}
	}

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return scanBooking(executor.QueryRowContext(ctx, query, args...))
}

// GetByCustomer получает бронирования клиента, опционально по статусу
func (r *Repository) GetByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": filter.CustomerID}).
		OrderBy("scheduled_date DESC, created_at DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByProvider получает бронирования исполнителя с фильтрацией по статусу и периоду
func (r *Repository) GetByProvider(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"provider_id": filter.ProviderID}).
		OrderBy("scheduled_date DESC, created_at DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"scheduled_date": *filter.EndDate})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetCompletedByProvider получает завершенные бронирования исполнителя —
// входные данные движка взаиморасчетов
func (r *Repository) GetCompletedByProvider(ctx context.Context, providerID int64) ([]*domain.Booking, error) {
	status := domain.StatusCompleted
	return r.GetByProvider(ctx, domain.ProviderBookingsFilter{
		ProviderID: providerID,
		Status:     &status,
	})
}

// UpdateStatus условно переводит бронирование из статуса from в to.
// Обновление срабатывает только если текущий статус равен from — из двух
// конкурентных переходов побеждает ровно один (ErrStatusConflict проигравшему).
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args)
}

// Confirm переводит бронирование в confirmed и фиксирует ссылку платежа
func (r *Repository) Confirm(ctx context.Context, id int64, from domain.BookingStatus, gatewayPaymentID *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusConfirmed)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)})

	if gatewayPaymentID != nil {
		updateBuilder = updateBuilder.Set("gateway_payment_id", *gatewayPaymentID)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args)
}

// AssignProvider назначает исполнителя и переводит бронирование в assigned_to_provider.
// Допустимо из confirmed и из provider_rejected (повторное назначение после отказа).
func (r *Repository) AssignProvider(ctx context.Context, id int64, providerID int64, from domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusAssigned)).
		Set("provider_id", providerID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AssignProvider - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args)
}

// Complete переводит бронирование в completed и открывает возможность отзыва.
// Финансовые поля с этого момента заморожены как вход движка взаиморасчетов.
func (r *Repository) Complete(ctx context.Context, id int64, from domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusCompleted)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args)
}

// Cancel условно отменяет бронирование и удаляет его строки занятости.
// capacity_released ставится ровно один раз победителем условного обновления;
// повторная отмена (retry) упирается в ErrStatusConflict и не освобождает
// слот второй раз.
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := cancelQuery(id, from, reason)
	if err != nil {
		return fmt.Errorf("%w: Cancel - build query: %v", ErrBuildQuery, err)
	}

	var cancelled int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&cancelled); err != nil {
		return fmt.Errorf("%w: Cancel - execute: %w", ErrExecQuery, err)
	}
	if cancelled == 0 {
		return ErrStatusConflict
	}
	return nil
}

// cancelQuery строит отмену одним SQL-оператором: условное обновление статуса
// и удаление claim-строк идут в общих CTE, поэтому состояние "бронирование
// отменено, а строки занятости живы" невозможно даже при сбое процесса.
// Итоговый SELECT возвращает число сработавших обновлений (0 или 1).
func cancelQuery(id int64, from domain.BookingStatus, reason *string) (string, []interface{}, error) {
	return psqlbuilder.Select("COUNT(*)").
		From("cancelled").
		Prefix(
			"WITH cancelled AS ("+
				"UPDATE bookings SET status = ?, capacity_released = TRUE, cancellation_reason = ?, "+
				"cancelled_at = now(), updated_at = now() "+
				"WHERE id = ? AND status = ? RETURNING id), "+
				"released AS ("+
				"DELETE FROM booking_slot_claims WHERE booking_id IN (SELECT id FROM cancelled))",
			string(domain.StatusCancelled), reason, id, string(from),
		).
		ToSql()
}

// MarkReviewed отмечает бронирование как отрецензированное клиентом
func (r *Repository) MarkReviewed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("is_reviewed", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(domain.StatusCompleted)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReviewed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args)
}

// OccupancyByDate возвращает занятость по всем ключам на дату для
// операционного дашборда
func (r *Repository) OccupancyByDate(ctx context.Context, date time.Time) ([]domain.SlotOccupancy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("category_id", "scheduled_slot", "COUNT(*)").
		From("booking_slot_claims").
		Where(squirrel.Eq{"scheduled_date": date.Format(domain.DateFormat)}).
		GroupBy("category_id", "scheduled_slot").
		OrderBy("category_id ASC, scheduled_slot ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OccupancyByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupancyByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.SlotOccupancy, 0)
	dateStr := date.Format(domain.DateFormat)
	for rows.Next() {
		var occ domain.SlotOccupancy
		if err := rows.Scan(&occ.CategoryID, &occ.TimeSlot, &occ.Count); err != nil {
			return nil, fmt.Errorf("%w: OccupancyByDate - scan row: %w", ErrScanRow, err)
		}
		occ.Date = dateStr
		result = append(result, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupancyByDate - rows error: %w", ErrExecQuery, err)
	}

	return result, nil
}

// OccupancyForCategoryDate возвращает занятость категории на дату по слотам
func (r *Repository) OccupancyForCategoryDate(ctx context.Context, categoryID int64, date time.Time) (map[string]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("scheduled_slot", "COUNT(*)").
		From("booking_slot_claims").
		Where(squirrel.Eq{
			"category_id":    categoryID,
			"scheduled_date": date.Format(domain.DateFormat),
		}).
		GroupBy("scheduled_slot").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OccupancyForCategoryDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupancyForCategoryDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var slot string
		var count int
		if err := rows.Scan(&slot, &count); err != nil {
			return nil, fmt.Errorf("%w: OccupancyForCategoryDate - scan row: %w", ErrScanRow, err)
		}
		counts[slot] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupancyForCategoryDate - rows error: %w", ErrExecQuery, err)
	}

	return counts, nil
}

// execConditional выполняет условное обновление и транслирует "0 строк"
// в ErrStatusConflict
func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, query string, args []interface{}) error {
	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: execute conditional update: %w", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrStatusConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку bookings в доменную модель
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var itemsJSON, feesJSON []byte
	var visitingJSON []byte
	var status, paymentMethod string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.BookingRef,
		&b.CustomerID,
		&b.CategoryID,
		&b.ScheduledDate,
		&b.ScheduledSlot,
		&itemsJSON,
		&visitingJSON,
		&feesJSON,
		&b.DiscountCode,
		&b.DiscountAmount,
		&b.SubTotal,
		&b.TaxAmount,
		&b.TotalAmount,
		&paymentMethod,
		&b.GatewayOrderID,
		&b.GatewayPaymentID,
		&b.Notes,
		&status,
		&b.ProviderID,
		&b.IsReviewedByCustomer,
		&b.CapacityReleased,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan booking: %w", ErrScanRow, err)
	}

	b.Status = domain.BookingStatus(status)
	b.PaymentMethod = domain.PaymentMethod(paymentMethod)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	if err := json.Unmarshal(itemsJSON, &b.Items); err != nil {
		return nil, fmt.Errorf("%w: unmarshal items: %v", ErrScanRow, err)
	}
	if err := json.Unmarshal(feesJSON, &b.PlatformFees); err != nil {
		return nil, fmt.Errorf("%w: unmarshal platform fees: %v", ErrScanRow, err)
	}
	if len(visitingJSON) > 0 {
		var charge domain.ChargeLine
		if err := json.Unmarshal(visitingJSON, &charge); err != nil {
			return nil, fmt.Errorf("%w: unmarshal visiting charge: %v", ErrScanRow, err)
		}
		b.VisitingCharge = &charge
	}

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate bookings: %w", ErrExecQuery, err)
	}
	return result, nil
}

func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
