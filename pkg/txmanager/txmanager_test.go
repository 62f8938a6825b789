package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/pkg/dbmetrics"
)

type stubTx struct {
	beginner *stubBeginner
}

func (t *stubTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *stubTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *stubTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *stubTx) Commit() error {
	t.beginner.commits++
	return nil
}

func (t *stubTx) Rollback() error {
	t.beginner.rollbacks++
	return nil
}

type stubBeginner struct {
	begins    int
	commits   int
	rollbacks int
}

func (b *stubBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	return &stubTx{beginner: b}, nil
}

// serializationFailure собирает ошибку в том виде, в котором она доходит из
// репозитория: 40001 на уровне оператора, обернутый sentinel-ошибкой слоя
// хранилища.
func serializationFailure(sentinel error) error {
	return fmt.Errorf("%w: execute conditional update: %w", sentinel, &pq.Error{Code: "40001"})
}

func TestDoSerializable_RetriesStatementLevelSerializationFailure(t *testing.T) {
	db := &stubBeginner{}
	m := NewTransactionManager(db)
	errStore := errors.New("storage: exec query failed")

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return serializationFailure(errStore)
		}
		return nil
	})
	require.NoError(t, err)

	// Конфликт внутри транзакции (не только на commit) должен повторяться
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, db.begins)
	assert.Equal(t, 1, db.commits)
	assert.Equal(t, 2, db.rollbacks)
}

func TestDoSerializable_RetryBudgetExhausted(t *testing.T) {
	db := &stubBeginner{}
	m := NewTransactionManager(db)
	errStore := errors.New("storage: exec query failed")

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return serializationFailure(errStore)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailure)
	assert.Equal(t, maxRetries, attempts)
}

func TestDoSerializable_NonRetriableErrorNotRetried(t *testing.T) {
	db := &stubBeginner{}
	m := NewTransactionManager(db)
	errBusiness := errors.New("bookings: capacity exceeded")

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, db.begins)
	assert.Equal(t, 1, db.rollbacks)
}

func TestDoSerializable_NestedCallReusesTransaction(t *testing.T) {
	db := &stubBeginner{}
	m := NewTransactionManager(db)

	innerRan := false
	err := m.DoSerializable(context.Background(), func(txCtx context.Context) error {
		require.True(t, dbmetrics.IsInTransaction(txCtx))
		return m.DoSerializable(txCtx, func(ctx context.Context) error {
			innerRan = true
			assert.True(t, dbmetrics.IsInTransaction(ctx))
			return nil
		})
	})
	require.NoError(t, err)

	assert.True(t, innerRan)
	assert.Equal(t, 1, db.begins)
	assert.Equal(t, 1, db.commits)
}

func TestIsSerializationFailure(t *testing.T) {
	errStore := errors.New("storage: exec query failed")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "raw 40001", err: &pq.Error{Code: "40001"}, want: true},
		{name: "raw deadlock 40P01", err: &pq.Error{Code: "40P01"}, want: true},
		{name: "wrapped once", err: fmt.Errorf("booking: insert: %w", &pq.Error{Code: "40001"}), want: true},
		{name: "wrapped with sentinel chain", err: serializationFailure(errStore), want: true},
		{name: "other sqlstate", err: &pq.Error{Code: "23505"}, want: false},
		{name: "plain error", err: errStore, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationFailure(tt.err))
		})
	}
}
