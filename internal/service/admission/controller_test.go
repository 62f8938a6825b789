package admission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/txmanager"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeLimits struct {
	limits map[int64]int
}

func (f *fakeLimits) MaxConcurrent(ctx context.Context, categoryID int64) (*int, error) {
	if limit, ok := f.limits[categoryID]; ok {
		return &limit, nil
	}
	return nil, nil
}

func testKey(categoryID int64) domain.SlotKey {
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return domain.NewSlotKey(categoryID, date, types.Slot10to12)
}

func newTestController(limits map[int64]int) (*Controller, *MemStore) {
	store := NewMemStore()
	return NewController(store, &fakeLimits{limits: limits}, nopLogger{}), store
}

func TestController_TryAdmit_WithinLimit(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(map[int64]int{1: 2})
	keys := []domain.SlotKey{testKey(1)}

	require.NoError(t, c.TryAdmit(ctx, keys))
	require.NoError(t, c.TryAdmit(ctx, keys))

	err := c.TryAdmit(ctx, keys)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	count, err := store.Count(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestController_TryAdmit_ZeroLimitAlwaysRejects(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(map[int64]int{1: 0})

	err := c.TryAdmit(ctx, []domain.SlotKey{testKey(1)})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestController_TryAdmit_NoLimitConfigured(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(nil)
	keys := []domain.SlotKey{testKey(1)}

	for i := 0; i < 500; i++ {
		require.NoError(t, c.TryAdmit(ctx, keys))
	}
}

func TestController_TryAdmit_MultiKeyRollback(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(map[int64]int{1: 10, 2: 0})

	// Вторая категория закрыта: допуск "все или ничего" должен откатить первую
	err := c.TryAdmit(ctx, []domain.SlotKey{testKey(1), testKey(2)})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	count, err := store.Count(ctx, testKey(1))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestController_TryAdmit_ConcurrentNeverOverAdmits(t *testing.T) {
	ctx := context.Background()
	const limit = 2
	const attempts = 10

	c, store := newTestController(map[int64]int{1: limit})
	keys := []domain.SlotKey{testKey(1)}

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.TryAdmit(ctx, keys)
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for err := range results {
		if err == nil {
			admitted++
		} else {
			assert.ErrorIs(t, err, ErrCapacityExceeded)
		}
	}
	assert.Equal(t, limit, admitted)

	count, err := store.Count(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, limit, count)
}

func TestController_Release(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(map[int64]int{1: 1})
	keys := []domain.SlotKey{testKey(1)}

	require.NoError(t, c.TryAdmit(ctx, keys))
	assert.ErrorIs(t, c.TryAdmit(ctx, keys), ErrCapacityExceeded)

	require.NoError(t, c.Release(ctx, keys))
	require.NoError(t, c.TryAdmit(ctx, keys))

	count, err := store.Count(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemStore_ReleaseNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	key := testKey(1)

	require.NoError(t, store.Release(ctx, key))

	count, err := store.Count(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

type failingLimits struct{}

func (failingLimits) MaxConcurrent(ctx context.Context, categoryID int64) (*int, error) {
	return nil, errors.New("db down")
}

func TestController_TryAdmit_LimitLookupFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	c := NewController(store, failingLimits{}, nopLogger{})

	err := c.TryAdmit(ctx, []domain.SlotKey{testKey(1)})
	assert.ErrorIs(t, err, ErrInternal)
}

type failingStore struct {
	err error
}

func (f *failingStore) TryIncrement(ctx context.Context, key domain.SlotKey, limit int) (bool, error) {
	return false, f.err
}

func (f *failingStore) Release(ctx context.Context, key domain.SlotKey) error { return nil }

func (f *failingStore) Count(ctx context.Context, key domain.SlotKey) (int, error) { return 0, nil }

func TestController_TryAdmit_PreservesSerializationFailureCause(t *testing.T) {
	ctx := context.Background()

	// 40001 на уровне оператора (COUNT или INSERT внутри сериализуемой
	// транзакции), обернутый хранилищем занятости
	storeErr := fmt.Errorf("occupancy: count claims for key=%s: %w",
		testKey(1), &pq.Error{Code: "40001"})
	c := NewController(&failingStore{err: storeErr}, &fakeLimits{limits: map[int64]int{1: 5}}, nopLogger{})

	err := c.TryAdmit(ctx, []domain.SlotKey{testKey(1)})
	require.Error(t, err)

	// Причина не обрывается оберткой: менеджер транзакций должен
	// распознать конфликт и повторить транзакцию
	assert.ErrorIs(t, err, ErrInternal)
	assert.True(t, txmanager.IsSerializationFailure(err))
}
