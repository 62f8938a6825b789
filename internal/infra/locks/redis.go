// Package locks распределенная per-key сериализация admission-проверок через Redis.
//
// Альтернатива сериализуемой транзакции для многоузловой конфигурации:
// ключ слота блокируется на время check-and-insert, занятый ключ означает
// конкурентный допуск и транслируется вызывающим кодом в транзиентную
// ошибку contention.
package locks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockBusy возвращается, когда хотя бы один из ключей уже заблокирован
// конкурентным допуском
var ErrLockBusy = errors.New("locks: slot key is locked by a concurrent admission")

// Locker интерфейс per-key сериализации admission-проверок
type Locker interface {
	WithSlotLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error
}

// NewRedisClient создает клиент Redis и проверяет соединение
func NewRedisClient(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("locks: ping redis: %w", err)
	}

	return rdb, nil
}

// RedisLocker блокирует ключи слотов через SetNX с TTL
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker создает locker с заданным TTL критической секции
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// WithSlotLocks берет блокировки по всем ключам (в отсортированном порядке,
// чтобы конкурентные мультикатегорийные допуски не взаимоблокировались),
// выполняет fn и снимает блокировки. Занятый ключ — ErrLockBusy без ожидания.
func (l *RedisLocker) WithSlotLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	token := uuid.NewString()
	acquired := make([]string, 0, len(sorted))

	release := func() {
		for _, key := range acquired {
			_ = l.unlock(ctx, lockKey(key), token)
		}
	}

	for _, key := range sorted {
		ok, err := l.client.SetNX(ctx, lockKey(key), token, l.ttl).Result()
		if err != nil {
			release()
			return fmt.Errorf("locks: acquire %s: %w", key, err)
		}
		if !ok {
			release()
			return fmt.Errorf("%w: key=%s", ErrLockBusy, key)
		}
		acquired = append(acquired, key)
	}

	defer release()

	fnCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(fnCtx)
}

func lockKey(key string) string {
	return "lock:slot:" + key
}

// unlockScript снимает блокировку только если токен совпадает —
// чужая блокировка (после истечения TTL) не снимается
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *RedisLocker) unlock(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("locks: release %s: %w", key, err)
	}
	return nil
}

// NopLocker выполняет fn без блокировок (одноузловая конфигурация,
// сериализация обеспечивается транзакцией БД)
type NopLocker struct{}

// WithSlotLocks выполняет fn напрямую
func (NopLocker) WithSlotLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
