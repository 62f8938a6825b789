package admission

import (
	"context"
	"sync"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// MemStore хранилище занятости в памяти процесса. Используется в одноузловой
// конфигурации и в тестах; в многоузловой конфигурации занятость считается
// по бронированиям в Postgres (internal/infra/occupancy).
type MemStore struct {
	mu     sync.Mutex
	counts map[domain.SlotKey]int
}

// NewMemStore создает пустое in-memory хранилище занятости
func NewMemStore() *MemStore {
	return &MemStore{counts: make(map[domain.SlotKey]int)}
}

// TryIncrement атомарно проверяет лимит и инкрементирует занятость ключа
func (s *MemStore) TryIncrement(ctx context.Context, key domain.SlotKey, limit int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.counts[key]
	if limit >= 0 && count >= limit {
		return false, nil
	}

	s.counts[key] = count + 1
	return true, nil
}

// Release возвращает одно место; занятость никогда не уходит в минус
func (s *MemStore) Release(ctx context.Context, key domain.SlotKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count := s.counts[key]; count > 0 {
		if count == 1 {
			delete(s.counts, key)
		} else {
			s.counts[key] = count - 1
		}
	}
	return nil
}

// Count возвращает текущую занятость ключа
func (s *MemStore) Count(ctx context.Context, key domain.SlotKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}
