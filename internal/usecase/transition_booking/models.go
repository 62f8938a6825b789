package transition_booking

import (
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// Request модель запроса на перевод бронирования в новый статус
type Request struct {
	BookingID    int64        // ID бронирования
	Actor        domain.Actor // Вызывающий (клиент, исполнитель или оператор)
	TargetStatus string       // Целевой статус

	ProviderID *int64  // ID исполнителя (обязателен для assigned_to_provider)
	Reason     *string // Причина (для cancelled и provider_rejected)
}

// Response модель ответа с бронированием после перехода
type Response struct {
	ID            int64          // ID бронирования
	BookingRef    string         // Номер бронирования
	CustomerID    int64          // ID клиента
	ProviderID    *int64         // ID исполнителя
	ScheduledDate time.Time      // Дата визита
	ScheduledSlot types.TimeSlot // Слот визита
	Status        string         // Статус после перехода
	TotalAmount   types.Money    // Итог к оплате
	UpdatedAt     time.Time      // Время обновления
}
