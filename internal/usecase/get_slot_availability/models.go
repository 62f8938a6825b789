package get_slot_availability

import (
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
)

// Request модель запроса доступности слотов категории на дату
type Request struct {
	CategoryID int64     // ID категории услуг
	Date       time.Time // Дата визита
}

// Response модель ответа с доступностью всех слотов каталога
type Response struct {
	CategoryID int64                     // ID категории
	Date       string                    // Дата в формате YYYY-MM-DD
	Slots      []domain.SlotAvailability // Доступность по каждому слоту каталога
}
