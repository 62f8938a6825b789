package create_booking

import (
	"time"

	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// BillingPolicy ценовая политика платформы, с которой создаются бронирования
type BillingPolicy struct {
	DefaultTaxRatePercent float64              // Ставка налога для позиций без явной ставки
	VisitingCharge        *domain.ChargeInput  // Плата за выезд (опционально)
	PlatformFees          []domain.ChargeInput // Платформенные сборы
	StrictServiceability  bool                 // Отклонять бронирования при недоступном геосервисе
}

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID    int64                  // ID клиента
	ScheduledDate time.Time              // Дата визита (без времени)
	ScheduledSlot types.TimeSlot         // Слот визита (например, "08:00 AM - 10:00 AM")
	Items         []domain.LineItemInput // Позиции заказа
	PromoCode     *string                // Промокод (опционально)
	PaymentMethod string                 // Способ оплаты: cash | online
	Latitude      *float64               // Координаты адреса визита (опционально)
	Longitude     *float64
	Notes         *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64                    // ID созданного бронирования
	BookingRef     string                   // Человекочитаемый номер бронирования
	CustomerID     int64                    // ID клиента
	CategoryID     int64                    // Основная категория (первая позиция заказа)
	ScheduledDate  time.Time                // Дата визита
	ScheduledSlot  types.TimeSlot           // Слот визита
	Status         string                   // Статус бронирования
	PaymentMethod  string                   // Способ оплаты
	Items          []domain.ServiceLineItem // Позиции с разложением база/налог
	VisitingCharge *domain.ChargeLine       // Плата за выезд
	PlatformFees   []domain.ChargeLine      // Платформенные сборы

	SubTotal       types.Money // Сумма позиций (база, до налога)
	DiscountCode   *string     // Примененный промокод
	DiscountAmount types.Money // Сумма скидки
	TaxAmount      types.Money // Суммарный налог
	TotalAmount    types.Money // Итог к оплате

	Notes     *string   // Заметки
	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
