package get_earnings_summary

import (
	"github.com/kmatv/HS-BookingService/internal/domain"
	"github.com/kmatv/HS-BookingService/pkg/types"
)

// Request модель запроса сводки взаиморасчетов исполнителя
type Request struct {
	ProviderID int64        // ID исполнителя
	Actor      domain.Actor // Вызывающий
}

// Response модель ответа со сводкой взаиморасчетов
type Response struct {
	ProviderID        int64 // ID исполнителя
	CompletedBookings int   // Число завершенных бронирований

	TotalRevenue     types.Money // Суммарная выручка завершенных бронирований
	TotalCommission  types.Money // Суммарная комиссия платформы
	TotalNetEarnings types.Money // Чистый заработок исполнителя

	CashCollectedByProvider types.Money // Наличные, собранные исполнителем
	NetFromOnlinePayments   types.Money // Доля исполнителя в онлайн-оплатах

	WithdrawnOrReserved types.Money // Выведено или зарезервировано заявками
	WithdrawableBalance types.Money // Доступно к выводу

	// Ровно одно из двух ненулевое (или оба нулевые при нулевом балансе)
	ProviderOwesAdmin types.Money // Исполнитель должен платформе
	AdminOwesProvider types.Money // Платформа должна исполнителю
}
