package domain

// Business validation constants
const (
	MinConcurrentBookings       = 0 // 0 закрывает категорию для записи
	MaxConcurrentBookingsLimit  = 100
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxLineItemsPerBooking      = 20
	MaxQuantityPerItem          = 50
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот.
// Используется при подсчете occupancy: отмена — единственный способ
// освободить место, provider_rejected слот не освобождает.
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
