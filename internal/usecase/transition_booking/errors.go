package transition_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrForbidden возвращается, когда вызывающий не вправе выполнять переход
	ErrForbidden = errors.New("transition_booking: actor is not allowed to perform this transition")

	// ErrInvalidTransition возвращается при переходе, запрещенном жизненным
	// циклом бронирования (включая проигрыш конкурентному переходу)
	ErrInvalidTransition = errors.New("transition_booking: transition is not allowed")

	// ErrProviderRequired возвращается при назначении без указания исполнителя
	ErrProviderRequired = errors.New("transition_booking: providerId is required for assignment")

	// ErrPaymentNotConfirmed возвращается, когда платеж онлайн-бронирования
	// не подтвержден платежным сервисом
	ErrPaymentNotConfirmed = errors.New("transition_booking: payment is not confirmed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
