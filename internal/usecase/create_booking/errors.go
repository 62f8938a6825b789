package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается при некорректной дате визита
	ErrInvalidDate = errors.New("create_booking: invalid scheduled date")

	// ErrOutsideServiceArea возвращается, когда адрес вне зоны обслуживания
	ErrOutsideServiceArea = errors.New("create_booking: address is outside the service area")

	// ErrServiceAreaUnavailable возвращается, когда проверка зоны обслуживания
	// недоступна и конфигурация запрещает пропуск без проверки
	ErrServiceAreaUnavailable = errors.New("create_booking: serviceability check is unavailable")

	// ErrPromoRejected возвращается, когда промокод не может быть применен
	ErrPromoRejected = errors.New("create_booking: promo code rejected")

	// ErrSlotCapacityExceeded возвращается, когда хотя бы у одной категории
	// не осталось мест на выбранный слот
	ErrSlotCapacityExceeded = errors.New("create_booking: slot capacity exceeded")

	// ErrAdmissionContention возвращается, когда конкурентные допуски по слоту
	// не удалось упорядочить за отведенное число повторов
	ErrAdmissionContention = errors.New("create_booking: concurrent admission contention, retry the request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
