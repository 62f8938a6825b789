package admission

import "errors"

var (
	// ErrCapacityExceeded возвращается, когда слот заполнен до лимита категории.
	// Это ожидаемый бизнес-исход (клиент выбирает другой слот), а не внутренняя ошибка.
	ErrCapacityExceeded = errors.New("admission: slot capacity exceeded")

	// ErrInternal возвращается при ошибках хранилища занятости
	ErrInternal = errors.New("admission: internal error")
)
