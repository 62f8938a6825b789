package withdrawals

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrForbidden возвращается при обращении к чужим выводам средств
	ErrForbidden = errors.New("access denied")

	// ErrInsufficientBalance возвращается, когда запрошенная сумма превышает
	// доступный к выводу баланс
	ErrInsufficientBalance = errors.New("insufficient withdrawable balance")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("internal service error")
)
