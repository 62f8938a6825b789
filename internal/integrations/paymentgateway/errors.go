package paymentgateway

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж по бронированию не найден
	ErrPaymentNotFound = errors.New("paymentgateway: payment not found")

	// ErrInvalidResponse возвращается при некорректном ответе платежного сервиса
	ErrInvalidResponse = errors.New("paymentgateway: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentgateway: internal error")
)
