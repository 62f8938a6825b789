package geoservice

import "errors"

var (
	// ErrNotServiceable возвращается, когда адрес вне зоны обслуживания
	ErrNotServiceable = errors.New("geoservice: location is not serviceable")

	// ErrServiceDegraded возвращается, когда геосервис недоступен
	// и ответить на запрос проверки невозможно
	ErrServiceDegraded = errors.New("geoservice: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе геосервиса
	ErrInvalidResponse = errors.New("geoservice: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("geoservice: internal error")
)
