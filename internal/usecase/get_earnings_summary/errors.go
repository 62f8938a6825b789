package get_earnings_summary

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_earnings_summary: invalid input data")

	// ErrForbidden возвращается, когда вызывающий запрашивает чужую сводку
	ErrForbidden = errors.New("get_earnings_summary: access denied")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_earnings_summary: internal error")
)
