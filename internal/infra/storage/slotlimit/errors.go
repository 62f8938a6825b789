package slotlimit

import "errors"

var (
	// ErrLimitNotFound возвращается, когда лимит для категории не настроен
	ErrLimitNotFound = errors.New("slotlimit.repository: limit not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slotlimit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slotlimit.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slotlimit.repository: failed to scan row")
)
