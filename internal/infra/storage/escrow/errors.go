package escrow

import "errors"

var (
	// ErrRecordNotFound возвращается, когда эскроу-запись не найдена
	ErrRecordNotFound = errors.New("escrow.repository: record not found")

	// ErrAlreadyExists возвращается при попытке открыть вторую эскроу-запись
	// по одному бронированию
	ErrAlreadyExists = errors.New("escrow.repository: record already exists for booking")

	// ErrAlreadySettled возвращается, когда запись уже released или refunded:
	// расчет по бронированию выполняется ровно один раз
	ErrAlreadySettled = errors.New("escrow.repository: record already settled")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("escrow.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("escrow.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("escrow.repository: failed to scan row")
)
