package find_providers

import "errors"

var (
	// ErrInvalidLocation возвращается при координатах вне допустимого диапазона
	ErrInvalidLocation = errors.New("find_providers: invalid job location coordinates")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_providers: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_providers: internal error")
)
