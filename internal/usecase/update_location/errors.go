package update_location

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_location: booking not found")

	// ErrAccessDenied возвращается, когда пинг шлет не сторона бронирования
	ErrAccessDenied = errors.New("update_location: access denied")

	// ErrNotTrackable возвращается, когда бронирование не в отслеживаемом
	// состоянии (до подтверждения или после завершения)
	ErrNotTrackable = errors.New("update_location: booking is not in a trackable state")

	// ErrInvalidLocation возвращается при координатах вне допустимого диапазона
	ErrInvalidLocation = errors.New("update_location: invalid coordinates")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_location: internal error")
)
