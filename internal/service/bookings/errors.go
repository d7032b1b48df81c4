package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings service: booking not found")

	// ErrAccessDenied возвращается, когда вызывающий не является стороной
	// бронирования или действие недоступно его роли
	ErrAccessDenied = errors.New("bookings service: access denied")

	// ErrInvalidStatus возвращается, когда переход недопустим из текущего
	// состояния (конфликт, а не ошибка входных данных)
	ErrInvalidStatus = errors.New("bookings service: transition not allowed in current state")

	// ErrProximityNotSatisfied возвращается при попытке начать работу
	// до выполнения условия по совместному нахождению на месте
	ErrProximityNotSatisfied = errors.New("bookings service: proximity dwell requirement not satisfied")

	// ErrCannotCancel возвращается, когда бронирование уже нельзя отменить
	// обычным действием клиента
	ErrCannotCancel = errors.New("bookings service: booking cannot be cancelled")

	// ErrAlreadyRated возвращается при повторной оценке той же стороной
	ErrAlreadyRated = errors.New("bookings service: booking already rated by this party")

	// ErrInvalidRating возвращается при оценке вне диапазона 1..5
	ErrInvalidRating = errors.New("bookings service: rating must be between 1 and 5")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings service: internal error")
)
