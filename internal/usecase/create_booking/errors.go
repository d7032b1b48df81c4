package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceNotBookable возвращается, когда услуга не одобрена или отключена
	ErrServiceNotBookable = errors.New("create_booking: service is not bookable")

	// ErrCustomerNotFound возвращается, когда профиль заказчика не найден
	ErrCustomerNotFound = errors.New("create_booking: customer profile not found")

	// ErrInvalidSchedule возвращается, когда желаемое время в прошлом
	ErrInvalidSchedule = errors.New("create_booking: scheduled time is in the past")

	// ErrInvalidLocation возвращается при координатах вне допустимого диапазона
	ErrInvalidLocation = errors.New("create_booking: invalid job location coordinates")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
