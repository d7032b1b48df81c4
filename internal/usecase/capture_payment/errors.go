package capture_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("capture_payment: booking not found")

	// ErrAccessDenied возвращается, когда платит не заказчик бронирования
	ErrAccessDenied = errors.New("capture_payment: access denied")

	// ErrNotAccepted возвращается при оплате до принятия заявки исполнителем
	ErrNotAccepted = errors.New("capture_payment: booking is not accepted by provider")

	// ErrAlreadyPaid возвращается при повторной оплате того же бронирования
	ErrAlreadyPaid = errors.New("capture_payment: booking is already paid")

	// ErrPaymentDeclined возвращается, когда платежный шлюз отклонил списание
	ErrPaymentDeclined = errors.New("capture_payment: payment declined by gateway")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("capture_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("capture_payment: internal error")
)
