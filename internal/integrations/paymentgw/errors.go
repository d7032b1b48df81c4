package paymentgw

import "errors"

var (
	// ErrCaptureFailed возвращается, когда шлюз недоступен или не ответил
	// вовремя. Бронирование остается unpaid, вызывающему предлагается повторить.
	ErrCaptureFailed = errors.New("paymentgw client: capture failed")

	// ErrCaptureDeclined возвращается, когда шлюз отклонил списание
	ErrCaptureDeclined = errors.New("paymentgw client: capture declined")

	// ErrInvalidAmount возвращается при некорректной сумме списания
	ErrInvalidAmount = errors.New("paymentgw client: invalid amount")
)
