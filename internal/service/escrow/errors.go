package escrow

import "errors"

var (
	// ErrNoEscrow возвращается, когда по бронированию нет эскроу-записи
	ErrNoEscrow = errors.New("escrow service: no escrow record for booking")

	// ErrAlreadyCaptured возвращается при повторном capture по бронированию
	ErrAlreadyCaptured = errors.New("escrow service: funds already captured")

	// ErrAlreadySettled возвращается, когда расчет уже выполнен:
	// release и refund одноразовы и необратимы
	ErrAlreadySettled = errors.New("escrow service: record already settled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("escrow service: internal error")
)
