package pricing

import "errors"

var (
	// ErrInvalidBasePrice возвращается при отрицательной или не-конечной
	// базовой цене. Это ошибка данных каталога, а не запроса клиента.
	ErrInvalidBasePrice = errors.New("pricing: invalid base price")
)
