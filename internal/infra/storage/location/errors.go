package location

import "errors"

var (
	// ErrStore возвращается при ошибках Redis
	ErrStore = errors.New("location.store: redis error")

	// ErrEncode возвращается при ошибке сериализации координат
	ErrEncode = errors.New("location.store: failed to encode location")
)
