package update_location

import "github.com/m04kA/SMC-DispatchService/pkg/geo"

// Request модель пинга координат от одной из сторон
type Request struct {
	BookingID int64           // ID бронирования
	UserID    int64           // ID отправителя (заказчик или исполнитель)
	Coords    geo.Coordinates // Текущие координаты
}

// Response модель ответа с состоянием proximity gate
type Response struct {
	BookingID         int64    // ID бронирования
	Role              string   // Роль отправителя на бронировании
	ProximityDetected bool     // Стороны сейчас в пределах порога
	DistanceMeters    *float64 // Расстояние между сторонами, если обе известны
	CanStartJob       bool     // Условие непрерывного пребывания выполнено
}
