package capture_payment

// Request модель запроса на оплату бронирования
type Request struct {
	BookingID  int64   // ID бронирования
	CustomerID int64   // ID заказчика (должен совпадать с бронированием)
	CardToken  string  // Одноразовый токен карты от платежного виджета
	TipAmount  float64 // Чаевые сверх рассчитанной цены (опционально)
}

// Response модель ответа по факту захвата средств
type Response struct {
	BookingID      int64   // ID бронирования
	PaymentStatus  string  // Новый статус оплаты
	AmountCaptured float64 // Сумма, удержанная в эскроу (цена + чаевые)
	Commission     float64 // Комиссия платформы
	NetPayout      float64 // Сумма к выплате исполнителю до штрафов
	GatewayTxID    string  // ID транзакции платежного шлюза
}
