package notify

// Routing keys событий жизненного цикла бронирования
const (
	EventBookingCreated   = "booking.created"
	EventBookingAccepted  = "booking.accepted"
	EventBookingDeclined  = "booking.declined"
	EventPaymentReceived  = "payment.received"
	EventJobStarted       = "job.started"
	EventJobCompleted     = "job.completed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent полезная нагрузка события жизненного цикла
type BookingEvent struct {
	BookingID     int64   `json:"booking_id"`
	ReferenceCode string  `json:"reference_code"`
	CustomerID    int64   `json:"customer_id"`
	ProviderID    int64   `json:"provider_id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}
