package create_booking

import (
	"time"

	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID  int64           // ID заказчика
	ServiceID   int64           // ID услуги из каталога
	ScheduledAt time.Time       // Желаемое время выполнения
	JobSize     string          // Размер работы (small/medium/large)
	JobLocation geo.Coordinates // Координаты места выполнения
	JobAddress  *string         // Адрес места выполнения (опционально)
	Notes       *string         // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64  // ID созданного бронирования
	ReferenceCode string // Человекочитаемый код бронирования

	CustomerID int64 // ID заказчика
	ProviderID int64 // ID исполнителя (из каталога услуг)
	ServiceID  int64 // ID услуги

	Status        string // Статус работы
	RequestStatus string // Статус заявки у исполнителя
	PaymentStatus string // Статус оплаты

	ScheduledAt              time.Time // Время выполнения
	EstimatedDurationMinutes int       // Оценка длительности
	JobSize                  string    // Размер работы

	// Снапшот ценообразования
	BasePrice          float64
	JobSizeMultiplier  float64
	LocationMultiplier float64
	CalculatedPrice    float64

	JobLocation geo.Coordinates
	JobAddress  *string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
