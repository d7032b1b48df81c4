package capture_payment

import (
	"context"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/notify"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SavePayment(ctx context.Context, b *domain.Booking) error
}

// EscrowService интерфейс сервиса эскроу
type EscrowService interface {
	Open(ctx context.Context, bookingID int64, amount float64, gatewayTxID string) (*domain.EscrowRecord, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	Capture(ctx context.Context, amount float64, cardToken, bookingRef string) (string, error)
}

// Notifier интерфейс публикации событий жизненного цикла
type Notifier interface {
	Publish(ctx context.Context, key string, event notify.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
