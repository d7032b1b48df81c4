package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/notify"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	SaveAcceptance(ctx context.Context, b *domain.Booking) error
	SaveDecline(ctx context.Context, b *domain.Booking) error
	SaveStart(ctx context.Context, b *domain.Booking) error
	SaveCompletion(ctx context.Context, b *domain.Booking) error
	SaveSettlement(ctx context.Context, b *domain.Booking) error
	SaveCancellation(ctx context.Context, b *domain.Booking) error
	SaveRating(ctx context.Context, b *domain.Booking) error
}

// EscrowService интерфейс сервиса эскроу
type EscrowService interface {
	Release(ctx context.Context, b *domain.Booking, sla domain.SLAPolicy) (penalty, payout float64, err error)
	Refund(ctx context.Context, bookingID int64) error
}

// Notifier интерфейс публикации событий жизненного цикла
// Доставка best-effort: ошибки публикации логируются и не откатывают переход.
type Notifier interface {
	Publish(ctx context.Context, key string, event notify.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
