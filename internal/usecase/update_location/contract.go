package update_location

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/internal/infra/storage/location"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SaveTracking(ctx context.Context, b *domain.Booking) error
}

// LocationStore интерфейс хранилища живых координат
type LocationStore interface {
	Save(ctx context.Context, bookingID int64, role domain.PartyRole, coords geo.Coordinates, observedAt time.Time) error
	Get(ctx context.Context, bookingID int64, role domain.PartyRole) (*location.Ping, bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
