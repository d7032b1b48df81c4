package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/notify"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/userservice"
	"github.com/m04kA/SMC-DispatchService/internal/service/pricing"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// UserServiceClient интерфейс клиента UserService
type UserServiceClient interface {
	GetProfile(ctx context.Context, userID int64) (*userservice.Profile, error)
	UpdateDefaultLocation(ctx context.Context, userID int64, coords geo.Coordinates, address *string) error
}

// PricingService интерфейс движка ценообразования
type PricingService interface {
	Quote(basePrice float64, jobSize domain.JobSize, address *string) (*pricing.Quote, error)
}

// Notifier интерфейс публикации событий жизненного цикла
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
