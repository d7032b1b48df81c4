package find_providers

import (
	"context"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/internal/service/pricing"
)

// ProviderRepository интерфейс репозитория исполнителей
type ProviderRepository interface {
	ListOnline(ctx context.Context) ([]*domain.ProviderSnapshot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveByProvider(ctx context.Context, providerID int64) (int, error)
}

// PricingService интерфейс движка ценообразования
type PricingService interface {
	Quote(basePrice float64, jobSize domain.JobSize, address *string) (*pricing.Quote, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
