package escrow

import (
	"context"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
)

// EscrowRepository интерфейс репозитория эскроу-записей
type EscrowRepository interface {
	Create(ctx context.Context, rec *domain.EscrowRecord) (*domain.EscrowRecord, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.EscrowRecord, error)
	Release(ctx context.Context, bookingID int64) error
	Refund(ctx context.Context, bookingID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
