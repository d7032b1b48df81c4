package complete_job

import (
	"context"

	"github.com/m04kA/SMC-DispatchService/internal/service/bookings/models"
)

type BookingService interface {
	Complete(ctx context.Context, bookingID, providerID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
