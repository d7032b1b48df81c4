package decline_booking

import (
	"context"

	"github.com/m04kA/SMC-DispatchService/internal/service/bookings/models"
)

type BookingService interface {
	Decline(ctx context.Context, bookingID, providerID int64, reason string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
