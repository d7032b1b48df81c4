package cancel_booking

import (
	"github.com/m04kA/SMC-DispatchService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
// Признак административной отмены приходит не из тела запроса, а из
// заголовка, который выставляет только gateway.
func (r *CancelBookingRequest) ToServiceRequest(callerID int64, adminOverride bool) *models.CancelBookingRequest {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &models.CancelBookingRequest{
		CallerID:      callerID,
		Reason:        reason,
		AdminOverride: adminOverride,
	}
}
