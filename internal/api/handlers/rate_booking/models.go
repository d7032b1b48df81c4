package rate_booking

import (
	"github.com/m04kA/SMC-DispatchService/internal/service/bookings/models"
)

// RateBookingRequest HTTP request model
type RateBookingRequest struct {
	Rating int     `json:"rating"`
	Review *string `json:"review,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RateBookingRequest) ToServiceRequest(raterID int64) *models.RateBookingRequest {
	return &models.RateBookingRequest{
		RaterID: raterID,
		Rating:  r.Rating,
		Review:  r.Review,
	}
}
