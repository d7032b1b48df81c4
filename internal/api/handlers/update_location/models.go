package update_location

import (
	usecase "github.com/m04kA/SMC-DispatchService/internal/usecase/update_location"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// UpdateLocationRequest HTTP request model
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *UpdateLocationRequest) ToUseCaseRequest(bookingID, userID int64) *usecase.Request {
	return &usecase.Request{
		BookingID: bookingID,
		UserID:    userID,
		Coords: geo.Coordinates{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
	}
}

// UpdateLocationResponse HTTP response model
type UpdateLocationResponse struct {
	BookingID         int64    `json:"bookingId"`
	Role              string   `json:"role"`
	ProximityDetected bool     `json:"proximityDetected"`
	DistanceMeters    *float64 `json:"distanceMeters,omitempty"`
	CanStartJob       bool     `json:"canStartJob"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *usecase.Response) *UpdateLocationResponse {
	return &UpdateLocationResponse{
		BookingID:         resp.BookingID,
		Role:              resp.Role,
		ProximityDetected: resp.ProximityDetected,
		DistanceMeters:    resp.DistanceMeters,
		CanStartJob:       resp.CanStartJob,
	}
}
