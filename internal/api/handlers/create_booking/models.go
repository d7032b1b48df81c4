package create_booking

import (
	"time"

	usecase "github.com/m04kA/SMC-DispatchService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// Location координаты в HTTP-моделях
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID   int64    `json:"serviceId"`
	ScheduledAt string   `json:"scheduledAt"` // RFC3339
	JobSize     string   `json:"jobSize"`
	JobLocation Location `json:"jobLocation"`
	JobAddress  *string  `json:"jobAddress,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*usecase.Request, error) {
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	return &usecase.Request{
		CustomerID:  customerID,
		ServiceID:   r.ServiceID,
		ScheduledAt: scheduledAt,
		JobSize:     r.JobSize,
		JobLocation: geo.Coordinates{
			Latitude:  r.JobLocation.Latitude,
			Longitude: r.JobLocation.Longitude,
		},
		JobAddress: r.JobAddress,
		Notes:      r.Notes,
	}, nil
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID            int64  `json:"id"`
	ReferenceCode string `json:"referenceCode"`

	CustomerID int64 `json:"customerId"`
	ProviderID int64 `json:"providerId"`
	ServiceID  int64 `json:"serviceId"`

	Status        string `json:"status"`
	RequestStatus string `json:"requestStatus"`
	PaymentStatus string `json:"paymentStatus"`

	ScheduledAt              string `json:"scheduledAt"`
	EstimatedDurationMinutes int    `json:"estimatedDurationMinutes"`
	JobSize                  string `json:"jobSize"`

	BasePrice          float64 `json:"basePrice"`
	JobSizeMultiplier  float64 `json:"jobSizeMultiplier"`
	LocationMultiplier float64 `json:"locationMultiplier"`
	CalculatedPrice    float64 `json:"calculatedPrice"`

	JobLocation Location `json:"jobLocation"`
	JobAddress  *string  `json:"jobAddress,omitempty"`
	Notes       *string  `json:"notes,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *usecase.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:            resp.ID,
		ReferenceCode: resp.ReferenceCode,

		CustomerID: resp.CustomerID,
		ProviderID: resp.ProviderID,
		ServiceID:  resp.ServiceID,

		Status:        resp.Status,
		RequestStatus: resp.RequestStatus,
		PaymentStatus: resp.PaymentStatus,

		ScheduledAt:              resp.ScheduledAt.Format(time.RFC3339),
		EstimatedDurationMinutes: resp.EstimatedDurationMinutes,
		JobSize:                  resp.JobSize,

		BasePrice:          resp.BasePrice,
		JobSizeMultiplier:  resp.JobSizeMultiplier,
		LocationMultiplier: resp.LocationMultiplier,
		CalculatedPrice:    resp.CalculatedPrice,

		JobLocation: Location{
			Latitude:  resp.JobLocation.Latitude,
			Longitude: resp.JobLocation.Longitude,
		},
		JobAddress: resp.JobAddress,
		Notes:      resp.Notes,

		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
