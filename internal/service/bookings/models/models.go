package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
)

// Location координаты в ответе сервиса
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BookingResponse модель бронирования для верхних слоев
type BookingResponse struct {
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

	CanStartJob      bool    `json:"canStartJob"`
	FirstProximityAt *string `json:"firstProximityAt,omitempty"`

	ProviderAcceptedAt *string `json:"providerAcceptedAt,omitempty"`
	ProviderDeclinedAt *string `json:"providerDeclinedAt,omitempty"`
	StartedAt          *string `json:"startedAt,omitempty"`
	CompletedAt        *string `json:"completedAt,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	DeclineReason      *string `json:"declineReason,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	ActualDurationMinutes *int    `json:"actualDurationMinutes,omitempty"`
	SLABreached           bool    `json:"slaBreached"`
	SLAPenaltyAmount      float64 `json:"slaPenaltyAmount"`
	ProviderPayoutAmount  float64 `json:"providerPayoutAmount"`

	RatingByCustomer *int    `json:"ratingByCustomer,omitempty"`
	ReviewByCustomer *string `json:"reviewByCustomer,omitempty"`
	RatingByProvider *int    `json:"ratingByProvider,omitempty"`
	ReviewByProvider *string `json:"reviewByProvider,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// GetUserBookingsRequest запрос истории бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64
	Status *string
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CallerID      int64
	Reason        string
	AdminOverride bool
}

// RateBookingRequest запрос на оценку бронирования
type RateBookingRequest struct {
	RaterID int64
	Rating  int
	Review  *string
}

// FromDomainBooking конвертирует доменную модель в ответ сервиса
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		ReferenceCode: b.ReferenceCode,

		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,

		Status:        string(b.Status),
		RequestStatus: string(b.RequestStatus),
		PaymentStatus: string(b.PaymentStatus),

		ScheduledAt:              b.ScheduledAt.Format(time.RFC3339),
		EstimatedDurationMinutes: b.EstimatedDurationMinutes,
		JobSize:                  string(b.JobSize),

		BasePrice:          b.BasePrice,
		JobSizeMultiplier:  b.JobSizeMultiplier,
		LocationMultiplier: b.LocationMultiplier,
		CalculatedPrice:    b.CalculatedPrice,

		JobLocation: Location{
			Latitude:  b.JobLocation.Latitude,
			Longitude: b.JobLocation.Longitude,
		},
		JobAddress: b.JobAddress,

		CanStartJob:      b.CanStartJob,
		FirstProximityAt: formatTime(b.FirstProximityAt),

		ProviderAcceptedAt: formatTime(b.ProviderAcceptedAt),
		ProviderDeclinedAt: formatTime(b.ProviderDeclinedAt),
		StartedAt:          formatTime(b.StartedAt),
		CompletedAt:        formatTime(b.CompletedAt),
		CancelledAt:        formatTime(b.CancelledAt),

		DeclineReason:      b.DeclineReason,
		CancellationReason: b.CancellationReason,

		ActualDurationMinutes: b.ActualDurationMinutes,
		SLABreached:           b.SLABreached,
		SLAPenaltyAmount:      b.SLAPenaltyAmount,
		ProviderPayoutAmount:  b.ProviderPayoutAmount,

		RatingByCustomer: b.RatingByCustomer,
		ReviewByCustomer: b.ReviewByCustomer,
		RatingByProvider: b.RatingByProvider,
		ReviewByProvider: b.ReviewByProvider,

		Notes: b.Notes,

		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainBookingList конвертирует список доменных моделей
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	out := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = FromDomainBooking(b)
	}
	return &BookingListResponse{
		Bookings: out,
		Total:    len(out),
	}
}

// ToDomainBookingStatus валидирует и конвертирует строковый статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	switch status {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusInProgress,
		domain.StatusCompleted, domain.StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
