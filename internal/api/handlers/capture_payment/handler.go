package capture_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DispatchService/internal/api/handlers"
	"github.com/m04kA/SMC-DispatchService/internal/api/middleware"
	usecase "github.com/m04kA/SMC-DispatchService/internal/usecase/capture_payment"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgNotAccepted        = "заявка еще не принята исполнителем"
	msgAlreadyPaid        = "бронирование уже оплачено"
	msgPaymentDeclined    = "платеж отклонен"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CapturePaymentUseCase
	logger  Logger
}

func NewHandler(useCase CapturePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req CapturePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, customerID))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, usecase.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment - Access denied: booking_id=%d, user_id=%d",
				bookingID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, usecase.ErrNotAccepted):
			h.logger.Warn("POST /bookings/{id}/payment - Not accepted yet: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgNotAccepted)

		case errors.Is(err, usecase.ErrAlreadyPaid):
			h.logger.Warn("POST /bookings/{id}/payment - Already paid: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyPaid)

		case errors.Is(err, usecase.ErrPaymentDeclined):
			h.logger.Warn("POST /bookings/{id}/payment - Payment declined: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgPaymentDeclined)

		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/payment - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/payment - Failed to capture payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment - Payment captured: booking_id=%d, amount=%.2f",
		bookingID, resp.AmountCaptured)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
