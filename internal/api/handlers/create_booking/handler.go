package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DispatchService/internal/api/handlers"
	"github.com/m04kA/SMC-DispatchService/internal/api/middleware"
	usecase "github.com/m04kA/SMC-DispatchService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidScheduledAt = "некорректное значение scheduledAt"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceNotBookable = "услуга недоступна для бронирования"
	msgCustomerNotFound   = "профиль заказчика не найден"
	msgInvalidSchedule    = "время выполнения должно быть в будущем"
	msgInvalidLocation    = "некорректные координаты места работы"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid scheduledAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduledAt)
		return
	}

	// Создаем бронирование
	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, usecase.ErrServiceNotBookable):
			h.logger.Warn("POST /bookings - Service not bookable: service_id=%d", req.ServiceID)
			handlers.RespondUnprocessable(w, msgServiceNotBookable)

		case errors.Is(err, usecase.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: user_id=%d", customerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, usecase.ErrInvalidSchedule):
			h.logger.Warn("POST /bookings - Scheduled time in the past: user_id=%d", customerID)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, usecase.ErrInvalidLocation):
			h.logger.Warn("POST /bookings - Invalid job location: user_id=%d", customerID)
			handlers.RespondBadRequest(w, msgInvalidLocation)

		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, ref=%s",
		resp.ID, resp.ReferenceCode)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
