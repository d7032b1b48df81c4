package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	catalogClient "github.com/m04kA/SMC-DispatchService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/notify"
	userClient "github.com/m04kA/SMC-DispatchService/internal/integrations/userservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogServiceClient
	userClient    UserServiceClient
	pricing       PricingService
	notifier      Notifier
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogServiceClient,
	userClient UserServiceClient,
	pricingService PricingService,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		userClient:    userClient,
		pricing:       pricingService,
		notifier:      notifier,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Цена рассчитывается и фиксируется на бронировании один раз, здесь:
// basePrice x jobSizeMultiplier x locationMultiplier. Последующие изменения
// таблиц множителей на уже созданные бронирования не влияют.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, service=%d, scheduledAt=%s, jobSize=%s",
		req.CustomerID, req.ServiceID, req.ScheduledAt.Format("2006-01-02 15:04"), req.JobSize)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Профиль заказчика (для write-back локации по умолчанию)
	profile, err := uc.userClient.GetProfile(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, userClient.ErrProfileNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d profile not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get profile for customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer profile: %v", ErrInternal, err)
	}

	// 3. Услуга из каталога: исполнитель, базовая цена, базовая длительность
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("CreateBooking: service id=%d is not bookable (approved=%t, active=%t)",
			req.ServiceID, service.Approved, service.Active)
		return nil, ErrServiceNotBookable
	}

	// 4. Снапшот цены
	quote, err := uc.pricing.Quote(service.BasePrice, domain.JobSize(req.JobSize), req.JobAddress)
	if err != nil {
		uc.logger.Error("CreateBooking: pricing failed for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
	}

	// Оценка длительности масштабируется размером работы так же, как цена
	estimatedDuration := int(math.Round(float64(service.BaseDurationMinutes) * quote.JobSizeMultiplier))
	if estimatedDuration < 1 {
		estimatedDuration = 1
	}

	var result *domain.Booking

	// 5. Создание в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			ReferenceCode: newReferenceCode(),
			CustomerID:    req.CustomerID,
			ProviderID:    service.ProviderID,
			ServiceID:     req.ServiceID,

			Status:        domain.StatusPending,
			RequestStatus: domain.RequestPending,
			PaymentStatus: domain.PaymentUnpaid,

			ScheduledAt:              req.ScheduledAt,
			EstimatedDurationMinutes: estimatedDuration,
			JobSize:                  quote.JobSize,

			BasePrice:          quote.BasePrice,
			JobSizeMultiplier:  quote.JobSizeMultiplier,
			LocationMultiplier: quote.LocationMultiplier,
			CalculatedPrice:    quote.CalculatedPrice,

			JobLocation: req.JobLocation,
			JobAddress:  req.JobAddress,
			Notes:       req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d (ref=%s, price=%.2f)",
		result.ID, result.ReferenceCode, result.CalculatedPrice)

	// 6. Write-back локации в профиль, если заказчик бронирует впервые
	if !profile.HasDefaultLocation() {
		if err := uc.userClient.UpdateDefaultLocation(ctx, req.CustomerID, req.JobLocation, req.JobAddress); err != nil {
			// Best-effort: бронирование уже создано
			uc.logger.Warn("CreateBooking: failed to write back default location for customer id=%d: %v",
				req.CustomerID, err)
		}
	}

	// 7. Уведомление исполнителя о новой заявке
	if uc.notifier != nil {
		event := notify.BookingEvent{
			BookingID:     result.ID,
			ReferenceCode: result.ReferenceCode,
			CustomerID:    result.CustomerID,
			ProviderID:    result.ProviderID,
			Status:        string(result.Status),
			Amount:        result.CalculatedPrice,
		}
		if err := uc.notifier.Publish(ctx, notify.EventBookingCreated, event); err != nil {
			uc.logger.Warn("CreateBooking: failed to publish booking.created for id=%d: %v", result.ID, err)
		}
	}

	return toResponse(result), nil
}

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if !req.ScheduledAt.After(now) {
		return ErrInvalidSchedule
	}
	if !req.JobLocation.Valid() || req.JobLocation.IsZero() {
		return ErrInvalidLocation
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long", ErrInvalidInput)
	}
	return nil
}

// newReferenceCode генерирует человекочитаемый код бронирования
func newReferenceCode() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:            b.ID,
		ReferenceCode: b.ReferenceCode,

		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,

		Status:        string(b.Status),
		RequestStatus: string(b.RequestStatus),
		PaymentStatus: string(b.PaymentStatus),

		ScheduledAt:              b.ScheduledAt,
		EstimatedDurationMinutes: b.EstimatedDurationMinutes,
		JobSize:                  string(b.JobSize),

		BasePrice:          b.BasePrice,
		JobSizeMultiplier:  b.JobSizeMultiplier,
		LocationMultiplier: b.LocationMultiplier,
		CalculatedPrice:    b.CalculatedPrice,

		JobLocation: b.JobLocation,
		JobAddress:  b.JobAddress,
		Notes:       b.Notes,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
