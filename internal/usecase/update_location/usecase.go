package update_location

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DispatchService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// UseCase use case для обработки пинга координат
//
// Пинг пишется в Redis с TTL, затем в сериализуемой транзакции продвигается
// proximity gate на строке бронирования. Позиция второй стороны берется из
// Redis: истекший TTL означает, что позиция неизвестна, и gate по ней не
// считается, даже если на строке остались старые координаты.
type UseCase struct {
	bookingRepo  BookingRepository
	locations    LocationStore
	policy       domain.ProximityPolicy
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locations LocationStore,
	policy domain.ProximityPolicy,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		locations:    locations,
		policy:       policy,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case обработки пинга
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if !req.Coords.Valid() {
		return nil, ErrInvalidLocation
	}

	now := uc.timeProvider.Now()

	var resp *Response
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdateLocation: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateLocation: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		role, ok := booking.IsParty(req.UserID)
		if !ok {
			uc.logger.Warn("UpdateLocation: user=%d is not a party of booking id=%d",
				req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		// Свежий пинг в Redis
		if err := uc.locations.Save(txCtx, req.BookingID, role, req.Coords, now); err != nil {
			// Gate считается по строке бронирования, потеря пинга не критична
			uc.logger.Warn("UpdateLocation: failed to save ping for booking id=%d: %v",
				req.BookingID, err)
		}

		// Позиция второй стороны актуальна, только пока жив ее пинг
		uc.refreshCounterpart(txCtx, booking, role)

		proximity, err := booking.UpdateLiveLocation(role, req.Coords, uc.policy, now)
		if err != nil {
			if errors.Is(err, domain.ErrLocationNotTrackable) {
				return ErrNotTrackable
			}
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		if err := uc.bookingRepo.SaveTracking(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrNotTrackable
			}
			uc.logger.Error("UpdateLocation: failed to save tracking for booking id=%d: %v",
				req.BookingID, err)
			return fmt.Errorf("%w: failed to save tracking: %v", ErrInternal, err)
		}

		resp = &Response{
			BookingID:         booking.ID,
			Role:              string(role),
			ProximityDetected: proximity,
			DistanceMeters:    distanceBetween(booking),
			CanStartJob:       booking.CanStartJob,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.CanStartJob {
		uc.logger.Info("UpdateLocation: proximity gate satisfied for booking id=%d", req.BookingID)
	}

	return resp, nil
}

// refreshCounterpart подтягивает позицию второй стороны из Redis
// Нет живого пинга - позиция считается неизвестной.
func (uc *UseCase) refreshCounterpart(ctx context.Context, b *domain.Booking, role domain.PartyRole) {
	other := domain.RoleCustomer
	if role == domain.RoleCustomer {
		other = domain.RoleProvider
	}

	ping, found, err := uc.locations.Get(ctx, b.ID, other)
	if err != nil {
		uc.logger.Warn("UpdateLocation: failed to get %s ping for booking id=%d: %v", other, b.ID, err)
		return
	}

	var coords *geo.Coordinates
	if found {
		coords = &geo.Coordinates{Latitude: ping.Latitude, Longitude: ping.Longitude}
	}

	if other == domain.RoleCustomer {
		b.CustomerLocation = coords
	} else {
		b.ProviderLocation = coords
	}
}

func distanceBetween(b *domain.Booking) *float64 {
	if b.CustomerLocation == nil || b.ProviderLocation == nil {
		return nil
	}
	d := geo.DistanceMeters(*b.CustomerLocation, *b.ProviderLocation)
	return &d
}
