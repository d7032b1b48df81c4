package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DispatchService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/notify"
	"github.com/m04kA/SMC-DispatchService/internal/service/bookings/models"
	escrowService "github.com/m04kA/SMC-DispatchService/internal/service/escrow"
)

// Service сервис переходов жизненного цикла бронирования
//
// Единственная точка, решающая, допустим ли переход. Каждый переход
// выполняется в сериализуемой транзакции с блокировкой строки бронирования:
// конкурирующие accept/decline, дубли платежных callback'ов и гонки
// location-пингов не могут перемешаться (условные UPDATE в репозитории
// страхуют дополнительно). События уведомлений публикуются только после
// фиксации перехода и best-effort.
type Service struct {
	bookingRepo  BookingRepository
	escrow       EscrowService
	txManager    TransactionManager
	notifier     Notifier
	sla          domain.SLAPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает сервис бронирований
func NewService(
	bookingRepo BookingRepository,
	escrow EscrowService,
	txManager TransactionManager,
	notifier Notifier,
	sla domain.SLAPolicy,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		escrow:       escrow,
		txManager:    txManager,
		notifier:     notifier,
		sla:          sla,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Доступно только сторонам бронирования.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, ok := booking.IsParty(userID); !ok {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Пользователь видит бронирования, где он заказчик или исполнитель.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Accept принимает заявку исполнителем
// Идемпотентен к повтору того же запроса: Accept по уже принятому
// бронированию возвращает текущее состояние без повторного штампа времени.
// Конкурирующий Decline проигрывает или выигрывает целиком (ровно один
// терминальный requestStatus).
func (s *Service) Accept(ctx context.Context, bookingID, providerID int64) (*models.BookingResponse, error) {
	s.logger.Info("Accept: booking id=%d by provider=%d", bookingID, providerID)

	var result *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.ProviderID != providerID {
			return ErrAccessDenied
		}

		// Повтор того же запроса: состояние уже достигнуто
		if booking.RequestStatus == domain.RequestAccepted {
			result = booking
			return nil
		}

		if err := booking.Accept(s.timeProvider.Now()); err != nil {
			return s.mapDomainError("Accept", bookingID, err)
		}

		if err := s.bookingRepo.SaveAcceptance(txCtx, booking); err != nil {
			return s.mapRepoError("Accept", bookingID, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, notify.EventBookingAccepted, result, 0, "")
	return models.FromDomainBooking(result), nil
}

// Decline отклоняет заявку исполнителем
// Если к этому моменту средства уже были захвачены, эскроу возвращает их.
func (s *Service) Decline(ctx context.Context, bookingID, providerID int64, reason string) (*models.BookingResponse, error) {
	s.logger.Info("Decline: booking id=%d by provider=%d", bookingID, providerID)

	if len(reason) > domain.MaxDeclineReasonLength {
		return nil, fmt.Errorf("%w: decline reason too long", ErrInvalidInput)
	}

	var result *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.ProviderID != providerID {
			return ErrAccessDenied
		}

		if booking.RequestStatus == domain.RequestDeclined {
			result = booking
			return nil
		}

		if err := booking.Decline(reason, s.timeProvider.Now()); err != nil {
			return s.mapDomainError("Decline", bookingID, err)
		}

		if err := s.bookingRepo.SaveDecline(txCtx, booking); err != nil {
			return s.mapRepoError("Decline", bookingID, err)
		}

		if err := s.refundIfPaid(txCtx, booking); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, notify.EventBookingDeclined, result, 0, reason)
	return models.FromDomainBooking(result), nil
}

// Start начинает работу
// Требует подтвержденного бронирования и выполненного proximity gate;
// неготовый gate - это precondition-ошибка, а не ошибка входных данных.
func (s *Service) Start(ctx context.Context, bookingID, providerID int64) (*models.BookingResponse, error) {
	s.logger.Info("Start: booking id=%d by provider=%d", bookingID, providerID)

	var result *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.ProviderID != providerID {
			return ErrAccessDenied
		}

		if booking.Status == domain.StatusInProgress {
			result = booking
			return nil
		}

		if err := booking.Start(s.timeProvider.Now()); err != nil {
			return s.mapDomainError("Start", bookingID, err)
		}

		if err := s.bookingRepo.SaveStart(txCtx, booking); err != nil {
			return s.mapRepoError("Start", bookingID, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, notify.EventJobStarted, result, 0, "")
	return models.FromDomainBooking(result), nil
}

// Complete завершает работу
// Фиксирует фактическую длительность, оценивает SLA и запускает выплату
// из эскроу (если средства были захвачены) с вычетом штрафа.
func (s *Service) Complete(ctx context.Context, bookingID, providerID int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: booking id=%d by provider=%d", bookingID, providerID)

	var result *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.ProviderID != providerID {
			return ErrAccessDenied
		}

		if booking.Status == domain.StatusCompleted {
			result = booking
			return nil
		}

		if err := booking.Complete(s.timeProvider.Now(), s.sla); err != nil {
			return s.mapDomainError("Complete", bookingID, err)
		}

		if err := s.bookingRepo.SaveCompletion(txCtx, booking); err != nil {
			return s.mapRepoError("Complete", bookingID, err)
		}

		// Выплата исполнителю, если средства удерживаются в эскроу
		if booking.PaymentStatus == domain.PaymentPaidToEscrow {
			penalty, payout, err := s.escrow.Release(txCtx, booking, s.sla)
			if err != nil {
				s.logger.Error("Complete: escrow release failed for booking id=%d: %v", bookingID, err)
				return fmt.Errorf("%w: Complete - escrow release: %v", ErrInternal, err)
			}

			if err := booking.MarkReleased(penalty, payout); err != nil {
				return s.mapDomainError("Complete", bookingID, err)
			}

			if err := s.bookingRepo.SaveSettlement(txCtx, booking); err != nil {
				return s.mapRepoError("Complete", bookingID, err)
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, notify.EventJobCompleted, result, result.ProviderPayoutAmount, "")
	return models.FromDomainBooking(result), nil
}

// Cancel отменяет бронирование
// Любая сторона может отменить до начала работы; после in_progress отмена
// доступна только с административным override. Захваченные средства
// возвращаются заказчику.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: booking id=%d by user=%d (adminOverride=%t)",
		bookingID, req.CallerID, req.AdminOverride)

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	var result *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		role, ok := booking.IsParty(req.CallerID)
		if !ok {
			return ErrAccessDenied
		}

		if booking.Status == domain.StatusCancelled {
			result = booking
			return nil
		}

		if err := booking.Cancel(role, req.Reason, req.AdminOverride, s.timeProvider.Now()); err != nil {
			return s.mapDomainError("Cancel", bookingID, err)
		}

		if err := s.bookingRepo.SaveCancellation(txCtx, booking); err != nil {
			return s.mapRepoError("Cancel", bookingID, err)
		}

		if err := s.refundIfPaid(txCtx, booking); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, notify.EventBookingCancelled, result, 0, req.Reason)
	return models.FromDomainBooking(result), nil
}

// Rate записывает оценку одной из сторон по завершенному бронированию
// Направления независимы; повторная оценка того же направления отклоняется.
func (s *Service) Rate(ctx context.Context, bookingID int64, req *models.RateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Rate: booking id=%d by user=%d, rating=%d", bookingID, req.RaterID, req.Rating)

	if req.Review != nil && len(*req.Review) > domain.MaxReviewLength {
		return nil, fmt.Errorf("%w: review too long", ErrInvalidInput)
	}

	var result *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		role, ok := booking.IsParty(req.RaterID)
		if !ok {
			return ErrAccessDenied
		}

		if err := booking.Rate(role, req.Rating, req.Review); err != nil {
			return s.mapDomainError("Rate", bookingID, err)
		}

		if err := s.bookingRepo.SaveRating(txCtx, booking); err != nil {
			return s.mapRepoError("Rate", bookingID, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(result), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("getBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// refundIfPaid возвращает средства заказчику, если они были захвачены
func (s *Service) refundIfPaid(ctx context.Context, booking *domain.Booking) error {
	if booking.PaymentStatus != domain.PaymentPaidToEscrow {
		return nil
	}

	if err := s.escrow.Refund(ctx, booking.ID); err != nil {
		// Уже рассчитанное эскроу не трогаем: release/refund одноразовы
		if errors.Is(err, escrowService.ErrAlreadySettled) {
			s.logger.Warn("refundIfPaid: escrow already settled for booking id=%d", booking.ID)
			return ErrInvalidStatus
		}
		s.logger.Error("refundIfPaid: escrow refund failed for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: refund failed: %v", ErrInternal, err)
	}

	if err := booking.MarkRefunded(); err != nil {
		return s.mapDomainError("refundIfPaid", booking.ID, err)
	}

	if err := s.bookingRepo.SaveSettlement(ctx, booking); err != nil {
		return s.mapRepoError("refundIfPaid", booking.ID, err)
	}

	return nil
}

// mapDomainError транслирует guard-ошибки домена в sentinel-ошибки сервиса
func (s *Service) mapDomainError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrProximityGateNotSatisfied):
		s.logger.Warn("%s: proximity gate not satisfied for booking id=%d", op, bookingID)
		return ErrProximityNotSatisfied
	case errors.Is(err, domain.ErrCannotCancel):
		s.logger.Warn("%s: booking id=%d cannot be cancelled", op, bookingID)
		return ErrCannotCancel
	case errors.Is(err, domain.ErrAlreadyRated):
		return ErrAlreadyRated
	case errors.Is(err, domain.ErrInvalidRating):
		return ErrInvalidRating
	case errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, domain.ErrNotAccepted),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrNotPaid),
		errors.Is(err, domain.ErrNotConfirmed),
		errors.Is(err, domain.ErrNotInProgress),
		errors.Is(err, domain.ErrNotCompleted),
		errors.Is(err, domain.ErrLocationNotTrackable):
		s.logger.Warn("%s: transition not allowed for booking id=%d: %v", op, bookingID, err)
		return ErrInvalidStatus
	default:
		// Нарушение инварианта: guard'ы выше должны были это исключить
		s.logger.Error("%s: unexpected domain error for booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
	}
}

// mapRepoError транслирует ошибки репозитория
// Конфликт условного UPDATE означает проигранную гонку за переход.
func (s *Service) mapRepoError(op string, bookingID int64, err error) error {
	if errors.Is(err, bookingRepo.ErrStatusConflict) {
		s.logger.Warn("%s: concurrent status change for booking id=%d", op, bookingID)
		return ErrInvalidStatus
	}
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// publish отправляет событие жизненного цикла best-effort
func (s *Service) publish(ctx context.Context, key string, b *domain.Booking, amount float64, reason string) {
	if s.notifier == nil {
		return
	}
	event := notify.BookingEvent{
		BookingID:     b.ID,
		ReferenceCode: b.ReferenceCode,
		CustomerID:    b.CustomerID,
		ProviderID:    b.ProviderID,
		Status:        string(b.Status),
		Amount:        amount,
		Reason:        reason,
	}
	if err := s.notifier.Publish(ctx, key, event); err != nil {
		// Доставка уведомлений best-effort, переход уже зафиксирован
		s.logger.Warn("publish: failed to publish %s for booking id=%d: %v", key, b.ID, err)
	}
}
