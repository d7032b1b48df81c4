package escrow

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	escrowRepo "github.com/m04kA/SMC-DispatchService/internal/infra/storage/escrow"
)

// Service расчеты по эскроу: удержание средств, комиссия, выплата, возврат
//
// Сервис никогда не меняет статусы бронирования: он возвращает суммы
// наверх, а переход paymentStatus выполняет вызывающий сервис бронирований.
type Service struct {
	repo           EscrowRepository
	commissionRate float64
	logger         Logger
}

// NewService создает сервис эскроу с фиксированной ставкой комиссии платформы
func NewService(repo EscrowRepository, commissionRate float64, logger Logger) *Service {
	return &Service{
		repo:           repo,
		commissionRate: commissionRate,
		logger:         logger,
	}
}

// Open открывает эскроу-запись по захваченной сумме
// commissionAmount + netPayoutAmount == amount.
func (s *Service) Open(ctx context.Context, bookingID int64, amount float64, gatewayTxID string) (*domain.EscrowRecord, error) {
	rec := domain.NewEscrowRecord(bookingID, amount, s.commissionRate, gatewayTxID)

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, escrowRepo.ErrAlreadyExists) {
			s.logger.Warn("Open: escrow already exists for booking=%d", bookingID)
			return nil, ErrAlreadyCaptured
		}
		s.logger.Error("Open: repository error for booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Open - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Open: escrow held for booking=%d, amount=%.2f, commission=%.2f, net=%.2f",
		bookingID, created.Amount, created.CommissionAmount, created.NetPayoutAmount)
	return created, nil
}

// GetByBookingID возвращает эскроу-запись бронирования
func (s *Service) GetByBookingID(ctx context.Context, bookingID int64) (*domain.EscrowRecord, error) {
	rec, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, escrowRepo.ErrRecordNotFound) {
			return nil, ErrNoEscrow
		}
		return nil, fmt.Errorf("%w: GetByBookingID - repository error: %v", ErrInternal, err)
	}
	return rec, nil
}

// Release выплачивает удержанные средства исполнителю
// Возвращает размер штрафа за SLA и итоговую выплату. Переход held->released
// одноразовый; повторный вызов вернет ErrAlreadySettled.
func (s *Service) Release(ctx context.Context, b *domain.Booking, sla domain.SLAPolicy) (penalty, payout float64, err error) {
	rec, err := s.repo.GetByBookingID(ctx, b.ID)
	if err != nil {
		if errors.Is(err, escrowRepo.ErrRecordNotFound) {
			return 0, 0, ErrNoEscrow
		}
		return 0, 0, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	if rec.IsSettled() {
		return 0, 0, ErrAlreadySettled
	}

	actual := b.EstimatedDurationMinutes
	if b.ActualDurationMinutes != nil {
		actual = *b.ActualDurationMinutes
	}
	fraction := sla.PenaltyFraction(b.EstimatedDurationMinutes, actual)
	penalty = rec.NetPayoutAmount * fraction
	payout = rec.NetPayoutAmount - penalty

	if err := s.repo.Release(ctx, b.ID); err != nil {
		if errors.Is(err, escrowRepo.ErrAlreadySettled) {
			return 0, 0, ErrAlreadySettled
		}
		return 0, 0, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Release: booking=%d, net=%.2f, penalty=%.2f, payout=%.2f",
		b.ID, rec.NetPayoutAmount, penalty, payout)
	return penalty, payout, nil
}

// Refund возвращает удержанные средства заказчику
func (s *Service) Refund(ctx context.Context, bookingID int64) error {
	if err := s.repo.Refund(ctx, bookingID); err != nil {
		switch {
		case errors.Is(err, escrowRepo.ErrRecordNotFound):
			return ErrNoEscrow
		case errors.Is(err, escrowRepo.ErrAlreadySettled):
			return ErrAlreadySettled
		default:
			return fmt.Errorf("%w: Refund - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Refund: booking=%d refunded", bookingID)
	return nil
}
