package capture_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DispatchService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/notify"
	gwClient "github.com/m04kA/SMC-DispatchService/internal/integrations/paymentgw"
	escrowService "github.com/m04kA/SMC-DispatchService/internal/service/escrow"
)

// UseCase use case для оплаты бронирования
//
// Захват средств в шлюзе выполняется ВНЕ транзакции БД: сетевой вызов с
// таймаутом не должен держать блокировку строки бронирования. Дубли и гонки
// гасятся внутри транзакции условным UPDATE по payment_status='unpaid' и
// уникальностью эскроу-записи по booking_id.
type UseCase struct {
	bookingRepo BookingRepository
	escrow      EscrowService
	gateway     PaymentGateway
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	escrow EscrowService,
	gateway PaymentGateway,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		escrow:      escrow,
		gateway:     gateway,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case оплаты бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CapturePayment: booking=%d, customer=%d, tip=%.2f",
		req.BookingID, req.CustomerID, req.TipAmount)

	// 1. Валидация входных данных
	if req.CardToken == "" {
		return nil, fmt.Errorf("%w: cardToken is required", ErrInvalidInput)
	}
	if req.TipAmount < 0 {
		return nil, fmt.Errorf("%w: tipAmount must not be negative", ErrInvalidInput)
	}

	// 2. Предварительная проверка состояния до обращения к шлюзу
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != req.CustomerID {
		uc.logger.Warn("CapturePayment: user=%d is not the customer of booking=%d",
			req.CustomerID, req.BookingID)
		return nil, ErrAccessDenied
	}
	if booking.RequestStatus != domain.RequestAccepted {
		return nil, ErrNotAccepted
	}
	if booking.PaymentStatus != domain.PaymentUnpaid {
		return nil, ErrAlreadyPaid
	}

	amount := booking.CalculatedPrice + req.TipAmount

	// 3. Захват средств в платежном шлюзе
	gatewayTxID, err := uc.gateway.Capture(ctx, amount, req.CardToken, booking.ReferenceCode)
	if err != nil {
		if errors.Is(err, gwClient.ErrCaptureDeclined) {
			uc.logger.Warn("CapturePayment: gateway declined capture for booking=%d", req.BookingID)
			return nil, ErrPaymentDeclined
		}
		uc.logger.Error("CapturePayment: gateway capture failed for booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: gateway capture failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CapturePayment: captured %.2f for booking=%d (gateway tx=%s)",
		amount, req.BookingID, gatewayTxID)

	var rec *domain.EscrowRecord
	var result *domain.Booking

	// 4. Фиксация оплаты в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := uc.getBooking(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		if err := b.MarkPaidToEscrow(); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotAccepted):
				return ErrNotAccepted
			case errors.Is(err, domain.ErrAlreadyPaid):
				return ErrAlreadyPaid
			default:
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}

		opened, err := uc.escrow.Open(txCtx, b.ID, amount, gatewayTxID)
		if err != nil {
			if errors.Is(err, escrowService.ErrAlreadyCaptured) {
				return ErrAlreadyPaid
			}
			return fmt.Errorf("%w: escrow open failed: %v", ErrInternal, err)
		}

		if err := uc.bookingRepo.SavePayment(txCtx, b); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrAlreadyPaid
			}
			return fmt.Errorf("%w: failed to save payment: %v", ErrInternal, err)
		}

		rec = opened
		result = b
		return nil
	})
	if err != nil {
		// Средства захвачены, но состояние не зафиксировано: конфликт требует
		// ручного разбора (возврат через шлюз), дубль безопасен
		if errors.Is(err, ErrAlreadyPaid) {
			uc.logger.Error("CapturePayment: capture %s for booking=%d conflicts with existing payment",
				gatewayTxID, req.BookingID)
		}
		return nil, err
	}

	// 5. Уведомление об оплате
	if uc.notifier != nil {
		event := notify.BookingEvent{
			BookingID:     result.ID,
			ReferenceCode: result.ReferenceCode,
			CustomerID:    result.CustomerID,
			ProviderID:    result.ProviderID,
			Status:        string(result.Status),
			Amount:        amount,
		}
		if err := uc.notifier.Publish(ctx, notify.EventPaymentReceived, event); err != nil {
			uc.logger.Warn("CapturePayment: failed to publish payment.received for booking=%d: %v",
				result.ID, err)
		}
	}

	return &Response{
		BookingID:      result.ID,
		PaymentStatus:  string(result.PaymentStatus),
		AmountCaptured: rec.Amount,
		Commission:     rec.CommissionAmount,
		NetPayout:      rec.NetPayoutAmount,
		GatewayTxID:    gatewayTxID,
	}, nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CapturePayment: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CapturePayment: failed to get booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return b, nil
}
