package paymentgw

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного шлюза поверх Omise
//
// Единственная операция - Capture: списать сумму и вернуть ID транзакции.
// Таймаут ограничен настройкой клиента; таймаут трактуется как неуспешное
// списание, а не как неопределенное состояние.
type Client struct {
	omc      *omise.Client
	currency string
	log      Logger
}

// NewClient создает клиента шлюза
func NewClient(publicKey, secretKey, currency string, timeout time.Duration, log Logger) (*Client, error) {
	omc, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: create omise client: %v", ErrCaptureFailed, err)
	}
	omc.Timeout = timeout

	return &Client{
		omc:      omc,
		currency: currency,
		log:      log,
	}, nil
}

// Capture списывает amount (в основных денежных единицах) с карты cardToken
// и возвращает ID транзакции шлюза. bookingRef уходит в metadata для сверки.
func (c *Client) Capture(ctx context.Context, amount float64, cardToken, bookingRef string) (string, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fmt.Errorf("%w: amount=%f", ErrInvalidAmount, amount)
	}

	// Шлюз принимает сумму в минорных единицах
	amountMinor := int64(math.Round(amount * 100))

	charge := &omise.Charge{}
	err := c.omc.Do(charge, &operations.CreateCharge{
		Amount:   amountMinor,
		Currency: c.currency,
		Card:     cardToken,
		Metadata: map[string]interface{}{"booking_ref": bookingRef},
	})
	if err != nil {
		c.log.Error("Capture: gateway error for booking_ref=%s: %v", bookingRef, err)
		return "", fmt.Errorf("%w: booking_ref=%s: %v", ErrCaptureFailed, bookingRef, err)
	}

	switch string(charge.Status) {
	case "successful":
		c.log.Info("Capture: charge %s successful, booking_ref=%s, amount_minor=%d",
			charge.ID, bookingRef, amountMinor)
		return charge.ID, nil
	case "failed":
		reason := "unknown"
		if charge.FailureMessage != nil {
			reason = *charge.FailureMessage
		}
		c.log.Warn("Capture: charge %s declined, booking_ref=%s: %s", charge.ID, bookingRef, reason)
		return "", fmt.Errorf("%w: booking_ref=%s: %s", ErrCaptureDeclined, bookingRef, reason)
	default:
		// pending / awaiting_authorize: подтверждения нет, значит списания нет
		c.log.Warn("Capture: charge %s in non-final status %s, booking_ref=%s",
			charge.ID, charge.Status, bookingRef)
		return "", fmt.Errorf("%w: booking_ref=%s: charge status %s", ErrCaptureFailed, bookingRef, charge.Status)
	}
}
