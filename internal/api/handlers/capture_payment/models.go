package capture_payment

import (
	usecase "github.com/m04kA/SMC-DispatchService/internal/usecase/capture_payment"
)

// CapturePaymentRequest HTTP request model
type CapturePaymentRequest struct {
	CardToken string  `json:"cardToken"`
	TipAmount float64 `json:"tipAmount,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CapturePaymentRequest) ToUseCaseRequest(bookingID, customerID int64) *usecase.Request {
	return &usecase.Request{
		BookingID:  bookingID,
		CustomerID: customerID,
		CardToken:  r.CardToken,
		TipAmount:  r.TipAmount,
	}
}

// CapturePaymentResponse HTTP response model
type CapturePaymentResponse struct {
	BookingID      int64   `json:"bookingId"`
	PaymentStatus  string  `json:"paymentStatus"`
	AmountCaptured float64 `json:"amountCaptured"`
	Commission     float64 `json:"commission"`
	NetPayout      float64 `json:"netPayout"`
	GatewayTxID    string  `json:"gatewayTxId"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *usecase.Response) *CapturePaymentResponse {
	return &CapturePaymentResponse{
		BookingID:      resp.BookingID,
		PaymentStatus:  resp.PaymentStatus,
		AmountCaptured: resp.AmountCaptured,
		Commission:     resp.Commission,
		NetPayout:      resp.NetPayout,
		GatewayTxID:    resp.GatewayTxID,
	}
}
