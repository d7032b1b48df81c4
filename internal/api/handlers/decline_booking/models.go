package decline_booking

// DeclineBookingRequest HTTP request model
type DeclineBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ReasonOrEmpty возвращает причину отказа или пустую строку
func (r *DeclineBookingRequest) ReasonOrEmpty() string {
	if r.Reason == nil {
		return ""
	}
	return *r.Reason
}
