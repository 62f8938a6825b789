package paymentgateway

// PaymentStatus ответ платежного сервиса о статусе платежа по бронированию
type PaymentStatus struct {
	BookingRef string  `json:"bookingRef"`
	Verified   bool    `json:"verified"`
	PaymentID  *string `json:"paymentId,omitempty"`
}
