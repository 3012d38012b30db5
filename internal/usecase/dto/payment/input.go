package paymentdto

type InitiatePaymentInput struct {
	PayerID       string
	EntitlementID string
	Amount        float64
	Currency      string
	ParentOrderID string
	ClientParams
}

type ClientParams struct {
	ClientIP string
	DeviceID string
}
