package request

type InitiateRequest struct {
	PayerID       string  `json:"payer_id" binding:"required"`
	EntitlementID string  `json:"entitlement_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Currency      string  `json:"currency" binding:"required"`
	ParentOrderID string  `json:"parent_order_id"`
	DeviceID      string  `json:"device_id"`
}
