package models

import "time"

type WebhookReceiptModel struct {
	ID             string `gorm:"primaryKey"`
	EventKey       string `gorm:"uniqueIndex;not null"` // hash of (order, txn, timestamp)
	OrderID        string `gorm:"index;type:uuid"`
	GatewayTxnID   string
	EventTimestamp time.Time
	ReceivedAt     time.Time `gorm:"index"`
	Outcome        string
}

func (WebhookReceiptModel) TableName() string {
	return "webhook_receipts"
}
