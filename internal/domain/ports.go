package domain

import "context"

// GatewayClient creates the hosted payment order the payer is
// redirected to. Downstream of the gating logic: called only after the
// pending attempt is on the ledger.
type GatewayClient interface {
	CreateOrder(ctx context.Context, orderID string, amount float64, currency, payerRef string) (string, error)
}
