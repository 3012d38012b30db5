package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/workhive/payment-integrity-service/internal/domain"
)

// Callback is the gateway's wire format.
type Callback struct {
	OrderID      string  `json:"order_id"`
	GatewayTxnID string  `json:"transaction_id"`
	Status       string  `json:"status"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Timestamp    int64   `json:"timestamp"`
	Checksum     string  `json:"checksum"`
}

// Verifier authenticates inbound gateway callbacks. Each check is a
// hard gate, in order: origin, signature, freshness, replay. A rejected
// callback produces no state change.
type Verifier struct {
	secret      []byte
	allowedNets []*net.IPNet
	freshness   time.Duration
	receipts    domain.ReceiptRepository
}

func NewVerifier(secret string, allowedCIDRs []string, freshness time.Duration, receipts domain.ReceiptRepository) (*Verifier, error) {
	nets := make([]*net.IPNet, 0, len(allowedCIDRs))
	for _, cidr := range allowedCIDRs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid gateway CIDR %q: %w", cidr, err)
		}
		nets = append(nets, ipNet)
	}

	return &Verifier{
		secret:      []byte(secret),
		allowedNets: nets,
		freshness:   freshness,
		receipts:    receipts,
	}, nil
}

func (v *Verifier) Verify(remoteIP string, payload []byte, now time.Time) (*domain.VerifiedEvent, error) {
	// 1. Origin gate, independent of payload content
	if !v.originAllowed(remoteIP) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorizedOrigin, remoteIP)
	}

	var callback Callback
	if err := json.Unmarshal(payload, &callback); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCallback, err)
	}
	if callback.OrderID == "" || callback.GatewayTxnID == "" || callback.Timestamp == 0 {
		return nil, fmt.Errorf("%w: missing identity fields", domain.ErrMalformedCallback)
	}

	// 2. Signature gate, constant-time compare
	expected := v.checksum(&callback)
	received, err := hex.DecodeString(callback.Checksum)
	if err != nil || !hmac.Equal(expected, received) {
		return nil, domain.ErrBadSignature
	}

	// 3. Freshness gate, stale regardless of novelty
	eventTime := time.Unix(callback.Timestamp, 0)
	age := now.Sub(eventTime)
	if age > v.freshness || age < -v.freshness {
		return nil, fmt.Errorf("%w: event aged %s", domain.ErrStale, age)
	}

	// 4. Replay gate: the receipt insert is atomic, a duplicate
	// identity comes back as ErrReplay
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	eventKey := EventKey(callback.OrderID, callback.GatewayTxnID, callback.Timestamp)
	receipt := &domain.WebhookReceipt{
		ID:             idGenerator(),
		EventKey:       eventKey,
		OrderID:        callback.OrderID,
		GatewayTxnID:   callback.GatewayTxnID,
		EventTimestamp: eventTime,
		ReceivedAt:     now,
		Outcome:        "accepted",
	}
	if err := v.receipts.SaveReceipt(receipt); err != nil {
		if errors.Is(err, domain.ErrReplay) {
			return nil, domain.ErrReplay
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return &domain.VerifiedEvent{
		OrderID:      callback.OrderID,
		GatewayTxnID: callback.GatewayTxnID,
		Status:       domain.GatewayStatus(callback.Status),
		Amount:       callback.Amount,
		Currency:     callback.Currency,
		Timestamp:    eventTime,
		RawPayload:   string(payload),
		EventKey:     eventKey,
	}, nil
}

func (v *Verifier) originAllowed(remoteIP string) bool {
	ip := net.ParseIP(remoteIP)
	if ip == nil {
		return false
	}
	for _, ipNet := range v.allowedNets {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

func (v *Verifier) checksum(callback *Callback) []byte {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%s|%s|%s|%.2f|%s|%d",
		callback.OrderID, callback.GatewayTxnID, callback.Status,
		callback.Amount, callback.Currency, callback.Timestamp)
	return mac.Sum(nil)
}

// Sign computes the checksum the gateway is expected to send. Shared
// with tests and local gateway stubs.
func Sign(secret string, callback *Callback) string {
	v := &Verifier{secret: []byte(secret)}
	return hex.EncodeToString(v.checksum(callback))
}

// EventKey collapses the callback identity tuple into the replay key.
func EventKey(orderID, txnID string, timestamp int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", orderID, txnID, timestamp)))
	return hex.EncodeToString(sum[:])
}

// RejectReason classifies a verification error for audit logging.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorizedOrigin):
		return "unauthorized_origin"
	case errors.Is(err, domain.ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, domain.ErrMalformedCallback):
		return "malformed"
	case errors.Is(err, domain.ErrStale):
		return "stale"
	case errors.Is(err, domain.ErrReplay):
		return "replay"
	default:
		return "store_error"
	}
}
