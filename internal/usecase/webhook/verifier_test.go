package webhook_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/usecase/webhook"
)

const testSecret = "gateway-test-secret"

type fakeReceiptRepo struct {
	seen map[string]bool
	err  error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{seen: make(map[string]bool)}
}

func (r *fakeReceiptRepo) SaveReceipt(receipt *domain.WebhookReceipt) error {
	if r.err != nil {
		return r.err
	}
	if r.seen[receipt.EventKey] {
		return domain.ErrReplay
	}
	r.seen[receipt.EventKey] = true
	return nil
}

func (r *fakeReceiptRepo) DeleteByEventKey(eventKey string) error {
	delete(r.seen, eventKey)
	return nil
}

func (r *fakeReceiptRepo) PurgeOlderThan(cutoff time.Time) (int64, error) {
	return 0, nil
}

func newTestVerifier(t *testing.T, receipts domain.ReceiptRepository) *webhook.Verifier {
	t.Helper()
	v, err := webhook.NewVerifier(testSecret, []string{"10.0.0.0/8"}, 5*time.Minute, receipts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func signedPayload(t *testing.T, callback webhook.Callback) []byte {
	t.Helper()
	callback.Checksum = webhook.Sign(testSecret, &callback)
	payload, err := json.Marshal(callback)
	if err != nil {
		t.Fatal(err)
	}
	return payload
}

func testCallback(now time.Time) webhook.Callback {
	return webhook.Callback{
		OrderID:      "order-1",
		GatewayTxnID: "txn-1",
		Status:       "SUCCESS",
		Amount:       199.90,
		Currency:     "USD",
		Timestamp:    now.Unix(),
	}
}

func TestVerify_ShouldAcceptValidCallback(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, newFakeReceiptRepo())

	event, err := v.Verify("10.1.2.3", signedPayload(t, testCallback(now)), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.OrderID != "order-1" || event.GatewayTxnID != "txn-1" {
		t.Fatalf("wrong identity: %+v", event)
	}
	if event.Status != domain.GatewaySuccess {
		t.Fatalf("expected SUCCESS, got %s", event.Status)
	}
}

func TestVerify_ShouldRejectUnknownOrigin(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, newFakeReceiptRepo())

	_, err := v.Verify("192.168.1.1", signedPayload(t, testCallback(now)), now)
	if !errors.Is(err, domain.ErrUnauthorizedOrigin) {
		t.Fatalf("expected ErrUnauthorizedOrigin, got %v", err)
	}
}

func TestVerify_ShouldRejectTamperedPayload(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, newFakeReceiptRepo())

	callback := testCallback(now)
	callback.Checksum = webhook.Sign(testSecret, &callback)
	callback.Amount = 1.00 // tampered after signing
	payload, _ := json.Marshal(callback)

	_, err := v.Verify("10.1.2.3", payload, now)
	if !errors.Is(err, domain.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerify_ShouldRejectStaleTimestamp(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, newFakeReceiptRepo())

	callback := testCallback(now.Add(-time.Hour))
	_, err := v.Verify("10.1.2.3", signedPayload(t, callback), now)
	if !errors.Is(err, domain.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
}

func TestVerify_ShouldRejectFutureTimestamp(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, newFakeReceiptRepo())

	callback := testCallback(now.Add(time.Hour))
	_, err := v.Verify("10.1.2.3", signedPayload(t, callback), now)
	if !errors.Is(err, domain.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
}

func TestVerify_ShouldRejectReplay(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, newFakeReceiptRepo())
	payload := signedPayload(t, testCallback(now))

	if _, err := v.Verify("10.1.2.3", payload, now); err != nil {
		t.Fatalf("first delivery should pass: %v", err)
	}
	_, err := v.Verify("10.1.2.3", payload, now)
	if !errors.Is(err, domain.ErrReplay) {
		t.Fatalf("expected ErrReplay, got %v", err)
	}
}

func TestVerify_ShouldAcceptRetryWithNewTimestamp(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, newFakeReceiptRepo())

	if _, err := v.Verify("10.1.2.3", signedPayload(t, testCallback(now)), now); err != nil {
		t.Fatalf("first delivery should pass: %v", err)
	}

	// Same order and transaction but a fresh timestamp is a new event
	retry := testCallback(now.Add(30 * time.Second))
	if _, err := v.Verify("10.1.2.3", signedPayload(t, retry), now); err != nil {
		t.Fatalf("retried event should pass: %v", err)
	}
}

func TestVerify_ShouldRejectMalformedPayload(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, newFakeReceiptRepo())

	for _, payload := range [][]byte{
		[]byte("not json"),
		[]byte(`{"status":"SUCCESS"}`),
	} {
		_, err := v.Verify("10.1.2.3", payload, now)
		if !errors.Is(err, domain.ErrMalformedCallback) {
			t.Fatalf("expected ErrMalformedCallback for %q, got %v", payload, err)
		}
	}
}

func TestVerify_ShouldWrapStoreErrors(t *testing.T) {
	now := time.Now()
	receipts := newFakeReceiptRepo()
	receipts.err = errors.New("connection refused")
	v := newTestVerifier(t, receipts)

	_, err := v.Verify("10.1.2.3", signedPayload(t, testCallback(now)), now)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestNewVerifier_ShouldRejectInvalidCIDR(t *testing.T) {
	_, err := webhook.NewVerifier(testSecret, []string{"not-a-cidr"}, time.Minute, newFakeReceiptRepo())
	if err == nil {
		t.Fatal("expected error for invalid CIDR")
	}
}

func TestRejectReason_ShouldClassifyErrors(t *testing.T) {
	cases := []struct {
		err    error
		reason string
	}{
		{domain.ErrUnauthorizedOrigin, "unauthorized_origin"},
		{domain.ErrBadSignature, "bad_signature"},
		{domain.ErrMalformedCallback, "malformed"},
		{domain.ErrStale, "stale"},
		{domain.ErrReplay, "replay"},
		{errors.New("anything else"), "store_error"},
	}
	for _, tc := range cases {
		if got := webhook.RejectReason(tc.err); got != tc.reason {
			t.Errorf("RejectReason(%v) = %q, want %q", tc.err, got, tc.reason)
		}
	}
}
