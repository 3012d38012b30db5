package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/metrics"
)

// Promauto registers on the default registry, one instance per binary.
var testMetrics = metrics.NewPaymentMetrics()

type memLedger struct {
	mu       sync.Mutex
	attempts map[string]*domain.PaymentAttempt

	entitlements map[string]*domain.Entitlement

	failCreate      bool
	guardMisses     int
	failActivateTxn bool
}

func newMemLedger() *memLedger {
	return &memLedger{
		attempts:     make(map[string]*domain.PaymentAttempt),
		entitlements: make(map[string]*domain.Entitlement),
	}
}

func (l *memLedger) CreateAttempt(attempt *domain.PaymentAttempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failCreate {
		return errors.New("insert failed")
	}
	// Same constraint the database enforces: one open attempt per pair
	for _, existing := range l.attempts {
		if existing.PayerID == attempt.PayerID &&
			existing.EntitlementID == attempt.EntitlementID &&
			existing.Status == domain.StatusPending {
			return fmt.Errorf("%w: open attempt exists for pair", domain.ErrDuplicateAttempt)
		}
	}
	copied := *attempt
	l.attempts[attempt.OrderID] = &copied
	return nil
}

func (l *memLedger) GetAttemptByOrderID(orderID string) (*domain.PaymentAttempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	attempt, ok := l.attempts[orderID]
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	copied := *attempt
	return &copied, nil
}

func (l *memLedger) FindPendingByPair(payerID, entitlementID string) (*domain.PaymentAttempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Simulates a guard read that ran before the winner's insert landed
	if l.guardMisses > 0 {
		l.guardMisses--
		return nil, nil
	}
	for _, attempt := range l.attempts {
		if attempt.PayerID == payerID && attempt.EntitlementID == entitlementID && attempt.Status == domain.StatusPending {
			copied := *attempt
			return &copied, nil
		}
	}
	return nil, nil
}

func (l *memLedger) FindRecentCompletedByPair(payerID, entitlementID string, since time.Time) (*domain.PaymentAttempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, attempt := range l.attempts {
		if attempt.PayerID == payerID && attempt.EntitlementID == entitlementID &&
			attempt.Status == domain.StatusCompleted &&
			attempt.CompletedAt != nil && attempt.CompletedAt.After(since) {
			copied := *attempt
			return &copied, nil
		}
	}
	return nil, nil
}

func (l *memLedger) ListRecentByPayer(payerID string, since time.Time) ([]*domain.PaymentAttempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*domain.PaymentAttempt
	for _, attempt := range l.attempts {
		if attempt.PayerID == payerID && attempt.CreatedAt.After(since) {
			copied := *attempt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (l *memLedger) FindExpiredPending(now time.Time) ([]*domain.PaymentAttempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*domain.PaymentAttempt
	for _, attempt := range l.attempts {
		if attempt.Status == domain.StatusPending && attempt.ExpiresAt.Before(now) {
			copied := *attempt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (l *memLedger) MarkFailed(orderID, gatewayTxnID, rawPayload string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	attempt, ok := l.attempts[orderID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	attempt.Status = domain.StatusFailed
	attempt.GatewayTxnID = gatewayTxnID
	attempt.GatewayPayload = rawPayload
	return nil
}

func (l *memLedger) MarkExpired(orderID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	attempt, ok := l.attempts[orderID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	attempt.Status = domain.StatusExpired
	return nil
}

func (l *memLedger) ActivateAttempt(params *domain.ActivationParams) (domain.ActivationOutcome, *domain.PaymentAttempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failActivateTxn {
		l.failActivateTxn = false
		return domain.ActivationNotFound, nil, errors.New("connection reset during transaction")
	}

	attempt, ok := l.attempts[params.OrderID]
	if !ok {
		return domain.ActivationNotFound, nil, nil
	}
	if attempt.Status == domain.StatusCompleted {
		copied := *attempt
		return domain.ActivationAlreadyCompleted, &copied, nil
	}
	if attempt.Status != domain.StatusPending && attempt.Status != domain.StatusExpired {
		copied := *attempt
		return domain.ActivationConflict, &copied, nil
	}

	completedAt := params.CompletedAt
	attempt.Status = domain.StatusCompleted
	attempt.GatewayTxnID = params.GatewayTxnID
	attempt.GatewayPayload = params.RawPayload
	attempt.RiskScore = params.RiskScore
	attempt.RiskFactors = params.RiskFactors
	attempt.FlaggedForReview = params.FlaggedForReview
	attempt.CompletedAt = &completedAt

	if ent, ok := l.entitlements[attempt.EntitlementID]; ok {
		validUntil := completedAt.Add(params.Validity)
		ent.Status = domain.EntitlementActive
		ent.ValidFrom = &completedAt
		ent.ValidUntil = &validUntil
		ent.ActivatedByOrder = attempt.OrderID
	}

	copied := *attempt
	return domain.ActivationApplied, &copied, nil
}

func (l *memLedger) GetEntitlementByID(id string) (*domain.Entitlement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ent, ok := l.entitlements[id]
	if !ok {
		return nil, domain.ErrEntitlementNotFound
	}
	copied := *ent
	return &copied, nil
}

func (l *memLedger) pendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, attempt := range l.attempts {
		if attempt.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

type memPlans struct {
	plans map[string]*domain.RegistrationPlan
}

func (p *memPlans) GetPlanByID(id string) (*domain.RegistrationPlan, error) {
	plan, ok := p.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

type memReceipts struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemReceipts() *memReceipts {
	return &memReceipts{seen: make(map[string]bool)}
}

func (r *memReceipts) SaveReceipt(receipt *domain.WebhookReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[receipt.EventKey] {
		return domain.ErrReplay
	}
	r.seen[receipt.EventKey] = true
	return nil
}

func (r *memReceipts) DeleteByEventKey(eventKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seen, eventKey)
	return nil
}

func (r *memReceipts) PurgeOlderThan(cutoff time.Time) (int64, error) {
	return 0, nil
}

// memLocker mimics the Redis lock: try-acquire, token-checked release.
type memLocker struct {
	mu       sync.Mutex
	held     map[string]string
	releases int
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]string)}
}

func (l *memLocker) Acquire(ctx context.Context, payerID, entitlementID string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := payerID + ":" + entitlementID
	if _, busy := l.held[key]; busy {
		return "", domain.ErrLockBusy
	}
	token := uuid.New().String()
	l.held[key] = token
	return token, nil
}

func (l *memLocker) Release(ctx context.Context, payerID, entitlementID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := payerID + ":" + entitlementID
	if l.held[key] != token {
		return errors.New("lock not held by this token")
	}
	delete(l.held, key)
	l.releases++
	return nil
}

type fakeGateway struct {
	mu     sync.Mutex
	orders []string
	err    error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, orderID string, amount float64, currency, payerRef string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.orders = append(g.orders, orderID)
	return "https://gateway.test/pay/" + orderID, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	msgs   []domain.Message
}

func (p *fakePublisher) Publish(topic string, msgs ...domain.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.msgs = append(p.msgs, msgs...)
	return nil
}
