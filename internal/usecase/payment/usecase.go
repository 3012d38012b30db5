package usecase

import (
	"context"
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/metrics"
	paymentdto "github.com/workhive/payment-integrity-service/internal/usecase/dto/payment"
	"github.com/workhive/payment-integrity-service/internal/usecase/risk"
	"github.com/workhive/payment-integrity-service/internal/usecase/webhook"
)

type PaymentUsecase interface {
	InitiatePayment(ctx context.Context, input *paymentdto.InitiatePaymentInput) (*paymentdto.InitiatePaymentOutput, error)
	HandleGatewayCallback(ctx context.Context, remoteIP string, payload []byte) error

	GetAttemptByOrderID(ctx context.Context, orderID string) (*domain.PaymentAttempt, error)

	ExpireStalePending(ctx context.Context) error
	PurgeOldReceipts(ctx context.Context) error
}

// Options are the operational tuning knobs; all of them come from
// config, none are hard-coded.
type Options struct {
	LockTTL          time.Duration
	PendingTimeout   time.Duration
	CompletedGrace   time.Duration
	ReceiptRetention time.Duration
	EventsTopic      string
}

type DefaultPaymentUsecase struct {
	Ledger       domain.LedgerRepository
	Entitlements domain.EntitlementRepository
	Plans        domain.PlanRepository
	Receipts     domain.ReceiptRepository
	Locker       domain.PaymentLocker
	Verifier     *webhook.Verifier
	Scorer       *risk.Scorer
	Gateway      domain.GatewayClient
	Publisher    domain.PublisherPort
	Metrics      *metrics.PaymentMetrics
	Opts         Options
}

func NewDefaultPaymentUsecase(
	ledger domain.LedgerRepository,
	entitlements domain.EntitlementRepository,
	plans domain.PlanRepository,
	receipts domain.ReceiptRepository,
	locker domain.PaymentLocker,
	verifier *webhook.Verifier,
	scorer *risk.Scorer,
	gatewayClient domain.GatewayClient,
	kafkaPublisher domain.PublisherPort,
	paymentMetrics *metrics.PaymentMetrics,
	opts Options) *DefaultPaymentUsecase {

	return &DefaultPaymentUsecase{
		Ledger:       ledger,
		Entitlements: entitlements,
		Plans:        plans,
		Receipts:     receipts,
		Locker:       locker,
		Verifier:     verifier,
		Scorer:       scorer,
		Gateway:      gatewayClient,
		Publisher:    kafkaPublisher,
		Metrics:      paymentMetrics,
		Opts:         opts,
	}
}
