package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/workhive/payment-integrity-service/internal/domain"
	publisher "github.com/workhive/payment-integrity-service/internal/infrastructure/kafka"
	paymentdto "github.com/workhive/payment-integrity-service/internal/usecase/dto/payment"
)

// InitiatePayment opens a new payment attempt for (payer, entitlement).
// The whole flow runs under the distributed payment lock, so two
// concurrent requests for the same pair serialize: one creates the
// attempt, the other hits the idempotency guard.
func (uc *DefaultPaymentUsecase) InitiatePayment(ctx context.Context, input *paymentdto.InitiatePaymentInput) (*paymentdto.InitiatePaymentOutput, error) {
	start := time.Now()
	slog.Info("InitiatePayment started", "payer_id", input.PayerID, "entitlement_id", input.EntitlementID)

	entitlement, err := uc.Entitlements.GetEntitlementByID(input.EntitlementID)
	if err != nil {
		return nil, err
	}

	plan, err := uc.Plans.GetPlanByID(entitlement.PlanID)
	if err != nil {
		return nil, err
	}

	if input.ParentOrderID != "" {
		if err := uc.validateParent(input); err != nil {
			return nil, err
		}
	}

	token, err := uc.Locker.Acquire(ctx, input.PayerID, input.EntitlementID, uc.Opts.LockTTL)
	if err != nil {
		return nil, uc.onLockFailed(input, err)
	}
	defer func() {
		if releaseErr := uc.Locker.Release(ctx, input.PayerID, input.EntitlementID, token); releaseErr != nil {
			slog.Error("failed to release payment lock",
				"payer_id", input.PayerID, "entitlement_id", input.EntitlementID, "error", releaseErr.Error())
		}
	}()

	if err := uc.checkIdempotency(input); err != nil {
		uc.Metrics.RecordDuplicate(input.Currency)
		uc.Metrics.RecordInitiation("duplicate", input.Currency, time.Since(start).Seconds())
		return nil, err
	}

	// The claimed amount must match the plan catalog exactly
	if input.Amount != plan.Amount || input.Currency != plan.Currency {
		uc.Metrics.RecordAmountMismatch(input.Currency)
		uc.Metrics.RecordInitiation("amount_mismatch", input.Currency, time.Since(start).Seconds())
		return nil, &domain.AmountMismatchError{Expected: plan.Amount, Received: input.Amount}
	}

	attempt := domain.PaymentAttempt{
		OrderID:       uuid.New().String(),
		PayerID:       input.PayerID,
		EntitlementID: input.EntitlementID,
		Amount:        plan.Amount,
		Currency:      plan.Currency,
		Status:        domain.StatusPending,
		ParentOrderID: input.ParentOrderID,
		ClientIP:      input.ClientIP,
		DeviceID:      input.DeviceID,
		ExpiresAt:     time.Now().Add(uc.Opts.PendingTimeout),
		CreatedAt:     time.Now(),
	}

	t := time.Now()
	if err := uc.Ledger.CreateAttempt(&attempt); err != nil {
		// The partial unique index backstops the idempotency guard when
		// a lapsed lock lease let a second initiation slip through
		if errors.Is(err, domain.ErrDuplicateAttempt) {
			uc.Metrics.RecordDuplicate(input.Currency)
			uc.Metrics.RecordInitiation("duplicate", input.Currency, time.Since(start).Seconds())
			if existing, lookupErr := uc.Ledger.FindPendingByPair(input.PayerID, input.EntitlementID); lookupErr == nil && existing != nil {
				return nil, &domain.DuplicateAttemptError{OrderID: existing.OrderID}
			}
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	slog.Info("Ledger.CreateAttempt done", "order_id", attempt.OrderID, "elapsed", time.Since(t))

	t = time.Now()
	redirectURL, err := uc.Gateway.CreateOrder(ctx, attempt.OrderID, attempt.Amount, attempt.Currency, attempt.PayerID)
	if err != nil {
		// Nothing to collect without a gateway order, close the attempt
		if markErr := uc.Ledger.MarkFailed(attempt.OrderID, "", ""); markErr != nil {
			slog.Error("failed to mark attempt after gateway error", "order_id", attempt.OrderID, "error", markErr.Error())
		}
		uc.Metrics.RecordInitiation("gateway_error", input.Currency, time.Since(start).Seconds())
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}
	slog.Info("Gateway.CreateOrder done", "order_id", attempt.OrderID, "elapsed", time.Since(t))

	go uc.publishEvent(publisher.PaymentEvent{
		OrderID:       attempt.OrderID,
		PayerID:       attempt.PayerID,
		EntitlementID: attempt.EntitlementID,
		Status:        string(domain.StatusPending),
		Amount:        attempt.Amount,
		Currency:      attempt.Currency,
		OccurredAt:    attempt.CreatedAt,
	})

	uc.Metrics.RecordInitiation("created", input.Currency, time.Since(start).Seconds())
	slog.Info("InitiatePayment finished", "order_id", attempt.OrderID, "total_elapsed", time.Since(start))

	return &paymentdto.InitiatePaymentOutput{
		OrderID:     attempt.OrderID,
		RedirectURL: redirectURL,
		ExpiresAt:   attempt.ExpiresAt,
	}, nil
}

// validateParent enforces retry linkage: the referenced attempt must
// belong to the same pair and must have reached a terminal state.
func (uc *DefaultPaymentUsecase) validateParent(input *paymentdto.InitiatePaymentInput) error {
	parent, err := uc.Ledger.GetAttemptByOrderID(input.ParentOrderID)
	if err != nil {
		return err
	}
	if parent.PayerID != input.PayerID || parent.EntitlementID != input.EntitlementID {
		return fmt.Errorf("%w: parent order belongs to another pair", domain.ErrAttemptNotFound)
	}
	if parent.Status == domain.StatusCompleted {
		return &domain.DuplicateAttemptError{OrderID: parent.OrderID}
	}
	if !parent.Status.Terminal() {
		return domain.ErrParentNotTerminal
	}
	return nil
}

// onLockFailed maps a lost lock race to the most useful error: if the
// winner already created a pending attempt, surface its order id so
// the caller can resume it instead of retrying blind.
func (uc *DefaultPaymentUsecase) onLockFailed(input *paymentdto.InitiatePaymentInput, err error) error {
	if !errors.Is(err, domain.ErrLockBusy) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	uc.Metrics.RecordLockBusy(input.Currency)
	existing, lookupErr := uc.Ledger.FindPendingByPair(input.PayerID, input.EntitlementID)
	if lookupErr == nil && existing != nil {
		return &domain.DuplicateAttemptError{OrderID: existing.OrderID}
	}
	return domain.ErrLockBusy
}

// checkIdempotency rejects the initiation when the pair already has an
// open attempt, or completed one inside the grace window.
func (uc *DefaultPaymentUsecase) checkIdempotency(input *paymentdto.InitiatePaymentInput) error {
	pending, err := uc.Ledger.FindPendingByPair(input.PayerID, input.EntitlementID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if pending != nil {
		return &domain.DuplicateAttemptError{OrderID: pending.OrderID}
	}

	completed, err := uc.Ledger.FindRecentCompletedByPair(input.PayerID, input.EntitlementID, time.Now().Add(-uc.Opts.CompletedGrace))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if completed != nil {
		return &domain.DuplicateAttemptError{OrderID: completed.OrderID}
	}
	return nil
}
