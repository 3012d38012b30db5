package risk

import (
	"strings"
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
)

// ClientContext is the client fingerprint captured at initiation time.
type ClientContext struct {
	IP       string
	DeviceID string
}

type Score struct {
	Value   float64
	Factors []string
	Flagged bool
}

func (s Score) FactorString() string {
	return strings.Join(s.Factors, ",")
}

// Scorer produces an advisory risk score. Scores above Threshold flag
// the attempt for downstream review; they never block activation.
type Scorer struct {
	Threshold      float64
	VelocityWindow time.Duration
	MaxVelocity    int
	DenylistedNets []string
}

func NewScorer(threshold float64, velocityWindow time.Duration) *Scorer {
	return &Scorer{
		Threshold:      threshold,
		VelocityWindow: velocityWindow,
		MaxVelocity:    5,
	}
}

// Score is a pure function over the attempt, the payer's recent
// history and the captured client context.
func (s *Scorer) Score(attempt *domain.PaymentAttempt, history []*domain.PaymentAttempt, clientCtx ClientContext) Score {
	var score Score

	// Velocity: how many attempts the payer fired inside the window
	windowStart := attempt.CreatedAt.Add(-s.VelocityWindow)
	velocity := 0
	for _, past := range history {
		if past.OrderID == attempt.OrderID {
			continue
		}
		if !past.CreatedAt.Before(windowStart) {
			velocity++
		}
	}
	if velocity >= s.MaxVelocity {
		score.Value += 0.4
		score.Factors = append(score.Factors, "high_velocity")
	} else if velocity >= s.MaxVelocity/2 {
		score.Value += 0.2
		score.Factors = append(score.Factors, "elevated_velocity")
	}

	// Amount anomaly relative to the payer's completed history
	var completedSum float64
	completedCount := 0
	for _, past := range history {
		if past.OrderID == attempt.OrderID || past.Status != domain.StatusCompleted {
			continue
		}
		completedSum += past.Amount
		completedCount++
	}
	if completedCount > 0 {
		average := completedSum / float64(completedCount)
		if attempt.Amount > 3*average {
			score.Value += 0.3
			score.Factors = append(score.Factors, "amount_anomaly")
		}
	}

	// Client context reputation
	if clientCtx.IP == "" || s.denylisted(clientCtx.IP) {
		score.Value += 0.2
		score.Factors = append(score.Factors, "ip_reputation")
	}
	if clientCtx.DeviceID == "" {
		score.Value += 0.1
		score.Factors = append(score.Factors, "unknown_device")
	}

	score.Flagged = score.Value >= s.Threshold
	return score
}

func (s *Scorer) denylisted(ip string) bool {
	for _, prefix := range s.DenylistedNets {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}
