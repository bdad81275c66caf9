package proration

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/zyzyva/square-client/internal/shared/apperrors"
	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/internal/shared/timeutils"
	"github.com/zyzyva/square-client/internal/squareclient/squareapi"
	"github.com/zyzyva/square-client/pkg/billing/catalog"
	"github.com/zyzyva/square-client/pkg/billing/models"
	"github.com/zyzyva/square-client/pkg/billing/returntypes"
)

// PaymentRefunder is the slice of the Square client the engine needs.
type PaymentRefunder interface {
	RefundPayment(ctx context.Context, payload squareapi.RefundPayload) (*squareapi.Refund, error)
}

const defaultCurrency = "USD"

// Engine computes prorated refunds for unused subscription time and issues
// them through the Square payments API.
type Engine struct {
	log      logutil.Log
	tracker  apperrors.Tracker
	refunder PaymentRefunder
}

func NewEngine(log logutil.Log, tracker apperrors.Tracker, refunder PaymentRefunder) *Engine {
	return &Engine{
		log:      log,
		tracker:  tracker,
		refunder: refunder,
	}
}

// RemainingDays returns the whole days of paid entitlement left until the
// renewal date, 0 for anything not actively billed.
func (e Engine) RemainingDays(sub *models.Subscription) int {
	if sub == nil || !sub.IsActive() || sub.NextBillingAt == nil {
		return 0
	}
	if !sub.NextBillingAt.After(time.Now()) {
		return 0
	}

	days := timeutils.DaysUntil(*sub.NextBillingAt)
	if days < 0 {
		return 0
	}

	return days
}

// ProratedRefund returns the refund in cents for the unused remaining days:
// daily rate times remaining days, rounded half away from zero. A plan
// missing from the price table yields 0 with a warning, not a failure.
func (e Engine) ProratedRefund(sub *models.Subscription, remainingDays int, prices catalog.PriceTable) int64 {
	if sub == nil || remainingDays == 0 {
		return 0
	}

	pricing, ok := prices[sub.PlanID]
	if !ok {
		e.log.Warnf("No pricing for plan %q, can't compute prorated refund", sub.PlanID)
		return 0
	}

	dailyRate := float64(pricing.PriceCents) / float64(pricing.DurationDays)
	return int64(math.Round(dailyRate * float64(remainingDays)))
}

// ProcessAutomaticRefund issues the refund through Square. Fire and forget:
// a refund failure is logged and tracked but must never block the
// upgrade or cancellation flow that triggered it.
func (e Engine) ProcessAutomaticRefund(ctx context.Context, sub *models.Subscription, refundAmount int64, reason, currency string) {
	if sub == nil || refundAmount == 0 {
		return
	}

	if sub.PaymentID == nil {
		e.log.Infof("Subscription %d has no payment id, skipping automatic refund of %d", sub.ID, refundAmount)
		return
	}

	if currency == "" {
		currency = defaultCurrency
	}

	refund, err := e.refunder.RefundPayment(ctx, squareapi.RefundPayload{
		PaymentID:   *sub.PaymentID,
		AmountCents: refundAmount,
		Currency:    currency,
		Reason:      reason,
	})
	if err != nil {
		e.log.Errorf("Automatic refund of %d for subscription %d failed: %s", refundAmount, sub.ID, err)
		e.tracker.Track(apperrors.LevelError, fmt.Sprintf("automatic refund failed: %s", err), map[string]interface{}{
			"subscription_id": sub.ID,
			"payment_id":      *sub.PaymentID,
			"amount":          refundAmount,
		})
		return
	}

	e.log.Infof("Issued automatic refund %s (%s) of %d for subscription %d",
		refund.ID, refund.Status, refundAmount, sub.ID)
}

// BuildRefundInfo builds the user-facing refund description, nil when there
// is nothing to refund.
func (e Engine) BuildRefundInfo(refundAmount int64, remainingDays int, processed bool) *returntypes.RefundInfo {
	if refundAmount == 0 || remainingDays == 0 {
		return nil
	}

	status := returntypes.RefundStatusPending
	if processed {
		status = returntypes.RefundStatusProcessed
	}

	return &returntypes.RefundInfo{
		RefundAmount:  refundAmount,
		RemainingDays: remainingDays,
		RefundMessage: fmt.Sprintf("You'll receive a $%.2f refund for your remaining %d days.",
			float64(refundAmount)/100, remainingDays),
		RefundStatus: status,
	}
}
