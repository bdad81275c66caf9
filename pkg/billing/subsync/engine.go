package subsync

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/internal/shared/timeutils"
	"github.com/zyzyva/square-client/internal/squareclient/squareapi"
	"github.com/zyzyva/square-client/pkg/billing/models"
)

// RemoteLookup is the slice of the Square client the engine needs.
type RemoteLookup interface {
	GetSubscription(ctx context.Context, subID string) (*squareapi.Subscription, error)
}

// Persister applies a field-map update to a subscription record and mutates
// the passed record on success.
type Persister interface {
	Update(sub *models.Subscription, fields map[string]interface{}) error
}

// Engine reconciles locally cached subscription records with Square's
// authoritative view. Stateless per call: concurrent syncs of different
// subscriptions are safe.
type Engine struct {
	log     logutil.Log
	remote  RemoteLookup
	persist Persister
}

func NewEngine(log logutil.Log, remote RemoteLookup, persist Persister) *Engine {
	return &Engine{
		log:     log,
		remote:  remote,
		persist: persist,
	}
}

// syncWindowDays gates how close to renewal a subscription must be before a
// sync is worth a remote call.
const syncWindowDays = 3

// monthlyPlanID is the plan whose renewal date we can derive locally when
// Square doesn't report a charged-through date yet.
const monthlyPlanID = "premium_monthly"

// ShouldSync reports whether SyncFromRemote is worth calling now: true when
// the renewal date is unknown or at most syncWindowDays away (overdue
// included).
func (e Engine) ShouldSync(sub *models.Subscription) bool {
	if sub.NextBillingAt == nil {
		return true
	}

	return timeutils.DaysUntil(*sub.NextBillingAt) <= syncWindowDays
}

// SyncFromRemote updates the local record from Square's view of the
// subscription and persists the result.
//
// A record that was never pushed upstream is returned unchanged without any
// remote call. A subscription Square no longer knows is marked canceled. A
// transient remote failure returns the prior local state as success so the
// caller can safely retry later; only persistence failures propagate.
func (e Engine) SyncFromRemote(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	if sub.SquareSubscriptionID == nil {
		return sub, nil
	}

	remote, err := e.remote.GetSubscription(ctx, *sub.SquareSubscriptionID)
	if err != nil {
		if errors.Cause(err) == squareapi.ErrSubscriptionNotFound {
			return e.markCanceled(sub)
		}

		e.log.Warnf("Remote lookup for subscription %d failed, keeping local state: %s", sub.ID, err)
		return sub, nil
	}

	return e.applyRemote(sub, remote)
}

func (e Engine) markCanceled(sub *models.Subscription) (*models.Subscription, error) {
	now := time.Now()
	fields := map[string]interface{}{
		"status":      models.SubscriptionStatusCanceled,
		"canceled_at": &now,
	}
	if err := e.persist.Update(sub, fields); err != nil {
		return nil, errors.Wrapf(err, "failed to persist cancellation of subscription %d", sub.ID)
	}

	sub.Status = models.SubscriptionStatusCanceled
	sub.CanceledAt = &now

	return sub, nil
}

func (e Engine) applyRemote(sub *models.Subscription, remote *squareapi.Subscription) (*models.Subscription, error) {
	startedAt := parseSquareTime(remote.StartDate)
	if startedAt == nil {
		startedAt = sub.StartedAt
	}
	canceledAt := parseSquareTime(remote.CanceledDate)

	nextBillingAt := parseSquareTime(remote.ChargedThroughDate)
	if nextBillingAt == nil && sub.PlanID == monthlyPlanID && startedAt != nil {
		t := startedAt.Add(30 * 24 * time.Hour)
		nextBillingAt = &t
	}

	status := models.SubscriptionStatus(remote.Status)
	fields := map[string]interface{}{
		"status":          status,
		"next_billing_at": nextBillingAt,
		"started_at":      startedAt,
		"canceled_at":     canceledAt,
	}
	if err := e.persist.Update(sub, fields); err != nil {
		return nil, errors.Wrapf(err, "failed to persist sync of subscription %d", sub.ID)
	}

	sub.Status = status
	sub.NextBillingAt = nextBillingAt
	sub.StartedAt = startedAt
	sub.CanceledAt = canceledAt

	return sub, nil
}

// parseSquareTime interprets Square's date fields: RFC3339 timestamps or
// bare YYYY-MM-DD dates. Anything else (including empty) yields nil.
func parseSquareTime(value string) *time.Time {
	if value == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}

	return nil
}
