package implementations

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"

	"github.com/zyzyva/square-client/internal/squareclient/squareapi"
)

type stableClient struct {
	underlying   squareapi.Client
	totalTimeout time.Duration
	maxRetries   int
}

// NewStableClient wraps a client with bounded exponential-backoff retries.
// Terminal conditions (not found) are not retried.
func NewStableClient(underlying squareapi.Client, totalTimeout time.Duration, maxRetries int) squareapi.Client {
	return &stableClient{
		underlying:   underlying,
		totalTimeout: totalTimeout,
		maxRetries:   maxRetries,
	}
}

func (c stableClient) retry(f func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.totalTimeout

	bmr := backoff.WithMaxRetries(b, uint64(c.maxRetries))
	wrapped := func() error {
		err := f()
		if errors.Cause(err) == squareapi.ErrSubscriptionNotFound {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, bmr)
}

func (c *stableClient) Name() string {
	return c.underlying.Name()
}

func (c *stableClient) GetSubscription(ctx context.Context, subID string) (retSub *squareapi.Subscription, err error) {
	_ = c.retry(func() error {
		retSub, err = c.underlying.GetSubscription(ctx, subID)
		return err
	})
	return
}

func (c *stableClient) RefundPayment(ctx context.Context, payload squareapi.RefundPayload) (retRefund *squareapi.Refund, err error) {
	_ = c.retry(func() error {
		retRefund, err = c.underlying.RefundPayment(ctx, payload)
		return err
	})
	return
}

func (c *stableClient) CreateBasePlan(ctx context.Context, payload squareapi.BasePlanPayload) (retID string, err error) {
	_ = c.retry(func() error {
		retID, err = c.underlying.CreateBasePlan(ctx, payload)
		return err
	})
	return
}

func (c *stableClient) CreatePlanVariation(ctx context.Context, payload squareapi.PlanVariationPayload) (retID string, err error) {
	_ = c.retry(func() error {
		retID, err = c.underlying.CreatePlanVariation(ctx, payload)
		return err
	})
	return
}
