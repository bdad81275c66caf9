package squareapi

import "context"

// Client is the boundary to the Square API. Engines depend on the narrow
// slices of it they need; implementations live in the sibling package.
type Client interface {
	Name() string

	GetSubscription(ctx context.Context, subID string) (*Subscription, error)
	RefundPayment(ctx context.Context, payload RefundPayload) (*Refund, error)

	CreateBasePlan(ctx context.Context, payload BasePlanPayload) (string, error)
	CreatePlanVariation(ctx context.Context, payload PlanVariationPayload) (string, error)
}
