package catalog

// PlanPricing is the pricing metadata the proration engine needs for one
// sellable plan.
type PlanPricing struct {
	PriceCents   int64
	DurationDays int
}

// PriceTable maps the plan_id stored on a subscription to its pricing.
// Built by the embedding application, consumed read-only here.
type PriceTable map[string]PlanPricing
