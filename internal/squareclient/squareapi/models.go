package squareapi

// Subscription is Square's view of a subscription. Date fields are the raw
// strings Square returns: RFC3339 timestamps or bare YYYY-MM-DD dates,
// possibly empty. Interpreting them is the caller's job.
type Subscription struct {
	ID                 string
	Status             string
	StartDate          string
	CanceledDate       string
	ChargedThroughDate string
}

type RefundPayload struct {
	PaymentID   string
	AmountCents int64
	Currency    string
	Reason      string

	// IdempotencyKey makes retried refund requests safe. Generated when empty.
	IdempotencyKey string
}

type Refund struct {
	ID     string
	Status string
}

type BasePlanPayload struct {
	Name        string
	Description string
}

type PlanVariationPayload struct {
	BasePlanID  string
	Name        string
	AmountCents int64
	Currency    string
	Cadence     string
}
