package returntypes

type RefundStatus string

const (
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusPending   RefundStatus = "pending"
)

// RefundInfo describes a prorated refund to the user. Transient: built on
// demand for a response, never persisted.
type RefundInfo struct {
	RefundAmount  int64        `json:"refundAmount"`
	RemainingDays int          `json:"remainingDays"`
	RefundMessage string       `json:"refundMessage"`
	RefundStatus  RefundStatus `json:"refundStatus"`
}
