package models

// SubscriptionStatus is Square's subscription status vocabulary, stored
// verbatim on the local record.
type SubscriptionStatus string

const (
	SubscriptionStatusPending    SubscriptionStatus = "PENDING"
	SubscriptionStatusActive     SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCanceled   SubscriptionStatus = "CANCELED"
	SubscriptionStatusPaused     SubscriptionStatus = "PAUSED"
	SubscriptionStatusDelinquent SubscriptionStatus = "DELINQUENT"
)

// InternalStatus is the application-facing status vocabulary.
type InternalStatus string

const (
	InternalStatusActive   InternalStatus = "active"
	InternalStatusCanceled InternalStatus = "canceled"
	InternalStatusInactive InternalStatus = "inactive"
	InternalStatusPastDue  InternalStatus = "past_due"
)

// ToInternalStatus maps Square's status vocabulary to ours. PENDING counts
// as active: Square reports it while the first charge settles and we don't
// want to lock users out of what they just bought. Unknown statuses map to
// inactive.
func ToInternalStatus(remote SubscriptionStatus) InternalStatus {
	switch remote {
	case SubscriptionStatusActive, SubscriptionStatusPending:
		return InternalStatusActive
	case SubscriptionStatusCanceled:
		return InternalStatusCanceled
	case SubscriptionStatusDelinquent:
		return InternalStatusPastDue
	default:
		return InternalStatusInactive
	}
}
