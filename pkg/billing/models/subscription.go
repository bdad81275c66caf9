package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Subscription is the locally cached copy of a Square subscription.
// Square's record stays authoritative; the sync engine reconciles this one.
type Subscription struct {
	gorm.Model

	// SquareSubscriptionID is nil until the subscription has been created
	// upstream.
	SquareSubscriptionID *string

	PlanID string
	Status SubscriptionStatus

	// PaymentID is the Square payment backing the current period, needed
	// for refunds. Nil for e.g. free-trial subscriptions.
	PaymentID *string

	StartedAt     *time.Time
	CanceledAt    *time.Time
	NextBillingAt *time.Time
	TrialEndsAt   *time.Time
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}
