package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zyzyva/square-client/pkg/billing/models"
)

func TestToInternalStatus(t *testing.T) {
	cases := []struct {
		remote   models.SubscriptionStatus
		expected models.InternalStatus
	}{
		{models.SubscriptionStatusActive, models.InternalStatusActive},
		{models.SubscriptionStatusPending, models.InternalStatusActive},
		{models.SubscriptionStatusCanceled, models.InternalStatusCanceled},
		{models.SubscriptionStatusPaused, models.InternalStatusInactive},
		{models.SubscriptionStatusDelinquent, models.InternalStatusPastDue},
		{"UNKNOWN", models.InternalStatusInactive},
		{"", models.InternalStatusInactive},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, models.ToInternalStatus(c.remote), "remote status %q", c.remote)
	}
}
