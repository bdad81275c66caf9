package timeutils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zyzyva/square-client/internal/shared/timeutils"
)

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, 8, 10, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, 0, timeutils.DaysBetween(base, base))
	assert.Equal(t, 0, timeutils.DaysBetween(base, base.Add(8*time.Hour)))
	assert.Equal(t, 1, timeutils.DaysBetween(base, base.Add(9*time.Hour)))
	assert.Equal(t, 6, timeutils.DaysBetween(base, base.Add(6*24*time.Hour)))
	assert.Equal(t, -5, timeutils.DaysBetween(base, base.Add(-5*24*time.Hour)))
}
