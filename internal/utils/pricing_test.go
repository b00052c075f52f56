package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRentalDays(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("ExactDays", func(t *testing.T) {
		assert.Equal(t, 3, RentalDays(start, start.Add(72*time.Hour)))
	})

	t.Run("PartialDayRoundsUp", func(t *testing.T) {
		assert.Equal(t, 3, RentalDays(start, start.Add(50*time.Hour)))
		assert.Equal(t, 1, RentalDays(start, start.Add(1*time.Hour)))
	})

	t.Run("InvalidPeriod", func(t *testing.T) {
		assert.Equal(t, 0, RentalDays(start, start))
		assert.LessOrEqual(t, RentalDays(start, start.Add(-24*time.Hour)), 0)
	})
}

func TestCalculateRentalPrice(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("ThreeDays", func(t *testing.T) {
		assert.Equal(t, int64(300), CalculateRentalPrice(start, start.Add(72*time.Hour), 100))
	})

	t.Run("PartialDayBilledFull", func(t *testing.T) {
		assert.Equal(t, int64(200), CalculateRentalPrice(start, start.Add(30*time.Hour), 100))
	})

	t.Run("InvalidPeriodIsFree", func(t *testing.T) {
		assert.Equal(t, int64(0), CalculateRentalPrice(start, start.Add(-time.Hour), 100))
	})
}
