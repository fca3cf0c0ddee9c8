package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vitaltrack/backend/internal/models"
)

func TestGoalProgress(t *testing.T) {
	assert.Equal(t, 50, GoalProgress(1000, 2000))
	assert.Equal(t, 100, GoalProgress(2000, 2000))

	// Overshooting the goal stays capped at 100.
	assert.Equal(t, 100, GoalProgress(5000, 2000))

	// A zero or negative goal never divides.
	assert.Equal(t, 0, GoalProgress(1500, 0))
	assert.Equal(t, 0, GoalProgress(1500, -10))

	// Rounding, not truncation.
	assert.Equal(t, 33, GoalProgress(1, 3))
	assert.Equal(t, 67, GoalProgress(2, 3))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 50, PercentChange(150, 100))
	assert.Equal(t, -25, PercentChange(75, 100))
	assert.Equal(t, 0, PercentChange(100, 100))

	// Undefined ratio sentinel: from zero to anything is 100, zero to zero is 0.
	assert.Equal(t, 100, PercentChange(42, 0))
	assert.Equal(t, 0, PercentChange(0, 0))
}

func TestWeekStartMonday(t *testing.T) {
	// 2026-08-19 is a Wednesday; its week starts Monday the 17th.
	wed := time.Date(2026, 8, 19, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-17", dateKey(weekStartMonday(wed)))

	// A Monday is its own week start.
	mon := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-17", dateKey(weekStartMonday(mon)))

	// Sunday belongs to the week that started six days earlier.
	sun := time.Date(2026, 8, 23, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-17", dateKey(weekStartMonday(sun)))
}

func TestMondayIndexedWeekday(t *testing.T) {
	mon := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, mondayIndexedWeekday(mon))
	assert.Equal(t, 6, mondayIndexedWeekday(sun))
	assert.Equal(t, "Monday", weekdayNames[mondayIndexedWeekday(mon)])
	assert.Equal(t, "Sunday", weekdayNames[mondayIndexedWeekday(sun)])
}

func TestComputeBMI(t *testing.T) {
	weight := 80.0
	height := 180.0

	bmi := models.ComputeBMI(&weight, &height)
	if assert.NotNil(t, bmi) {
		assert.InDelta(t, 24.7, *bmi, 0.001)
	}

	// Missing inputs yield nil, never zero.
	assert.Nil(t, models.ComputeBMI(nil, &height))
	assert.Nil(t, models.ComputeBMI(&weight, nil))
	zero := 0.0
	assert.Nil(t, models.ComputeBMI(&weight, &zero))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 1.5, round1(1.46))
	assert.Equal(t, 1.4, round1(1.44))
	assert.Equal(t, -2.3, round1(-2.34))
}
