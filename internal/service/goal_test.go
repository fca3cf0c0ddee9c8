package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
	"github.com/vitaltrack/backend/internal/testhelpers"
)

func newTestGoalService(t *testing.T) (*GoalService, *gorm.DB, *models.User) {
	db := testhelpers.SetupTestDB(t)
	svc := NewGoalService(db, NewActivityService(db))
	svc.now = func() time.Time { return fixedNow }

	user := createUser(t, db, "alice", models.RoleUser)
	return svc, db, user
}

func TestGoalProgressDailyWater(t *testing.T) {
	svc, db, user := newTestGoalService(t)

	goal, err := svc.Create(user, GoalInput{
		Category: models.GoalWater, GoalType: "daily", TargetValue: 2000, Unit: "ml",
	})
	require.NoError(t, err)

	// 1500 ml today, 800 ml yesterday; a daily goal only sees today.
	require.NoError(t, db.Create(&models.WaterIntake{
		UserID: user.ID, IntakeDate: day(fixedNow, 0), AmountMl: 1500, BeverageType: "water",
	}).Error)
	require.NoError(t, db.Create(&models.WaterIntake{
		UserID: user.ID, IntakeDate: day(fixedNow, -1), AmountMl: 800, BeverageType: "water",
	}).Error)

	report, err := svc.Progress(user.ID, goal.ID)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, report.CurrentValue)
	assert.Equal(t, 75, report.Percentage)
	assert.Equal(t, "2026-08-19", report.WindowStart)
	assert.Equal(t, "2026-08-19", report.WindowEnd)

	// The recomputed value is persisted.
	var stored models.Goal
	require.NoError(t, db.First(&stored, goal.ID).Error)
	assert.Equal(t, 1500.0, stored.CurrentValue)
}

func TestGoalProgressWeeklyWorkoutMinutes(t *testing.T) {
	svc, db, user := newTestGoalService(t)

	goal, err := svc.Create(user, GoalInput{
		Category: models.GoalWorkout, GoalType: "weekly", TargetValue: 150, Unit: "min",
	})
	require.NoError(t, err)

	// 60 min inside the rolling week, 60 min outside it.
	require.NoError(t, db.Create(&models.Workout{
		UserID: user.ID, WorkoutType: "running", WorkoutName: "Run",
		DurationMinutes: 60, WorkoutDate: day(fixedNow, -3),
	}).Error)
	require.NoError(t, db.Create(&models.Workout{
		UserID: user.ID, WorkoutType: "running", WorkoutName: "Old run",
		DurationMinutes: 60, WorkoutDate: day(fixedNow, -10),
	}).Error)

	report, err := svc.Progress(user.ID, goal.ID)
	require.NoError(t, err)

	assert.Equal(t, 60.0, report.CurrentValue)
	assert.Equal(t, 40, report.Percentage)
}

func TestGoalProgressWeightUsesLatestLog(t *testing.T) {
	svc, db, user := newTestGoalService(t)

	goal, err := svc.Create(user, GoalInput{
		Category: models.GoalWeight, GoalType: "custom", TargetValue: 75, Unit: "kg",
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.WeightLog{
		UserID: user.ID, LogDate: day(fixedNow, -5), WeightKg: 82,
	}).Error)
	require.NoError(t, db.Create(&models.WeightLog{
		UserID: user.ID, LogDate: day(fixedNow, -1), WeightKg: 80,
	}).Error)

	report, err := svc.Progress(user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, report.CurrentValue)
}

func TestGoalProgressZeroTarget(t *testing.T) {
	svc, db, user := newTestGoalService(t)

	// Bypass input validation to get a zero-target row.
	goal := models.Goal{
		UserID: user.ID, Category: models.GoalWater, GoalType: "daily",
		TargetValue: 0, StartDate: day(fixedNow, 0), IsActive: true,
	}
	require.NoError(t, db.Create(&goal).Error)

	require.NoError(t, db.Create(&models.WaterIntake{
		UserID: user.ID, IntakeDate: day(fixedNow, 0), AmountMl: 1000, BeverageType: "water",
	}).Error)

	report, err := svc.Progress(user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Percentage)
}

func TestGoalListActiveOnly(t *testing.T) {
	svc, _, user := newTestGoalService(t)

	active, err := svc.Create(user, GoalInput{
		Category: models.GoalWater, GoalType: "daily", TargetValue: 2000,
	})
	require.NoError(t, err)
	retired, err := svc.Create(user, GoalInput{
		Category: models.GoalSleep, GoalType: "daily", TargetValue: 8,
	})
	require.NoError(t, err)

	off := false
	_, err = svc.Update(user, retired.ID, GoalUpdate{IsActive: &off})
	require.NoError(t, err)

	goals, err := svc.List(user.ID, true)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, active.ID, goals[0].ID)

	all, err := svc.List(user.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
