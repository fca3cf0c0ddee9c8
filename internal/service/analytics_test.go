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

// fixedNow pins the clock to Wednesday 2026-08-19 so week boundaries are
// deterministic.
var fixedNow = time.Date(2026, 8, 19, 14, 0, 0, 0, time.UTC)

func newTestAnalytics(t *testing.T) (*AnalyticsService, *gorm.DB, *models.User) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAnalyticsService(db)
	svc.now = func() time.Time { return fixedNow }

	user := &models.User{
		Username: "alice", Email: "alice@example.com", PasswordHash: "x",
		Role: models.RoleUser, IsActive: true,
		DailyCalorieGoal: 2000, DailyWaterGoalMl: 2000,
	}
	require.NoError(t, db.Create(user).Error)
	return svc, db, user
}

func day(t time.Time, offset int) time.Time {
	d := dayStart(t)
	return d.AddDate(0, 0, offset)
}

func TestWeeklyWorkoutMinutesUsesISOWeek(t *testing.T) {
	svc, db, user := newTestAnalytics(t)

	// Monday of the fixed week is 2026-08-17. One workout Monday, one
	// Wednesday, and one the Sunday before that must be excluded.
	monday := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Workout{
		UserID: user.ID, WorkoutType: "running", WorkoutName: "Run",
		DurationMinutes: 30, WorkoutDate: monday,
	}).Error)
	require.NoError(t, db.Create(&models.Workout{
		UserID: user.ID, WorkoutType: "cycling", WorkoutName: "Ride",
		DurationMinutes: 45, WorkoutDate: day(fixedNow, 0),
	}).Error)
	require.NoError(t, db.Create(&models.Workout{
		UserID: user.ID, WorkoutType: "running", WorkoutName: "Old run",
		DurationMinutes: 60, WorkoutDate: monday.AddDate(0, 0, -1),
	}).Error)

	out, err := svc.WeeklyWorkoutMinutes(user.ID)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-17", out.WeekStart)
	assert.Equal(t, 75, out.TotalMinutes)
	assert.Equal(t, 2, out.WorkoutCount)
	assert.Equal(t, 30, out.DailyMinutes["Monday"])
	assert.Equal(t, 45, out.DailyMinutes["Wednesday"])
	assert.Equal(t, 0, out.DailyMinutes["Sunday"])
	assert.Equal(t, 30, out.ByWorkoutType["running"])
	assert.Equal(t, 45, out.ByWorkoutType["cycling"])

	// All seven day names are present even with no data.
	assert.Len(t, out.DailyMinutes, 7)
}

func TestDailyCalorieTotalsZeroFills(t *testing.T) {
	svc, db, user := newTestAnalytics(t)

	require.NoError(t, db.Create(&models.Meal{
		UserID: user.ID, MealType: models.MealLunch, MealName: "Salad",
		Calories: 400, MealDate: day(fixedNow, 0),
	}).Error)
	require.NoError(t, db.Create(&models.Meal{
		UserID: user.ID, MealType: models.MealDinner, MealName: "Pasta",
		Calories: 600, MealDate: day(fixedNow, -2),
	}).Error)

	out, err := svc.DailyCalorieTotals(user.ID, 7)
	require.NoError(t, err)

	assert.Equal(t, 7, out.PeriodDays)
	assert.Equal(t, "2026-08-13", out.StartDate)
	assert.Equal(t, "2026-08-19", out.EndDate)
	assert.Equal(t, 1000.0, out.TotalCalories)
	assert.InDelta(t, 142.9, out.AverageDailyCalories, 0.001)

	// Every day appears, empty ones with 0.
	require.Len(t, out.TrendData, 7)
	assert.Equal(t, "2026-08-13", out.TrendData[0].Date)
	assert.Equal(t, 0.0, out.TrendData[0].Calories)
	assert.Equal(t, 600.0, out.TrendData[4].Calories)
	assert.Equal(t, 400.0, out.TrendData[6].Calories)
}

func TestMacronutrientPercentagesExcludeFiber(t *testing.T) {
	svc, db, user := newTestAnalytics(t)

	require.NoError(t, db.Create(&models.Meal{
		UserID: user.ID, MealType: models.MealBreakfast, MealName: "Bowl",
		Calories: 500, ProteinG: 30, CarbsG: 50, FatG: 20, FiberG: 100,
		MealDate: day(fixedNow, 0),
	}).Error)

	out, err := svc.MacronutrientTotals(user.ID, fixedNow)
	require.NoError(t, err)

	// Denominator is 100 g of protein+carbs+fat; fiber never dilutes it.
	assert.Equal(t, 30.0, out.Percentages.Protein)
	assert.Equal(t, 50.0, out.Percentages.Carbs)
	assert.Equal(t, 20.0, out.Percentages.Fat)
	assert.Equal(t, 100.0, out.Macronutrients.FiberG)

	sum := out.Percentages.Protein + out.Percentages.Carbs + out.Percentages.Fat
	assert.InDelta(t, 100.0, sum, 0.2)
}

func TestMacronutrientTotalsEmptyDay(t *testing.T) {
	svc, _, user := newTestAnalytics(t)

	out, err := svc.MacronutrientTotals(user.ID, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 0, out.TotalMeals)
	assert.Equal(t, 0.0, out.Percentages.Protein)
	assert.Equal(t, 0.0, out.Percentages.Carbs)
	assert.Equal(t, 0.0, out.Percentages.Fat)
}

func TestWeightTrendDataEmptyWindow(t *testing.T) {
	svc, _, user := newTestAnalytics(t)

	out, err := svc.WeightTrendData(user.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, 0, out.TotalRecords)
	assert.Nil(t, out.Statistics)
	assert.Empty(t, out.TrendData)
}

func TestWeightTrendDataStatistics(t *testing.T) {
	svc, db, user := newTestAnalytics(t)

	weights := []struct {
		offset int
		kg     float64
	}{{-20, 82.0}, {-10, 80.5}, {-1, 79.0}}
	for _, w := range weights {
		require.NoError(t, db.Create(&models.WeightLog{
			UserID: user.ID, LogDate: day(fixedNow, w.offset), WeightKg: w.kg,
		}).Error)
	}

	out, err := svc.WeightTrendData(user.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalRecords)
	require.NotNil(t, out.Statistics)
	assert.Equal(t, 82.0, out.Statistics.FirstWeightKg)
	assert.Equal(t, 79.0, out.Statistics.LastWeightKg)
	assert.Equal(t, -3.0, out.Statistics.WeightChangeKg)
	assert.Equal(t, 79.0, out.Statistics.MinWeightKg)
	assert.Equal(t, 82.0, out.Statistics.MaxWeightKg)
	assert.InDelta(t, 80.5, out.Statistics.AverageWeightKg, 0.001)
}

func TestTodayProgressCapsAndDefaults(t *testing.T) {
	svc, db, user := newTestAnalytics(t)

	// Double the 2000 ml water goal; percentage still caps at 100.
	require.NoError(t, db.Create(&models.WaterIntake{
		UserID: user.ID, IntakeDate: day(fixedNow, 0), AmountMl: 4000,
		BeverageType: "water",
	}).Error)
	quality := 8
	require.NoError(t, db.Create(&models.SleepRecord{
		UserID: user.ID, SleepDate: day(fixedNow, 0), BedTime: "23:00",
		WakeTime: "07:00", TotalHours: 6, SleepQuality: &quality,
	}).Error)

	out, err := svc.TodayProgress(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 4000, out.Water.TotalMl)
	assert.Equal(t, 2000, out.Water.GoalMl)
	assert.Equal(t, 100, out.Water.Percentage)

	assert.Equal(t, 6.0, out.Sleep.Hours)
	assert.Equal(t, 75, out.Sleep.Percentage)
	require.NotNil(t, out.Sleep.Quality)
	assert.Equal(t, 8, *out.Sleep.Quality)

	assert.Equal(t, 0, out.Workouts.Percentage)
	assert.Equal(t, 2000, out.Nutrition.Goal)
}

func TestWeeklyOverviewChange(t *testing.T) {
	svc, db, user := newTestAnalytics(t)

	burned := 300.0
	// Current rolling week: one workout. Previous week: two.
	require.NoError(t, db.Create(&models.Workout{
		UserID: user.ID, WorkoutType: "running", WorkoutName: "Run",
		DurationMinutes: 30, CaloriesBurned: &burned, WorkoutDate: day(fixedNow, -1),
	}).Error)
	for _, offset := range []int{-8, -10} {
		require.NoError(t, db.Create(&models.Workout{
			UserID: user.ID, WorkoutType: "running", WorkoutName: "Run",
			DurationMinutes: 30, CaloriesBurned: &burned, WorkoutDate: day(fixedNow, offset),
		}).Error)
	}

	out, err := svc.WeeklyOverview(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Current.WorkoutSessions)
	assert.Equal(t, 2, out.Previous.WorkoutSessions)
	assert.Equal(t, -50, out.Change.WorkoutSessions)

	// Nothing in either sleep window: the 0-to-0 sentinel is 0.
	assert.Equal(t, 0, out.Change.AvgSleep)
}

func TestWorkoutsChartZeroFills(t *testing.T) {
	svc, db, user := newTestAnalytics(t)

	require.NoError(t, db.Create(&models.Workout{
		UserID: user.ID, WorkoutType: "yoga", WorkoutName: "Flow",
		DurationMinutes: 40, WorkoutDate: day(fixedNow, 0),
	}).Error)

	points, err := svc.WorkoutsChart(user.ID)
	require.NoError(t, err)

	require.Len(t, points, 7)
	// Window runs Thursday the 13th through Wednesday the 19th.
	assert.Equal(t, "Thu", points[0].Day)
	assert.Equal(t, "Wed", points[6].Day)
	assert.Equal(t, 40, points[6].Minutes)
	for i := 0; i < 6; i++ {
		assert.Equal(t, 0, points[i].Minutes)
	}
}

func TestDashboardSummaryLatestWeightNilWhenEmpty(t *testing.T) {
	svc, _, user := newTestAnalytics(t)

	out, err := svc.DashboardSummary(user.ID)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-19", out.Date)
	assert.Nil(t, out.LatestWeight.WeightKg)
	assert.Nil(t, out.LatestWeight.BMI)
	assert.Nil(t, out.LatestWeight.Date)
	assert.Equal(t, 0.0, out.Today.Calories)
	assert.Equal(t, 0, out.ThisWeek.WorkoutCount)
}

func TestDashboardSummaryScopesToUser(t *testing.T) {
	svc, db, user := newTestAnalytics(t)

	other := &models.User{
		UniqueUserID: "ID-bob",
		Username:     "bob", Email: "bob@example.com", PasswordHash: "x",
		Role: models.RoleUser, IsActive: true,
	}
	require.NoError(t, db.Create(other).Error)
	require.NoError(t, db.Create(&models.Meal{
		UserID: other.ID, MealType: models.MealLunch, MealName: "Burger",
		Calories: 900, MealDate: day(fixedNow, 0),
	}).Error)

	out, err := svc.DashboardSummary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Today.Calories)
}
