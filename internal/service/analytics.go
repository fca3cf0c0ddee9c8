package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// AnalyticsService computes time-windowed aggregates over raw health records.
// It is strictly read-side: every call re-reads from the database and nothing
// here mutates state. A userID of 0 means "all users" and is only reachable
// from admin-scoped handlers.
type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

func scopeUser(q *gorm.DB, userID uint) *gorm.DB {
	if userID != 0 {
		return q.Where("user_id = ?", userID)
	}
	return q
}

// ---------- Weekly workout minutes (ISO week, Monday start) ----------

type WeeklyWorkoutMinutes struct {
	WeekStart     string         `json:"week_start"`
	TotalMinutes  int            `json:"total_minutes"`
	DailyMinutes  map[string]int `json:"daily_minutes"`
	ByWorkoutType map[string]int `json:"by_workout_type"`
	WorkoutCount  int            `json:"workout_count"`
}

// WeeklyWorkoutMinutes buckets this calendar week's workout minutes by day
// name, starting Monday.
func (s *AnalyticsService) WeeklyWorkoutMinutes(userID uint) (*WeeklyWorkoutMinutes, error) {
	weekStart := weekStartMonday(s.now())

	var workouts []models.Workout
	q := scopeUser(s.db.Where("workout_date >= ?", weekStart), userID)
	if err := q.Find(&workouts).Error; err != nil {
		return nil, err
	}

	daily := make(map[string]int, 7)
	for _, name := range weekdayNames {
		daily[name] = 0
	}
	byType := map[string]int{}
	total := 0
	for _, w := range workouts {
		daily[weekdayNames[mondayIndexedWeekday(w.WorkoutDate)]] += w.DurationMinutes
		byType[w.WorkoutType] += w.DurationMinutes
		total += w.DurationMinutes
	}

	return &WeeklyWorkoutMinutes{
		WeekStart:     dateKey(weekStart),
		TotalMinutes:  total,
		DailyMinutes:  daily,
		ByWorkoutType: byType,
		WorkoutCount:  len(workouts),
	}, nil
}

// ---------- Daily calorie totals (rolling window) ----------

type CalorieTrendPoint struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
}

type DailyCalorieTotals struct {
	PeriodDays           int                 `json:"period_days"`
	StartDate            string              `json:"start_date"`
	EndDate              string              `json:"end_date"`
	TotalCalories        float64             `json:"total_calories"`
	AverageDailyCalories float64             `json:"average_daily_calories"`
	DailyCalories        map[string]float64  `json:"daily_calories"`
	TrendData            []CalorieTrendPoint `json:"trend_data"`
}

// DailyCalorieTotals sums meal calories per day over the past N days ending
// today. Every day in range appears in the output; days without meals carry 0.
func (s *AnalyticsService) DailyCalorieTotals(userID uint, days int) (*DailyCalorieTotals, error) {
	today := dayStart(s.now())
	start := today.AddDate(0, 0, -(days - 1))

	var meals []models.Meal
	q := scopeUser(s.db.Where("meal_date >= ?", start), userID)
	if err := q.Find(&meals).Error; err != nil {
		return nil, err
	}

	daily := make(map[string]float64, days)
	for i := 0; i < days; i++ {
		daily[dateKey(start.AddDate(0, 0, i))] = 0
	}
	for _, m := range meals {
		key := dateKey(m.MealDate)
		if _, ok := daily[key]; ok {
			daily[key] += m.Calories
		}
	}

	total := 0.0
	for _, v := range daily {
		total += v
	}
	avg := 0.0
	if days > 0 {
		avg = total / float64(days)
	}

	trend := make([]CalorieTrendPoint, 0, days)
	for i := 0; i < days; i++ {
		key := dateKey(start.AddDate(0, 0, i))
		trend = append(trend, CalorieTrendPoint{Date: key, Calories: round1(daily[key])})
	}

	return &DailyCalorieTotals{
		PeriodDays:           days,
		StartDate:            dateKey(start),
		EndDate:              dateKey(today),
		TotalCalories:        round1(total),
		AverageDailyCalories: round1(avg),
		DailyCalories:        daily,
		TrendData:            trend,
	}, nil
}

// ---------- Macronutrient totals ----------

type MacroGrams struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

type MacroPercentages struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

type MacroChartPoint struct {
	Nutrient string  `json:"nutrient"`
	Grams    float64 `json:"grams"`
}

type MacronutrientTotals struct {
	Date           string            `json:"date"`
	TotalMeals     int               `json:"total_meals"`
	TotalCalories  float64           `json:"total_calories"`
	Macronutrients MacroGrams        `json:"macronutrients"`
	Percentages    MacroPercentages  `json:"percentages"`
	ChartData      []MacroChartPoint `json:"chart_data"`
}

// MacronutrientTotals sums grams per macro for one date. Percentages are
// computed over protein+carbs+fat only; fiber is reported as an absolute but
// excluded from the denominator.
func (s *AnalyticsService) MacronutrientTotals(userID uint, targetDate time.Time) (*MacronutrientTotals, error) {
	var meals []models.Meal
	q := scopeUser(s.db.Where("meal_date BETWEEN ? AND ?", dayStart(targetDate), dayEnd(targetDate)), userID)
	if err := q.Find(&meals).Error; err != nil {
		return nil, err
	}

	var protein, carbs, fat, fiber, calories float64
	for _, m := range meals {
		protein += m.ProteinG
		carbs += m.CarbsG
		fat += m.FatG
		fiber += m.FiberG
		calories += m.Calories
	}

	var proteinPct, carbsPct, fatPct float64
	if denom := protein + carbs + fat; denom > 0 {
		proteinPct = protein / denom * 100
		carbsPct = carbs / denom * 100
		fatPct = fat / denom * 100
	}

	return &MacronutrientTotals{
		Date:          dateKey(targetDate),
		TotalMeals:    len(meals),
		TotalCalories: round1(calories),
		Macronutrients: MacroGrams{
			ProteinG: round1(protein),
			CarbsG:   round1(carbs),
			FatG:     round1(fat),
			FiberG:   round1(fiber),
		},
		Percentages: MacroPercentages{
			Protein: round1(proteinPct),
			Carbs:   round1(carbsPct),
			Fat:     round1(fatPct),
		},
		ChartData: []MacroChartPoint{
			{Nutrient: "Protein", Grams: round1(protein)},
			{Nutrient: "Carbs", Grams: round1(carbs)},
			{Nutrient: "Fat", Grams: round1(fat)},
		},
	}, nil
}

// ---------- Weight trend ----------

type WeightTrendPoint struct {
	Date     string   `json:"date"`
	WeightKg float64  `json:"weight_kg"`
	BMI      *float64 `json:"bmi"`
}

type WeightStatistics struct {
	FirstWeightKg   float64 `json:"first_weight_kg"`
	LastWeightKg    float64 `json:"last_weight_kg"`
	WeightChangeKg  float64 `json:"weight_change_kg"`
	MinWeightKg     float64 `json:"min_weight_kg"`
	MaxWeightKg     float64 `json:"max_weight_kg"`
	AverageWeightKg float64 `json:"average_weight_kg"`
}

type WeightTrendData struct {
	PeriodDays   int                `json:"period_days"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	TotalRecords int                `json:"total_records"`
	Statistics   *WeightStatistics  `json:"statistics"`
	TrendData    []WeightTrendPoint `json:"trend_data"`
}

// WeightTrendData lists weight records over the past N days, oldest first,
// with first/last/min/max/average statistics. Empty windows return the zero
// shape with nil statistics rather than an error.
func (s *AnalyticsService) WeightTrendData(userID uint, days int) (*WeightTrendData, error) {
	today := dayStart(s.now())
	start := today.AddDate(0, 0, -days)

	var records []models.WeightLog
	q := scopeUser(s.db.Where("log_date >= ?", start), userID)
	if err := q.Order("log_date ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	out := &WeightTrendData{
		PeriodDays:   days,
		StartDate:    dateKey(start),
		EndDate:      dateKey(today),
		TotalRecords: len(records),
		TrendData:    []WeightTrendPoint{},
	}
	if len(records) == 0 {
		return out, nil
	}

	first := records[0].WeightKg
	last := records[len(records)-1].WeightKg
	min, max, sum := first, first, 0.0
	for _, r := range records {
		if r.WeightKg < min {
			min = r.WeightKg
		}
		if r.WeightKg > max {
			max = r.WeightKg
		}
		sum += r.WeightKg
		out.TrendData = append(out.TrendData, WeightTrendPoint{
			Date:     dateKey(r.LogDate),
			WeightKg: r.WeightKg,
			BMI:      r.BMI,
		})
	}

	out.Statistics = &WeightStatistics{
		FirstWeightKg:   first,
		LastWeightKg:    last,
		WeightChangeKg:  round1(last - first),
		MinWeightKg:     min,
		MaxWeightKg:     max,
		AverageWeightKg: round1(sum / float64(len(records))),
	}
	return out, nil
}

// ---------- Dashboard summary ----------

type TodayTotals struct {
	Calories float64 `json:"calories"`
	WaterMl  int     `json:"water_ml"`
}

type WeekTotals struct {
	WorkoutCount   int `json:"workout_count"`
	WorkoutMinutes int `json:"workout_minutes"`
}

type SleepAverages struct {
	SleepHours7Day float64 `json:"sleep_hours_7day"`
}

type LatestWeight struct {
	WeightKg *float64 `json:"weight_kg"`
	BMI      *float64 `json:"bmi"`
	Date     *string  `json:"date"`
}

type DashboardSummary struct {
	Date         string        `json:"date"`
	Today        TodayTotals   `json:"today"`
	ThisWeek     WeekTotals    `json:"this_week"`
	Averages     SleepAverages `json:"averages"`
	LatestWeight LatestWeight  `json:"latest_weight"`
}

// DashboardSummary combines today's intake, this ISO week's workouts, the
// recent sleep average and the latest weight into one response.
func (s *AnalyticsService) DashboardSummary(userID uint) (*DashboardSummary, error) {
	today := dayStart(s.now())

	var meals []models.Meal
	if err := scopeUser(s.db.Where("meal_date BETWEEN ? AND ?", today, dayEnd(today)), userID).Find(&meals).Error; err != nil {
		return nil, err
	}
	todayCalories := 0.0
	for _, m := range meals {
		todayCalories += m.Calories
	}

	var water []models.WaterIntake
	if err := scopeUser(s.db.Where("intake_date BETWEEN ? AND ?", today, dayEnd(today)), userID).Find(&water).Error; err != nil {
		return nil, err
	}
	todayWater := 0
	for _, w := range water {
		todayWater += w.AmountMl
	}

	weekStart := weekStartMonday(today)
	var workouts []models.Workout
	if err := scopeUser(s.db.Where("workout_date >= ?", weekStart), userID).Find(&workouts).Error; err != nil {
		return nil, err
	}
	weekMinutes := 0
	for _, w := range workouts {
		weekMinutes += w.DurationMinutes
	}

	sleepStart := today.AddDate(0, 0, -7)
	var sleep []models.SleepRecord
	if err := scopeUser(s.db.Where("sleep_date >= ?", sleepStart), userID).Find(&sleep).Error; err != nil {
		return nil, err
	}
	avgSleep := 0.0
	if len(sleep) > 0 {
		total := 0.0
		for _, r := range sleep {
			total += r.TotalHours
		}
		avgSleep = total / float64(len(sleep))
	}

	latest := LatestWeight{}
	var weight models.WeightLog
	err := scopeUser(s.db.Order("log_date DESC"), userID).First(&weight).Error
	if err == nil {
		d := dateKey(weight.LogDate)
		latest = LatestWeight{WeightKg: &weight.WeightKg, BMI: weight.BMI, Date: &d}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return &DashboardSummary{
		Date:         dateKey(today),
		Today:        TodayTotals{Calories: round1(todayCalories), WaterMl: todayWater},
		ThisWeek:     WeekTotals{WorkoutCount: len(workouts), WorkoutMinutes: weekMinutes},
		Averages:     SleepAverages{SleepHours7Day: round1(avgSleep)},
		LatestWeight: latest,
	}, nil
}

// ---------- Combined dashboard payloads ----------

type DashboardData struct {
	Summary        *DashboardSummary     `json:"summary"`
	WeeklyWorkouts *WeeklyWorkoutMinutes `json:"weekly_workouts"`
	DailyCalories  *DailyCalorieTotals   `json:"daily_calories"`
	Macronutrients *MacronutrientTotals  `json:"macronutrients"`
	WeightTrend    *WeightTrendData      `json:"weight_trend"`
}

func (s *AnalyticsService) Dashboard(userID uint) (*DashboardData, error) {
	summary, err := s.DashboardSummary(userID)
	if err != nil {
		return nil, err
	}
	weekly, err := s.WeeklyWorkoutMinutes(userID)
	if err != nil {
		return nil, err
	}
	calories, err := s.DailyCalorieTotals(userID, 7)
	if err != nil {
		return nil, err
	}
	macros, err := s.MacronutrientTotals(userID, s.now())
	if err != nil {
		return nil, err
	}
	weight, err := s.WeightTrendData(userID, 30)
	if err != nil {
		return nil, err
	}
	return &DashboardData{
		Summary:        summary,
		WeeklyWorkouts: weekly,
		DailyCalories:  calories,
		Macronutrients: macros,
		WeightTrend:    weight,
	}, nil
}

type WeeklyStats struct {
	Workouts *WeeklyWorkoutMinutes `json:"workouts"`
	Calories *DailyCalorieTotals   `json:"calories"`
}

func (s *AnalyticsService) Weekly(userID uint) (*WeeklyStats, error) {
	workouts, err := s.WeeklyWorkoutMinutes(userID)
	if err != nil {
		return nil, err
	}
	calories, err := s.DailyCalorieTotals(userID, 7)
	if err != nil {
		return nil, err
	}
	return &WeeklyStats{Workouts: workouts, Calories: calories}, nil
}

type MonthlyStats struct {
	Calories *DailyCalorieTotals `json:"calories"`
	Weight   *WeightTrendData    `json:"weight"`
}

func (s *AnalyticsService) Monthly(userID uint) (*MonthlyStats, error) {
	calories, err := s.DailyCalorieTotals(userID, 30)
	if err != nil {
		return nil, err
	}
	weight, err := s.WeightTrendData(userID, 30)
	if err != nil {
		return nil, err
	}
	return &MonthlyStats{Calories: calories, Weight: weight}, nil
}

// ---------- Today progress ----------

// Fallback goals used when the user profile does not carry its own.
const (
	defaultWaterGoalMl    = 3000
	defaultSleepGoalHours = 8
	defaultWorkoutGoalMin = 60
	defaultCalorieGoal    = 2000
)

type WaterProgress struct {
	TotalMl    int `json:"total_ml"`
	GoalMl     int `json:"goal_ml"`
	Percentage int `json:"percentage"`
}

type SleepProgress struct {
	Hours      float64 `json:"hours"`
	GoalHours  float64 `json:"goal_hours"`
	Percentage int     `json:"percentage"`
	Quality    *int    `json:"quality"`
}

type WorkoutProgress struct {
	Minutes        int     `json:"minutes"`
	GoalMinutes    int     `json:"goal_minutes"`
	Percentage     int     `json:"percentage"`
	CaloriesBurned float64 `json:"calories_burned"`
}

type NutritionProgress struct {
	Calories   float64 `json:"calories"`
	Goal       int     `json:"goal"`
	Percentage int     `json:"percentage"`
}

type TodayProgress struct {
	Water     WaterProgress     `json:"water"`
	Sleep     SleepProgress     `json:"sleep"`
	Workouts  WorkoutProgress   `json:"workouts"`
	Nutrition NutritionProgress `json:"nutrition"`
}

// TodayProgress reports today's totals against the user's daily goals, each as
// a capped percentage.
func (s *AnalyticsService) TodayProgress(userID uint) (*TodayProgress, error) {
	today := dayStart(s.now())

	waterGoal := defaultWaterGoalMl
	calorieGoal := defaultCalorieGoal
	var user models.User
	if err := s.db.First(&user, userID).Error; err == nil {
		if user.DailyWaterGoalMl > 0 {
			waterGoal = user.DailyWaterGoalMl
		}
		if user.DailyCalorieGoal > 0 {
			calorieGoal = user.DailyCalorieGoal
		}
	}

	var water []models.WaterIntake
	if err := s.db.Where("user_id = ? AND intake_date BETWEEN ? AND ?", userID, today, dayEnd(today)).Find(&water).Error; err != nil {
		return nil, err
	}
	waterSum := 0
	for _, w := range water {
		waterSum += w.AmountMl
	}

	// Last night's sleep: most recent record from yesterday on.
	var sleepHours float64
	var quality *int
	var sleepRec models.SleepRecord
	err := s.db.Where("user_id = ? AND sleep_date >= ?", userID, today.AddDate(0, 0, -1)).
		Order("sleep_date DESC").First(&sleepRec).Error
	if err == nil {
		sleepHours = sleepRec.TotalHours
		quality = sleepRec.SleepQuality
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var workouts []models.Workout
	if err := s.db.Where("user_id = ? AND workout_date BETWEEN ? AND ?", userID, today, dayEnd(today)).Find(&workouts).Error; err != nil {
		return nil, err
	}
	workoutMinutes := 0
	workoutCalories := 0.0
	for _, w := range workouts {
		workoutMinutes += w.DurationMinutes
		if w.CaloriesBurned != nil {
			workoutCalories += *w.CaloriesBurned
		}
	}

	var meals []models.Meal
	if err := s.db.Where("user_id = ? AND meal_date BETWEEN ? AND ?", userID, today, dayEnd(today)).Find(&meals).Error; err != nil {
		return nil, err
	}
	calories := 0.0
	for _, m := range meals {
		calories += m.Calories
	}

	return &TodayProgress{
		Water: WaterProgress{
			TotalMl:    waterSum,
			GoalMl:     waterGoal,
			Percentage: GoalProgress(float64(waterSum), float64(waterGoal)),
		},
		Sleep: SleepProgress{
			Hours:      round1(sleepHours),
			GoalHours:  defaultSleepGoalHours,
			Percentage: GoalProgress(sleepHours, defaultSleepGoalHours),
			Quality:    quality,
		},
		Workouts: WorkoutProgress{
			Minutes:        workoutMinutes,
			GoalMinutes:    defaultWorkoutGoalMin,
			Percentage:     GoalProgress(float64(workoutMinutes), defaultWorkoutGoalMin),
			CaloriesBurned: workoutCalories,
		},
		Nutrition: NutritionProgress{
			Calories:   calories,
			Goal:       calorieGoal,
			Percentage: GoalProgress(calories, float64(calorieGoal)),
		},
	}, nil
}

// ---------- Weekly overview (rolling 7-day, week-over-week) ----------

type WeekMetrics struct {
	CaloriesBurned  float64 `json:"calories_burned"`
	WorkoutSessions int     `json:"workout_sessions"`
	AvgSleep        float64 `json:"avg_sleep"`
	TotalWater      int     `json:"total_water"`
}

type WeekChanges struct {
	CaloriesBurned  int `json:"calories_burned"`
	WorkoutSessions int `json:"workout_sessions"`
	AvgSleep        int `json:"avg_sleep"`
	TotalWater      int `json:"total_water"`
}

type WeeklyOverview struct {
	Current  WeekMetrics `json:"current"`
	Previous WeekMetrics `json:"previous"`
	Change   WeekChanges `json:"change"`
}

// WeeklyOverview compares the rolling 7-day window ending today against the 7
// days before it. This deliberately uses the rolling convention, not the ISO
// week of the workout summary.
func (s *AnalyticsService) WeeklyOverview(userID uint) (*WeeklyOverview, error) {
	today := dayStart(s.now())
	weekStart := today.AddDate(0, 0, -6)
	prevStart := weekStart.AddDate(0, 0, -7)
	prevEnd := weekStart.AddDate(0, 0, -1)

	current, err := s.weekMetrics(userID, weekStart, dayEnd(today))
	if err != nil {
		return nil, err
	}
	previous, err := s.weekMetrics(userID, prevStart, dayEnd(prevEnd))
	if err != nil {
		return nil, err
	}

	return &WeeklyOverview{
		Current:  *current,
		Previous: *previous,
		Change: WeekChanges{
			CaloriesBurned:  PercentChange(current.CaloriesBurned, previous.CaloriesBurned),
			WorkoutSessions: PercentChange(float64(current.WorkoutSessions), float64(previous.WorkoutSessions)),
			AvgSleep:        PercentChange(current.AvgSleep, previous.AvgSleep),
			TotalWater:      PercentChange(float64(current.TotalWater), float64(previous.TotalWater)),
		},
	}, nil
}

func (s *AnalyticsService) weekMetrics(userID uint, from, to time.Time) (*WeekMetrics, error) {
	var workouts []models.Workout
	if err := scopeUser(s.db.Where("workout_date BETWEEN ? AND ?", from, to), userID).Find(&workouts).Error; err != nil {
		return nil, err
	}
	calories := 0.0
	for _, w := range workouts {
		if w.CaloriesBurned != nil {
			calories += *w.CaloriesBurned
		}
	}

	var sleep []models.SleepRecord
	if err := scopeUser(s.db.Where("sleep_date BETWEEN ? AND ?", from, to), userID).Find(&sleep).Error; err != nil {
		return nil, err
	}
	avgSleep := 0.0
	if len(sleep) > 0 {
		total := 0.0
		for _, r := range sleep {
			total += r.TotalHours
		}
		avgSleep = total / float64(len(sleep))
	}

	var water []models.WaterIntake
	if err := scopeUser(s.db.Where("intake_date BETWEEN ? AND ?", from, to), userID).Find(&water).Error; err != nil {
		return nil, err
	}
	waterSum := 0
	for _, w := range water {
		waterSum += w.AmountMl
	}

	return &WeekMetrics{
		CaloriesBurned:  calories,
		WorkoutSessions: len(workouts),
		AvgSleep:        round1(avgSleep),
		TotalWater:      waterSum,
	}, nil
}

// ---------- Workouts chart (last 7 days) ----------

type WorkoutChartPoint struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

// WorkoutsChart returns per-day workout minutes for the last 7 days, zero for
// days without workouts.
func (s *AnalyticsService) WorkoutsChart(userID uint) ([]WorkoutChartPoint, error) {
	today := dayStart(s.now())
	start := today.AddDate(0, 0, -6)

	var workouts []models.Workout
	if err := scopeUser(s.db.Where("workout_date >= ?", start), userID).Find(&workouts).Error; err != nil {
		return nil, err
	}

	minutesByDay := map[string]int{}
	for _, w := range workouts {
		minutesByDay[dateKey(w.WorkoutDate)] += w.DurationMinutes
	}

	points := make([]WorkoutChartPoint, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		points = append(points, WorkoutChartPoint{
			Day:     d.Format("Mon"),
			Minutes: minutesByDay[dateKey(d)],
		})
	}
	return points, nil
}
