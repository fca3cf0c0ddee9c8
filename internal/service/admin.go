package service

import (
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// AdminService aggregates across all users for the admin dashboard. Most
// numbers are real aggregates; the handful that are estimates or display
// filler are isolated in clearly named helpers.
type AdminService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

func NewAdminService(db *gorm.DB, activity *ActivityService) *AdminService {
	return &AdminService{db: db, activity: activity, now: time.Now}
}

// SystemStats is the headline counters block.
type SystemStats struct {
	TotalUsers       int64            `json:"total_users"`
	ActiveUsers      int64            `json:"active_users"`
	BlacklistedUsers int64            `json:"blacklisted_users"`
	AdminUsers       int64            `json:"admin_users"`
	NewUsers24h      int64            `json:"new_users_24h"`
	TotalWorkouts    int64            `json:"total_workouts"`
	TotalMeals       int64            `json:"total_meals"`
	TotalSleepLogs   int64            `json:"total_sleep_logs"`
	TotalWaterLogs   int64            `json:"total_water_logs"`
	TotalWeightLogs  int64            `json:"total_weight_logs"`
	TotalGoals       int64            `json:"total_goals"`
	UsersByRole      map[string]int64 `json:"users_by_role"`
	WorkoutsByType   map[string]int64 `json:"workouts_by_type"`
}

func (s *AdminService) SystemStats() (*SystemStats, error) {
	stats := &SystemStats{
		UsersByRole:    map[string]int64{},
		WorkoutsByType: map[string]int64{},
	}

	counts := []struct {
		dst   *int64
		model interface{}
		where []interface{}
	}{
		{&stats.TotalUsers, &models.User{}, nil},
		{&stats.ActiveUsers, &models.User{}, []interface{}{"is_active = ? AND is_blacklisted = ?", true, false}},
		{&stats.BlacklistedUsers, &models.User{}, []interface{}{"is_blacklisted = ?", true}},
		{&stats.AdminUsers, &models.User{}, []interface{}{"role = ?", models.RoleAdmin}},
		{&stats.NewUsers24h, &models.User{}, []interface{}{"created_at >= ?", s.now().Add(-24 * time.Hour)}},
		{&stats.TotalWorkouts, &models.Workout{}, nil},
		{&stats.TotalMeals, &models.Meal{}, nil},
		{&stats.TotalSleepLogs, &models.SleepRecord{}, nil},
		{&stats.TotalWaterLogs, &models.WaterIntake{}, nil},
		{&stats.TotalWeightLogs, &models.WeightLog{}, nil},
		{&stats.TotalGoals, &models.Goal{}, nil},
	}
	for _, c := range counts {
		q := s.db.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byRole []bucket
	if err := s.db.Model(&models.User{}).
		Select("role AS key, COUNT(id) AS count").Group("role").Scan(&byRole).Error; err != nil {
		return nil, err
	}
	for _, b := range byRole {
		stats.UsersByRole[b.Key] = b.Count
	}

	var byType []bucket
	if err := s.db.Model(&models.Workout{}).
		Select("workout_type AS key, COUNT(id) AS count").Group("workout_type").Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.WorkoutsByType[b.Key] = b.Count
	}

	return stats, nil
}

// NamedValue is the generic chart slice {name, value}.
type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// HeatmapCell is one 3-hour slot in the activity heatmap.
type HeatmapCell struct {
	Date  string `json:"date"`
	Slot  int    `json:"slot"` // 0..7, each covering 3 hours
	Count int    `json:"count"`
}

type GrowthPoint struct {
	Date  string `json:"date"`
	Users int64  `json:"users"`
}

// AdminOverview is the dashboard payload. Sparklines and growth are real
// aggregates; active_users_estimate and the radar are demo-grade numbers.
type AdminOverview struct {
	TotalUsers          int64         `json:"total_users"`
	NewUsers24h         int64         `json:"new_users_24h"`
	ActiveUsersEstimate int           `json:"active_users_estimate"`
	SignupSparkline     []int         `json:"signup_sparkline"`
	ActivitySparkline   []int         `json:"activity_sparkline"`
	UserGrowth          []GrowthPoint `json:"user_growth"`
	GenderDistribution  []NamedValue  `json:"gender_distribution"`
	AgeDistribution     []NamedValue  `json:"age_distribution"`
	ActivityHeatmap     []HeatmapCell `json:"activity_heatmap"`
	EngagementRadar     []NamedValue  `json:"engagement_radar"`
}

func (s *AdminService) Overview() (*AdminOverview, error) {
	now := s.now()
	today := dayStart(now)

	var totalUsers, newUsers24h int64
	if err := s.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).
		Where("created_at >= ?", now.Add(-24*time.Hour)).Count(&newUsers24h).Error; err != nil {
		return nil, err
	}

	signups, err := s.dailyCounts(&models.User{}, "created_at", today, 7)
	if err != nil {
		return nil, err
	}
	activity, err := s.dailyCounts(&models.ActivityLog{}, "created_at", today, 7)
	if err != nil {
		return nil, err
	}

	growth, err := s.userGrowth(today)
	if err != nil {
		return nil, err
	}

	gender, err := s.genderDistribution()
	if err != nil {
		return nil, err
	}
	age, err := s.ageDistribution()
	if err != nil {
		return nil, err
	}

	heatmap, err := s.activityHeatmap(today)
	if err != nil {
		return nil, err
	}

	return &AdminOverview{
		TotalUsers:          totalUsers,
		NewUsers24h:         newUsers24h,
		ActiveUsersEstimate: estimateActiveUsers(totalUsers, newUsers24h),
		SignupSparkline:     signups,
		ActivitySparkline:   activity,
		UserGrowth:          growth,
		GenderDistribution:  gender,
		AgeDistribution:     age,
		ActivityHeatmap:     heatmap,
		EngagementRadar:     demoEngagementRadar(),
	}, nil
}

// dailyCounts counts rows per day for the last N days ending today, oldest
// first, zero-filled.
func (s *AdminService) dailyCounts(model interface{}, column string, today time.Time, days int) ([]int, error) {
	out := make([]int, days)
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, -(days - 1 - i))
		var n int64
		if err := s.db.Model(model).
			Where(column+" BETWEEN ? AND ?", d, dayEnd(d)).Count(&n).Error; err != nil {
			return nil, err
		}
		out[i] = int(n)
	}
	return out, nil
}

// userGrowth is a 31-point cumulative user count ending today.
func (s *AdminService) userGrowth(today time.Time) ([]GrowthPoint, error) {
	points := make([]GrowthPoint, 0, 31)
	for i := 30; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		var n int64
		if err := s.db.Model(&models.User{}).
			Where("created_at <= ?", dayEnd(d)).Count(&n).Error; err != nil {
			return nil, err
		}
		points = append(points, GrowthPoint{Date: dateKey(d), Users: n})
	}
	return points, nil
}

func (s *AdminService) genderDistribution() ([]NamedValue, error) {
	type bucket struct {
		Key   string
		Count int64
	}
	var buckets []bucket
	if err := s.db.Model(&models.User{}).Where("gender <> ''").
		Select("gender AS key, COUNT(id) AS count").Group("gender").Scan(&buckets).Error; err != nil {
		return nil, err
	}
	out := make([]NamedValue, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, NamedValue{Name: b.Key, Value: int(b.Count)})
	}
	return withPlaceholder(out), nil
}

func (s *AdminService) ageDistribution() ([]NamedValue, error) {
	var users []models.User
	if err := s.db.Where("age IS NOT NULL").Find(&users).Error; err != nil {
		return nil, err
	}

	bands := []struct {
		name     string
		min, max int
	}{
		{"<18", 0, 17},
		{"18-25", 18, 25},
		{"26-35", 26, 35},
		{"36-50", 36, 50},
		{"51+", 51, 200},
	}
	counts := make([]int, len(bands))
	for _, u := range users {
		for i, b := range bands {
			if *u.Age >= b.min && *u.Age <= b.max {
				counts[i]++
				break
			}
		}
	}

	out := make([]NamedValue, 0, len(bands))
	for i, b := range bands {
		if counts[i] > 0 {
			out = append(out, NamedValue{Name: b.name, Value: counts[i]})
		}
	}
	return withPlaceholder(out), nil
}

// activityHeatmap buckets audit entries into 3-hour slots over the last 14
// days.
func (s *AdminService) activityHeatmap(today time.Time) ([]HeatmapCell, error) {
	start := today.AddDate(0, 0, -13)

	var logs []models.ActivityLog
	if err := s.db.Where("created_at >= ?", start).Find(&logs).Error; err != nil {
		return nil, err
	}

	counts := map[string]map[int]int{}
	for _, l := range logs {
		d := dateKey(l.CreatedAt)
		if counts[d] == nil {
			counts[d] = map[int]int{}
		}
		counts[d][l.CreatedAt.Hour()/3]++
	}

	cells := make([]HeatmapCell, 0, 14*8)
	for i := 0; i < 14; i++ {
		d := dateKey(start.AddDate(0, 0, i))
		for slot := 0; slot < 8; slot++ {
			cells = append(cells, HeatmapCell{Date: d, Slot: slot, Count: counts[d][slot]})
		}
	}
	return cells, nil
}

// withPlaceholder substitutes a single "No Data" slice for an empty
// distribution so pie charts render something.
func withPlaceholder(values []NamedValue) []NamedValue {
	if len(values) == 0 {
		return []NamedValue{{Name: "No Data", Value: 1}}
	}
	return values
}

// estimateActiveUsers is a display-only heuristic, not a measurement: recent
// signups plus 15% of the base, floored at 1 when anyone exists at all.
func estimateActiveUsers(totalUsers, newUsers24h int64) int {
	estimate := int(newUsers24h) + int(float64(totalUsers)*0.15)
	if estimate < 1 && totalUsers > 0 {
		return 1
	}
	return estimate
}

// demoEngagementRadar fills the radar chart with plausible random values.
// There is no real engagement scoring behind it.
func demoEngagementRadar() []NamedValue {
	axes := []string{"Workouts", "Nutrition", "Sleep", "Hydration", "Goals"}
	out := make([]NamedValue, 0, len(axes))
	for _, name := range axes {
		out = append(out, NamedValue{Name: name, Value: 40 + rand.Intn(55)})
	}
	return out
}

// UserDetails is the admin view of one account with derived extras.
type UserDetails struct {
	User          models.User `json:"user"`
	BMI           *float64    `json:"bmi"`
	WorkoutCount  int64       `json:"workout_count"`
	MealCount     int64       `json:"meal_count"`
	SleepCount    int64       `json:"sleep_count"`
	WaterCount    int64       `json:"water_count"`
	WeightCount   int64       `json:"weight_count"`
	GoalCount     int64       `json:"goal_count"`
	LastActivity  *time.Time  `json:"last_activity"`
}

func (s *AdminService) UserDetails(id uint) (*UserDetails, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	out := &UserDetails{User: user, BMI: user.BMI()}
	counts := []struct {
		dst   *int64
		model interface{}
	}{
		{&out.WorkoutCount, &models.Workout{}},
		{&out.MealCount, &models.Meal{}},
		{&out.SleepCount, &models.SleepRecord{}},
		{&out.WaterCount, &models.WaterIntake{}},
		{&out.WeightCount, &models.WeightLog{}},
		{&out.GoalCount, &models.Goal{}},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Where("user_id = ?", id).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var last models.ActivityLog
	if err := s.db.Where("user_id = ?", id).Order("created_at DESC").First(&last).Error; err == nil {
		out.LastActivity = &last.CreatedAt
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return out, nil
}

// UserActivity is the per-user audit trail, most recent first.
func (s *AdminService) UserActivity(id uint, limit int) ([]models.ActivityLog, error) {
	return s.activity.List(ActivityFilter{UserID: id, Limit: limit})
}
