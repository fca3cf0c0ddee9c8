package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// WorkoutService owns workout CRUD and the per-entity summaries. Every mutation
// writes an audit entry.
type WorkoutService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

func NewWorkoutService(db *gorm.DB, activity *ActivityService) *WorkoutService {
	return &WorkoutService{db: db, activity: activity, now: time.Now}
}

type WorkoutInput struct {
	WorkoutType     string     `json:"workout_type" binding:"required"`
	WorkoutName     string     `json:"workout_name" binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"required,gt=0"`
	CaloriesBurned  *float64   `json:"calories_burned"`
	DistanceKm      *float64   `json:"distance_km"`
	WorkoutDate     *time.Time `json:"-"`
	StartTime       string     `json:"start_time"`
	Intensity       string     `json:"intensity" binding:"omitempty,oneof=low medium high"`
	Notes           string     `json:"notes"`
}

func (s *WorkoutService) Create(user *models.User, in WorkoutInput) (*models.Workout, error) {
	date := dayStart(s.now())
	if in.WorkoutDate != nil {
		date = dayStart(*in.WorkoutDate)
	}

	workout := models.Workout{
		UserID:          user.ID,
		WorkoutType:     in.WorkoutType,
		WorkoutName:     in.WorkoutName,
		DurationMinutes: in.DurationMinutes,
		CaloriesBurned:  in.CaloriesBurned,
		DistanceKm:      in.DistanceKm,
		WorkoutDate:     date,
		StartTime:       in.StartTime,
		Intensity:       in.Intensity,
		Notes:           in.Notes,
	}
	if err := s.db.Create(&workout).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionCreate, &workout,
		fmt.Sprintf("Logged workout: %s (%d min)", workout.WorkoutName, workout.DurationMinutes))
	return &workout, nil
}

// ListFilter bounds a listing window. Nil dates mean unbounded on that side.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Limit     int
}

func (s *WorkoutService) List(userID uint, f ListFilter) ([]models.Workout, error) {
	query := s.db.Where("user_id = ?", userID)
	if f.StartDate != nil {
		query = query.Where("workout_date >= ?", dayStart(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("workout_date <= ?", dayEnd(*f.EndDate))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var workouts []models.Workout
	err := query.Order("workout_date DESC").Offset(f.Skip).Limit(limit).Find(&workouts).Error
	return workouts, err
}

func (s *WorkoutService) Get(userID, id uint) (*models.Workout, error) {
	var workout models.Workout
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&workout).Error; err != nil {
		return nil, err
	}
	return &workout, nil
}

type WorkoutUpdate struct {
	WorkoutType     *string    `json:"workout_type"`
	WorkoutName     *string    `json:"workout_name"`
	DurationMinutes *int       `json:"duration_minutes"`
	CaloriesBurned  *float64   `json:"calories_burned"`
	DistanceKm      *float64   `json:"distance_km"`
	WorkoutDate     *time.Time `json:"-"`
	StartTime       *string    `json:"start_time"`
	Intensity       *string    `json:"intensity" binding:"omitempty,oneof=low medium high"`
	Notes           *string    `json:"notes"`
}

func (s *WorkoutService) Update(user *models.User, id uint, in WorkoutUpdate) (*models.Workout, error) {
	workout, err := s.Get(user.ID, id)
	if err != nil {
		return nil, err
	}

	if in.WorkoutType != nil {
		workout.WorkoutType = *in.WorkoutType
	}
	if in.WorkoutName != nil {
		workout.WorkoutName = *in.WorkoutName
	}
	if in.DurationMinutes != nil {
		workout.DurationMinutes = *in.DurationMinutes
	}
	if in.CaloriesBurned != nil {
		workout.CaloriesBurned = in.CaloriesBurned
	}
	if in.DistanceKm != nil {
		workout.DistanceKm = in.DistanceKm
	}
	if in.WorkoutDate != nil {
		workout.WorkoutDate = dayStart(*in.WorkoutDate)
	}
	if in.StartTime != nil {
		workout.StartTime = *in.StartTime
	}
	if in.Intensity != nil {
		workout.Intensity = *in.Intensity
	}
	if in.Notes != nil {
		workout.Notes = *in.Notes
	}

	if err := s.db.Save(workout).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionUpdate, workout,
		fmt.Sprintf("Updated workout: %s", workout.WorkoutName))
	return workout, nil
}

func (s *WorkoutService) Delete(user *models.User, id uint) error {
	workout, err := s.Get(user.ID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(workout).Error; err != nil {
		return err
	}
	s.audit(user, models.ActionDelete, workout,
		fmt.Sprintf("Deleted workout: %s", workout.WorkoutName))
	return nil
}

func (s *WorkoutService) audit(user *models.User, action string, workout *models.Workout, description string) {
	if s.activity == nil {
		return
	}
	uid := user.ID
	wid := workout.ID
	s.activity.Record(&uid, user.Username, action, "workout", &wid, description, "")
}

// WorkoutWeeklySummary covers the current ISO week starting Monday.
type WorkoutWeeklySummary struct {
	WeekStart      string         `json:"week_start"`
	WorkoutCount   int            `json:"workout_count"`
	TotalMinutes   int            `json:"total_minutes"`
	TotalCalories  float64        `json:"total_calories"`
	TotalDistance  float64        `json:"total_distance_km"`
	MinutesByType  map[string]int `json:"minutes_by_type"`
	AverageMinutes float64        `json:"average_minutes"`
}

func (s *WorkoutService) WeeklySummary(userID uint) (*WorkoutWeeklySummary, error) {
	weekStart := weekStartMonday(s.now())

	var workouts []models.Workout
	if err := s.db.Where("user_id = ? AND workout_date >= ?", userID, weekStart).Find(&workouts).Error; err != nil {
		return nil, err
	}

	out := &WorkoutWeeklySummary{
		WeekStart:     dateKey(weekStart),
		WorkoutCount:  len(workouts),
		MinutesByType: map[string]int{},
	}
	for _, w := range workouts {
		out.TotalMinutes += w.DurationMinutes
		out.MinutesByType[w.WorkoutType] += w.DurationMinutes
		if w.CaloriesBurned != nil {
			out.TotalCalories += *w.CaloriesBurned
		}
		if w.DistanceKm != nil {
			out.TotalDistance += *w.DistanceKm
		}
	}
	if len(workouts) > 0 {
		out.AverageMinutes = round1(float64(out.TotalMinutes) / float64(len(workouts)))
	}
	out.TotalCalories = round1(out.TotalCalories)
	out.TotalDistance = round1(out.TotalDistance)
	return out, nil
}

// WorkoutDailySummary totals one calendar day.
type WorkoutDailySummary struct {
	Date          string           `json:"date"`
	WorkoutCount  int              `json:"workout_count"`
	TotalMinutes  int              `json:"total_minutes"`
	TotalCalories float64          `json:"total_calories"`
	Workouts      []models.Workout `json:"workouts"`
}

func (s *WorkoutService) DailySummary(userID uint, date time.Time) (*WorkoutDailySummary, error) {
	var workouts []models.Workout
	if err := s.db.Where("user_id = ? AND workout_date BETWEEN ? AND ?",
		userID, dayStart(date), dayEnd(date)).Find(&workouts).Error; err != nil {
		return nil, err
	}

	out := &WorkoutDailySummary{
		Date:         dateKey(date),
		WorkoutCount: len(workouts),
		Workouts:     workouts,
	}
	for _, w := range workouts {
		out.TotalMinutes += w.DurationMinutes
		if w.CaloriesBurned != nil {
			out.TotalCalories += *w.CaloriesBurned
		}
	}
	out.TotalCalories = round1(out.TotalCalories)
	return out, nil
}

// DaySeriesPoint is one zero-filled day in a rolling series.
type DaySeriesPoint struct {
	Date     string  `json:"date"`
	Minutes  int     `json:"minutes"`
	Calories float64 `json:"calories"`
	Count    int     `json:"count"`
}

// WeeklySeries returns the rolling 7-day window ending today, one point per
// day, zero-filled.
func (s *WorkoutService) WeeklySeries(userID uint) ([]DaySeriesPoint, error) {
	today := dayStart(s.now())
	start := today.AddDate(0, 0, -6)

	var workouts []models.Workout
	if err := s.db.Where("user_id = ? AND workout_date >= ?", userID, start).Find(&workouts).Error; err != nil {
		return nil, err
	}

	byDay := map[string]*DaySeriesPoint{}
	points := make([]DaySeriesPoint, 7)
	for i := 0; i < 7; i++ {
		d := dateKey(start.AddDate(0, 0, i))
		points[i] = DaySeriesPoint{Date: d}
		byDay[d] = &points[i]
	}
	for _, w := range workouts {
		p, ok := byDay[dateKey(w.WorkoutDate)]
		if !ok {
			continue
		}
		p.Minutes += w.DurationMinutes
		p.Count++
		if w.CaloriesBurned != nil {
			p.Calories += *w.CaloriesBurned
		}
	}
	for i := range points {
		points[i].Calories = round1(points[i].Calories)
	}
	return points, nil
}
