package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// GoalService owns goal CRUD and progress recomputation. A goal's current
// value is derived from raw records at read time, never trusted as stored.
type GoalService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

func NewGoalService(db *gorm.DB, activity *ActivityService) *GoalService {
	return &GoalService{db: db, activity: activity, now: time.Now}
}

type GoalInput struct {
	Category        string     `json:"category" binding:"required"`
	GoalType        string     `json:"goal_type" binding:"required"`
	TargetValue     float64    `json:"target_value" binding:"required,gt=0"`
	Unit            string     `json:"unit"`
	StartDate       *time.Time `json:"-"`
	EndDate         *time.Time `json:"-"`
	ReminderEnabled bool       `json:"reminder_enabled"`
}

func (s *GoalService) Create(user *models.User, in GoalInput) (*models.Goal, error) {
	start := dayStart(s.now())
	if in.StartDate != nil {
		start = dayStart(*in.StartDate)
	}

	goal := models.Goal{
		UserID:          user.ID,
		Category:        in.Category,
		GoalType:        in.GoalType,
		TargetValue:     in.TargetValue,
		Unit:            in.Unit,
		StartDate:       start,
		EndDate:         in.EndDate,
		IsActive:        true,
		ReminderEnabled: in.ReminderEnabled,
	}
	if err := s.db.Create(&goal).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionCreate, &goal,
		fmt.Sprintf("Created %s goal: %.1f %s", goal.Category, goal.TargetValue, goal.Unit))
	return &goal, nil
}

func (s *GoalService) List(userID uint, activeOnly bool) ([]models.Goal, error) {
	query := s.db.Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var goals []models.Goal
	err := query.Order("created_at DESC").Find(&goals).Error
	return goals, err
}

func (s *GoalService) Get(userID, id uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

type GoalUpdate struct {
	Category        *string    `json:"category"`
	GoalType        *string    `json:"goal_type"`
	TargetValue     *float64   `json:"target_value"`
	CurrentValue    *float64   `json:"current_value"`
	Unit            *string    `json:"unit"`
	StartDate       *time.Time `json:"-"`
	EndDate         *time.Time `json:"-"`
	IsActive        *bool      `json:"is_active"`
	ReminderEnabled *bool      `json:"reminder_enabled"`
}

func (s *GoalService) Update(user *models.User, id uint, in GoalUpdate) (*models.Goal, error) {
	goal, err := s.Get(user.ID, id)
	if err != nil {
		return nil, err
	}

	if in.Category != nil {
		goal.Category = *in.Category
	}
	if in.GoalType != nil {
		goal.GoalType = *in.GoalType
	}
	if in.TargetValue != nil {
		goal.TargetValue = *in.TargetValue
	}
	if in.CurrentValue != nil {
		goal.CurrentValue = *in.CurrentValue
	}
	if in.Unit != nil {
		goal.Unit = *in.Unit
	}
	if in.StartDate != nil {
		goal.StartDate = dayStart(*in.StartDate)
	}
	if in.EndDate != nil {
		goal.EndDate = in.EndDate
	}
	if in.IsActive != nil {
		goal.IsActive = *in.IsActive
	}
	if in.ReminderEnabled != nil {
		goal.ReminderEnabled = *in.ReminderEnabled
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionUpdate, goal,
		fmt.Sprintf("Updated %s goal", goal.Category))
	return goal, nil
}

func (s *GoalService) Delete(user *models.User, id uint) error {
	goal, err := s.Get(user.ID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return err
	}
	s.audit(user, models.ActionDelete, goal,
		fmt.Sprintf("Deleted %s goal", goal.Category))
	return nil
}

func (s *GoalService) audit(user *models.User, action string, goal *models.Goal, description string) {
	if s.activity == nil {
		return
	}
	uid := user.ID
	gid := goal.ID
	s.activity.Record(&uid, user.Username, action, "goal", &gid, description, "")
}

// GoalProgressReport is a goal plus its freshly derived current value.
type GoalProgressReport struct {
	Goal         models.Goal `json:"goal"`
	CurrentValue float64     `json:"current_value"`
	Percentage   int         `json:"percentage"`
	WindowStart  string      `json:"window_start"`
	WindowEnd    string      `json:"window_end"`
}

// Progress recomputes the goal's current value from raw records over the
// window implied by its goal_type, persists it, and reports the capped
// percentage.
func (s *GoalService) Progress(userID, id uint) (*GoalProgressReport, error) {
	goal, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	from, to := s.window(goal)
	current, err := s.currentValue(goal, from, to)
	if err != nil {
		return nil, err
	}

	goal.CurrentValue = current
	if err := s.db.Model(goal).Update("current_value", current).Error; err != nil {
		return nil, err
	}

	return &GoalProgressReport{
		Goal:         *goal,
		CurrentValue: current,
		Percentage:   GoalProgress(current, goal.TargetValue),
		WindowStart:  dateKey(from),
		WindowEnd:    dateKey(to),
	}, nil
}

// window maps goal_type to a concrete date range ending today. Custom goals
// run from their start date to their end date or today, whichever is earlier.
func (s *GoalService) window(goal *models.Goal) (time.Time, time.Time) {
	today := dayStart(s.now())
	switch goal.GoalType {
	case "daily":
		return today, today
	case "weekly":
		return today.AddDate(0, 0, -6), today
	case "monthly":
		return today.AddDate(0, 0, -29), today
	case "yearly":
		return today.AddDate(0, 0, -364), today
	default:
		end := today
		if goal.EndDate != nil && goal.EndDate.Before(today) {
			end = dayStart(*goal.EndDate)
		}
		return dayStart(goal.StartDate), end
	}
}

func (s *GoalService) currentValue(goal *models.Goal, from, to time.Time) (float64, error) {
	lo, hi := from, dayEnd(to)

	switch goal.Category {
	case models.GoalWater:
		var intakes []models.WaterIntake
		if err := s.db.Where("user_id = ? AND intake_date BETWEEN ? AND ?", goal.UserID, lo, hi).Find(&intakes).Error; err != nil {
			return 0, err
		}
		total := 0
		for _, w := range intakes {
			total += w.AmountMl
		}
		return float64(total), nil

	case models.GoalCalories:
		var meals []models.Meal
		if err := s.db.Where("user_id = ? AND meal_date BETWEEN ? AND ?", goal.UserID, lo, hi).Find(&meals).Error; err != nil {
			return 0, err
		}
		total := 0.0
		for _, m := range meals {
			total += m.Calories
		}
		return round1(total), nil

	case models.GoalWorkout:
		var workouts []models.Workout
		if err := s.db.Where("user_id = ? AND workout_date BETWEEN ? AND ?", goal.UserID, lo, hi).Find(&workouts).Error; err != nil {
			return 0, err
		}
		total := 0
		for _, w := range workouts {
			total += w.DurationMinutes
		}
		return float64(total), nil

	case models.GoalSleep:
		var records []models.SleepRecord
		if err := s.db.Where("user_id = ? AND sleep_date BETWEEN ? AND ?", goal.UserID, lo, hi).Find(&records).Error; err != nil {
			return 0, err
		}
		if len(records) == 0 {
			return 0, nil
		}
		total := 0.0
		for _, r := range records {
			total += r.TotalHours
		}
		return round1(total / float64(len(records))), nil

	case models.GoalWeight:
		// Progress toward a weight target is the latest measurement itself;
		// direction is up to the reader of target vs current.
		var log models.WeightLog
		err := s.db.Where("user_id = ?", goal.UserID).Order("log_date DESC").First(&log).Error
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return log.WeightKg, nil
	}

	return goal.CurrentValue, nil
}
