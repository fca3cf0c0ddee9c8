package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// MealService owns meal CRUD and nutrition summaries.
type MealService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

func NewMealService(db *gorm.DB, activity *ActivityService) *MealService {
	return &MealService{db: db, activity: activity, now: time.Now}
}

type MealInput struct {
	MealType string     `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	MealName string     `json:"meal_name" binding:"required"`
	Calories float64    `json:"calories" binding:"required,gte=0"`
	ProteinG float64    `json:"protein_g"`
	CarbsG   float64    `json:"carbs_g"`
	FatG     float64    `json:"fat_g"`
	FiberG   float64    `json:"fiber_g"`
	MealDate *time.Time `json:"-"`
	MealTime string     `json:"meal_time"`
	Notes    string     `json:"notes"`
}

func (s *MealService) Create(user *models.User, in MealInput) (*models.Meal, error) {
	date := dayStart(s.now())
	if in.MealDate != nil {
		date = dayStart(*in.MealDate)
	}

	meal := models.Meal{
		UserID:   user.ID,
		MealType: in.MealType,
		MealName: in.MealName,
		Calories: in.Calories,
		ProteinG: in.ProteinG,
		CarbsG:   in.CarbsG,
		FatG:     in.FatG,
		FiberG:   in.FiberG,
		MealDate: date,
		MealTime: in.MealTime,
		Notes:    in.Notes,
	}
	if err := s.db.Create(&meal).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionCreate, &meal,
		fmt.Sprintf("Logged meal: %s (%.0f kcal)", meal.MealName, meal.Calories))
	return &meal, nil
}

func (s *MealService) List(userID uint, f ListFilter) ([]models.Meal, error) {
	query := s.db.Where("user_id = ?", userID)
	if f.StartDate != nil {
		query = query.Where("meal_date >= ?", dayStart(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("meal_date <= ?", dayEnd(*f.EndDate))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var meals []models.Meal
	err := query.Order("meal_date DESC").Offset(f.Skip).Limit(limit).Find(&meals).Error
	return meals, err
}

func (s *MealService) Get(userID, id uint) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

type MealUpdate struct {
	MealType *string    `json:"meal_type" binding:"omitempty,oneof=breakfast lunch dinner snack"`
	MealName *string    `json:"meal_name"`
	Calories *float64   `json:"calories"`
	ProteinG *float64   `json:"protein_g"`
	CarbsG   *float64   `json:"carbs_g"`
	FatG     *float64   `json:"fat_g"`
	FiberG   *float64   `json:"fiber_g"`
	MealDate *time.Time `json:"-"`
	MealTime *string    `json:"meal_time"`
	Notes    *string    `json:"notes"`
}

func (s *MealService) Update(user *models.User, id uint, in MealUpdate) (*models.Meal, error) {
	meal, err := s.Get(user.ID, id)
	if err != nil {
		return nil, err
	}

	if in.MealType != nil {
		meal.MealType = *in.MealType
	}
	if in.MealName != nil {
		meal.MealName = *in.MealName
	}
	if in.Calories != nil {
		meal.Calories = *in.Calories
	}
	if in.ProteinG != nil {
		meal.ProteinG = *in.ProteinG
	}
	if in.CarbsG != nil {
		meal.CarbsG = *in.CarbsG
	}
	if in.FatG != nil {
		meal.FatG = *in.FatG
	}
	if in.FiberG != nil {
		meal.FiberG = *in.FiberG
	}
	if in.MealDate != nil {
		meal.MealDate = dayStart(*in.MealDate)
	}
	if in.MealTime != nil {
		meal.MealTime = *in.MealTime
	}
	if in.Notes != nil {
		meal.Notes = *in.Notes
	}

	if err := s.db.Save(meal).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionUpdate, meal, fmt.Sprintf("Updated meal: %s", meal.MealName))
	return meal, nil
}

func (s *MealService) Delete(user *models.User, id uint) error {
	meal, err := s.Get(user.ID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(meal).Error; err != nil {
		return err
	}
	s.audit(user, models.ActionDelete, meal, fmt.Sprintf("Deleted meal: %s", meal.MealName))
	return nil
}

func (s *MealService) audit(user *models.User, action string, meal *models.Meal, description string) {
	if s.activity == nil {
		return
	}
	uid := user.ID
	mid := meal.ID
	s.activity.Record(&uid, user.Username, action, "meal", &mid, description, "")
}

// MealDailySummary totals one calendar day's nutrition, keyed by the four meal
// types so every type appears even when empty.
type MealDailySummary struct {
	Date          string                   `json:"date"`
	MealCount     int                      `json:"meal_count"`
	TotalCalories float64                  `json:"total_calories"`
	TotalProteinG float64                  `json:"total_protein_g"`
	TotalCarbsG   float64                  `json:"total_carbs_g"`
	TotalFatG     float64                  `json:"total_fat_g"`
	TotalFiberG   float64                  `json:"total_fiber_g"`
	MealsByType   map[string][]models.Meal `json:"meals_by_type"`
}

func (s *MealService) DailySummary(userID uint, date time.Time) (*MealDailySummary, error) {
	var meals []models.Meal
	if err := s.db.Where("user_id = ? AND meal_date BETWEEN ? AND ?",
		userID, dayStart(date), dayEnd(date)).Find(&meals).Error; err != nil {
		return nil, err
	}

	out := &MealDailySummary{
		Date:      dateKey(date),
		MealCount: len(meals),
		MealsByType: map[string][]models.Meal{
			models.MealBreakfast: {},
			models.MealLunch:     {},
			models.MealDinner:    {},
			models.MealSnack:     {},
		},
	}
	for _, m := range meals {
		out.TotalCalories += m.Calories
		out.TotalProteinG += m.ProteinG
		out.TotalCarbsG += m.CarbsG
		out.TotalFatG += m.FatG
		out.TotalFiberG += m.FiberG
		out.MealsByType[m.MealType] = append(out.MealsByType[m.MealType], m)
	}
	out.TotalCalories = round1(out.TotalCalories)
	out.TotalProteinG = round1(out.TotalProteinG)
	out.TotalCarbsG = round1(out.TotalCarbsG)
	out.TotalFatG = round1(out.TotalFatG)
	out.TotalFiberG = round1(out.TotalFiberG)
	return out, nil
}

// NutritionDayPoint is one zero-filled day in a rolling nutrition series.
type NutritionDayPoint struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Count    int     `json:"count"`
}

// WeeklySeries returns per-day nutrition totals for the rolling 7-day window
// ending today.
func (s *MealService) WeeklySeries(userID uint) ([]NutritionDayPoint, error) {
	today := dayStart(s.now())
	start := today.AddDate(0, 0, -6)

	var meals []models.Meal
	if err := s.db.Where("user_id = ? AND meal_date >= ?", userID, start).Find(&meals).Error; err != nil {
		return nil, err
	}

	byDay := map[string]*NutritionDayPoint{}
	points := make([]NutritionDayPoint, 7)
	for i := 0; i < 7; i++ {
		d := dateKey(start.AddDate(0, 0, i))
		points[i] = NutritionDayPoint{Date: d}
		byDay[d] = &points[i]
	}
	for _, m := range meals {
		p, ok := byDay[dateKey(m.MealDate)]
		if !ok {
			continue
		}
		p.Calories += m.Calories
		p.ProteinG += m.ProteinG
		p.CarbsG += m.CarbsG
		p.FatG += m.FatG
		p.Count++
	}
	for i := range points {
		points[i].Calories = round1(points[i].Calories)
		points[i].ProteinG = round1(points[i].ProteinG)
		points[i].CarbsG = round1(points[i].CarbsG)
		points[i].FatG = round1(points[i].FatG)
	}
	return points, nil
}
