package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// WaterService owns water intake CRUD and hydration summaries.
type WaterService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

func NewWaterService(db *gorm.DB, activity *ActivityService) *WaterService {
	return &WaterService{db: db, activity: activity, now: time.Now}
}

type WaterInput struct {
	IntakeDate   *time.Time `json:"-"`
	IntakeTime   string     `json:"intake_time"`
	AmountMl     int        `json:"amount_ml" binding:"required,gt=0"`
	BeverageType string     `json:"beverage_type"`
}

func (s *WaterService) Create(user *models.User, in WaterInput) (*models.WaterIntake, error) {
	date := dayStart(s.now())
	if in.IntakeDate != nil {
		date = dayStart(*in.IntakeDate)
	}
	beverage := in.BeverageType
	if beverage == "" {
		beverage = "water"
	}

	intake := models.WaterIntake{
		UserID:       user.ID,
		IntakeDate:   date,
		IntakeTime:   in.IntakeTime,
		AmountMl:     in.AmountMl,
		BeverageType: beverage,
	}
	if err := s.db.Create(&intake).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionCreate, &intake,
		fmt.Sprintf("Logged water intake: %d ml", intake.AmountMl))
	return &intake, nil
}

func (s *WaterService) List(userID uint, f ListFilter) ([]models.WaterIntake, error) {
	query := s.db.Where("user_id = ?", userID)
	if f.StartDate != nil {
		query = query.Where("intake_date >= ?", dayStart(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("intake_date <= ?", dayEnd(*f.EndDate))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var intakes []models.WaterIntake
	err := query.Order("intake_date DESC").Offset(f.Skip).Limit(limit).Find(&intakes).Error
	return intakes, err
}

func (s *WaterService) Get(userID, id uint) (*models.WaterIntake, error) {
	var intake models.WaterIntake
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&intake).Error; err != nil {
		return nil, err
	}
	return &intake, nil
}

type WaterUpdate struct {
	IntakeDate   *time.Time `json:"-"`
	IntakeTime   *string    `json:"intake_time"`
	AmountMl     *int       `json:"amount_ml"`
	BeverageType *string    `json:"beverage_type"`
}

func (s *WaterService) Update(user *models.User, id uint, in WaterUpdate) (*models.WaterIntake, error) {
	intake, err := s.Get(user.ID, id)
	if err != nil {
		return nil, err
	}

	if in.IntakeDate != nil {
		intake.IntakeDate = dayStart(*in.IntakeDate)
	}
	if in.IntakeTime != nil {
		intake.IntakeTime = *in.IntakeTime
	}
	if in.AmountMl != nil {
		intake.AmountMl = *in.AmountMl
	}
	if in.BeverageType != nil {
		intake.BeverageType = *in.BeverageType
	}

	if err := s.db.Save(intake).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionUpdate, intake,
		fmt.Sprintf("Updated water intake: %d ml", intake.AmountMl))
	return intake, nil
}

func (s *WaterService) Delete(user *models.User, id uint) error {
	intake, err := s.Get(user.ID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(intake).Error; err != nil {
		return err
	}
	s.audit(user, models.ActionDelete, intake,
		fmt.Sprintf("Deleted water intake: %d ml", intake.AmountMl))
	return nil
}

func (s *WaterService) audit(user *models.User, action string, intake *models.WaterIntake, description string) {
	if s.activity == nil {
		return
	}
	uid := user.ID
	iid := intake.ID
	s.activity.Record(&uid, user.Username, action, "water", &iid, description, "")
}

// WaterDailyTotal breaks a day's intake down by beverage.
type WaterDailyTotal struct {
	Date       string               `json:"date"`
	TotalMl    int                  `json:"total_ml"`
	EntryCount int                  `json:"entry_count"`
	ByBeverage map[string]int       `json:"by_beverage"`
	Entries    []models.WaterIntake `json:"entries"`
}

func (s *WaterService) DailyTotal(userID uint, date time.Time) (*WaterDailyTotal, error) {
	var intakes []models.WaterIntake
	if err := s.db.Where("user_id = ? AND intake_date BETWEEN ? AND ?",
		userID, dayStart(date), dayEnd(date)).Order("intake_time ASC").Find(&intakes).Error; err != nil {
		return nil, err
	}

	out := &WaterDailyTotal{
		Date:       dateKey(date),
		EntryCount: len(intakes),
		ByBeverage: map[string]int{},
		Entries:    intakes,
	}
	for _, w := range intakes {
		out.TotalMl += w.AmountMl
		out.ByBeverage[w.BeverageType] += w.AmountMl
	}
	return out, nil
}

// WaterDayPoint is one zero-filled day in the rolling hydration series.
type WaterDayPoint struct {
	Date     string `json:"date"`
	AmountMl int    `json:"amount_ml"`
	Entries  int    `json:"entries"`
}

// WeeklySeries returns per-day intake totals for the rolling 7-day window
// ending today.
func (s *WaterService) WeeklySeries(userID uint) ([]WaterDayPoint, error) {
	today := dayStart(s.now())
	start := today.AddDate(0, 0, -6)

	var intakes []models.WaterIntake
	if err := s.db.Where("user_id = ? AND intake_date >= ?", userID, start).Find(&intakes).Error; err != nil {
		return nil, err
	}

	byDay := map[string]*WaterDayPoint{}
	points := make([]WaterDayPoint, 7)
	for i := 0; i < 7; i++ {
		d := dateKey(start.AddDate(0, 0, i))
		points[i] = WaterDayPoint{Date: d}
		byDay[d] = &points[i]
	}
	for _, w := range intakes {
		p, ok := byDay[dateKey(w.IntakeDate)]
		if !ok {
			continue
		}
		p.AmountMl += w.AmountMl
		p.Entries++
	}
	return points, nil
}
