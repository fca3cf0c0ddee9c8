package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// WeightService owns weight log CRUD. BMI is computed at write time from the
// user's profile height so each entry keeps the BMI that was true when logged.
type WeightService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

func NewWeightService(db *gorm.DB, activity *ActivityService) *WeightService {
	return &WeightService{db: db, activity: activity, now: time.Now}
}

type WeightInput struct {
	LogDate           *time.Time `json:"-"`
	WeightKg          float64    `json:"weight_kg" binding:"required,gt=0"`
	BodyFatPercentage *float64   `json:"body_fat_percentage"`
	Notes             string     `json:"notes"`
}

func (s *WeightService) Create(user *models.User, in WeightInput) (*models.WeightLog, error) {
	date := dayStart(s.now())
	if in.LogDate != nil {
		date = dayStart(*in.LogDate)
	}

	weight := in.WeightKg
	log := models.WeightLog{
		UserID:            user.ID,
		LogDate:           date,
		WeightKg:          in.WeightKg,
		BodyFatPercentage: in.BodyFatPercentage,
		BMI:               models.ComputeBMI(&weight, user.HeightCm),
		Notes:             in.Notes,
	}
	if err := s.db.Create(&log).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionCreate, &log,
		fmt.Sprintf("Logged weight: %.1f kg", log.WeightKg))
	return &log, nil
}

func (s *WeightService) List(userID uint, f ListFilter) ([]models.WeightLog, error) {
	query := s.db.Where("user_id = ?", userID)
	if f.StartDate != nil {
		query = query.Where("log_date >= ?", dayStart(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("log_date <= ?", dayEnd(*f.EndDate))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var logs []models.WeightLog
	err := query.Order("log_date DESC").Offset(f.Skip).Limit(limit).Find(&logs).Error
	return logs, err
}

func (s *WeightService) Get(userID, id uint) (*models.WeightLog, error) {
	var log models.WeightLog
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

type WeightUpdate struct {
	LogDate           *time.Time `json:"-"`
	WeightKg          *float64   `json:"weight_kg"`
	BodyFatPercentage *float64   `json:"body_fat_percentage"`
	Notes             *string    `json:"notes"`
}

func (s *WeightService) Update(user *models.User, id uint, in WeightUpdate) (*models.WeightLog, error) {
	log, err := s.Get(user.ID, id)
	if err != nil {
		return nil, err
	}

	if in.LogDate != nil {
		log.LogDate = dayStart(*in.LogDate)
	}
	if in.WeightKg != nil {
		log.WeightKg = *in.WeightKg
		log.BMI = models.ComputeBMI(in.WeightKg, user.HeightCm)
	}
	if in.BodyFatPercentage != nil {
		log.BodyFatPercentage = in.BodyFatPercentage
	}
	if in.Notes != nil {
		log.Notes = *in.Notes
	}

	if err := s.db.Save(log).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionUpdate, log,
		fmt.Sprintf("Updated weight log: %.1f kg", log.WeightKg))
	return log, nil
}

func (s *WeightService) Delete(user *models.User, id uint) error {
	log, err := s.Get(user.ID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(log).Error; err != nil {
		return err
	}
	s.audit(user, models.ActionDelete, log,
		fmt.Sprintf("Deleted weight log: %.1f kg", log.WeightKg))
	return nil
}

func (s *WeightService) audit(user *models.User, action string, log *models.WeightLog, description string) {
	if s.activity == nil {
		return
	}
	uid := user.ID
	lid := log.ID
	s.activity.Record(&uid, user.Username, action, "weight", &lid, description, "")
}

// WeightTrend is the flat trend shape used by the weight endpoints; the
// analytics dashboard exposes a richer nested variant separately.
type WeightTrend struct {
	PeriodDays     int                `json:"period_days"`
	RecordCount    int                `json:"record_count"`
	StartWeightKg  *float64           `json:"start_weight_kg"`
	LatestWeightKg *float64           `json:"latest_weight_kg"`
	ChangeKg       *float64           `json:"change_kg"`
	Records        []models.WeightLog `json:"records"`
}

// Trend lists records from today minus days onward, oldest first.
func (s *WeightService) Trend(userID uint, days int) (*WeightTrend, error) {
	start := dayStart(s.now()).AddDate(0, 0, -days)

	var logs []models.WeightLog
	if err := s.db.Where("user_id = ? AND log_date >= ?", userID, start).
		Order("log_date ASC").Find(&logs).Error; err != nil {
		return nil, err
	}

	out := &WeightTrend{
		PeriodDays:  days,
		RecordCount: len(logs),
		Records:     logs,
	}
	if len(logs) > 0 {
		first := logs[0].WeightKg
		last := logs[len(logs)-1].WeightKg
		change := round1(last - first)
		out.StartWeightKg = &first
		out.LatestWeightKg = &last
		out.ChangeKg = &change
	}
	return out, nil
}
