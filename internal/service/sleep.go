package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// SleepService owns sleep record CRUD and the quality/duration summaries.
type SleepService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

func NewSleepService(db *gorm.DB, activity *ActivityService) *SleepService {
	return &SleepService{db: db, activity: activity, now: time.Now}
}

type SleepInput struct {
	SleepDate    *time.Time `json:"-"`
	BedTime      string     `json:"bed_time" binding:"required"`
	WakeTime     string     `json:"wake_time" binding:"required"`
	TotalHours   float64    `json:"total_hours" binding:"required,gt=0"`
	SleepQuality *int       `json:"sleep_quality"`
	Notes        string     `json:"notes"`
}

func (s *SleepService) Create(user *models.User, in SleepInput) (*models.SleepRecord, error) {
	date := dayStart(s.now())
	if in.SleepDate != nil {
		date = dayStart(*in.SleepDate)
	}

	record := models.SleepRecord{
		UserID:       user.ID,
		SleepDate:    date,
		BedTime:      in.BedTime,
		WakeTime:     in.WakeTime,
		TotalHours:   in.TotalHours,
		SleepQuality: in.SleepQuality,
		Notes:        in.Notes,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionCreate, &record,
		fmt.Sprintf("Logged sleep: %.1f hours", record.TotalHours))
	return &record, nil
}

func (s *SleepService) List(userID uint, f ListFilter) ([]models.SleepRecord, error) {
	query := s.db.Where("user_id = ?", userID)
	if f.StartDate != nil {
		query = query.Where("sleep_date >= ?", dayStart(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("sleep_date <= ?", dayEnd(*f.EndDate))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var records []models.SleepRecord
	err := query.Order("sleep_date DESC").Offset(f.Skip).Limit(limit).Find(&records).Error
	return records, err
}

func (s *SleepService) Get(userID, id uint) (*models.SleepRecord, error) {
	var record models.SleepRecord
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

type SleepUpdate struct {
	SleepDate    *time.Time `json:"-"`
	BedTime      *string    `json:"bed_time"`
	WakeTime     *string    `json:"wake_time"`
	TotalHours   *float64   `json:"total_hours"`
	SleepQuality *int       `json:"sleep_quality"`
	Notes        *string    `json:"notes"`
}

func (s *SleepService) Update(user *models.User, id uint, in SleepUpdate) (*models.SleepRecord, error) {
	record, err := s.Get(user.ID, id)
	if err != nil {
		return nil, err
	}

	if in.SleepDate != nil {
		record.SleepDate = dayStart(*in.SleepDate)
	}
	if in.BedTime != nil {
		record.BedTime = *in.BedTime
	}
	if in.WakeTime != nil {
		record.WakeTime = *in.WakeTime
	}
	if in.TotalHours != nil {
		record.TotalHours = *in.TotalHours
	}
	if in.SleepQuality != nil {
		record.SleepQuality = in.SleepQuality
	}
	if in.Notes != nil {
		record.Notes = *in.Notes
	}

	if err := s.db.Save(record).Error; err != nil {
		return nil, err
	}

	s.audit(user, models.ActionUpdate, record,
		fmt.Sprintf("Updated sleep record for %s", dateKey(record.SleepDate)))
	return record, nil
}

func (s *SleepService) Delete(user *models.User, id uint) error {
	record, err := s.Get(user.ID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(record).Error; err != nil {
		return err
	}
	s.audit(user, models.ActionDelete, record,
		fmt.Sprintf("Deleted sleep record for %s", dateKey(record.SleepDate)))
	return nil
}

func (s *SleepService) audit(user *models.User, action string, record *models.SleepRecord, description string) {
	if s.activity == nil {
		return
	}
	uid := user.ID
	rid := record.ID
	s.activity.Record(&uid, user.Username, action, "sleep", &rid, description, "")
}

// SleepDayPoint is one zero-filled day in the rolling series. Quality is nil
// on days without a record.
type SleepDayPoint struct {
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Quality *int    `json:"quality"`
}

// WeeklySeries returns per-day sleep hours for the rolling 7-day window ending
// today. Multiple records on a day sum their hours; the quality shown is the
// last record's.
func (s *SleepService) WeeklySeries(userID uint) ([]SleepDayPoint, error) {
	today := dayStart(s.now())
	start := today.AddDate(0, 0, -6)

	var records []models.SleepRecord
	if err := s.db.Where("user_id = ? AND sleep_date >= ?", userID, start).
		Order("sleep_date ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	byDay := map[string]*SleepDayPoint{}
	points := make([]SleepDayPoint, 7)
	for i := 0; i < 7; i++ {
		d := dateKey(start.AddDate(0, 0, i))
		points[i] = SleepDayPoint{Date: d}
		byDay[d] = &points[i]
	}
	for _, r := range records {
		p, ok := byDay[dateKey(r.SleepDate)]
		if !ok {
			continue
		}
		p.Hours += r.TotalHours
		if r.SleepQuality != nil {
			p.Quality = r.SleepQuality
		}
	}
	for i := range points {
		points[i].Hours = round1(points[i].Hours)
	}
	return points, nil
}

// SleepAverage summarizes a rolling window of sleep records. Best and worst
// nights are the first encountered at the extreme when scanning oldest first.
type SleepAverage struct {
	PeriodDays     int      `json:"period_days"`
	RecordCount    int      `json:"record_count"`
	AverageHours   float64  `json:"average_hours"`
	AverageQuality *float64 `json:"average_quality"`
	BestNight      *string  `json:"best_night"`
	WorstNight     *string  `json:"worst_night"`
}

func (s *SleepService) Average(userID uint, days int) (*SleepAverage, error) {
	today := dayStart(s.now())
	start := today.AddDate(0, 0, -(days - 1))

	var records []models.SleepRecord
	if err := s.db.Where("user_id = ? AND sleep_date >= ?", userID, start).
		Order("sleep_date ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	out := &SleepAverage{PeriodDays: days, RecordCount: len(records)}
	if len(records) == 0 {
		return out, nil
	}

	totalHours := 0.0
	qualitySum, qualityCount := 0, 0
	best, worst := records[0], records[0]
	for _, r := range records {
		totalHours += r.TotalHours
		if r.SleepQuality != nil {
			qualitySum += *r.SleepQuality
			qualityCount++
		}
		if r.TotalHours > best.TotalHours {
			best = r
		}
		if r.TotalHours < worst.TotalHours {
			worst = r
		}
	}

	out.AverageHours = round1(totalHours / float64(len(records)))
	if qualityCount > 0 {
		avg := round1(float64(qualitySum) / float64(qualityCount))
		out.AverageQuality = &avg
	}
	bestDate := dateKey(best.SleepDate)
	worstDate := dateKey(worst.SleepDate)
	out.BestNight = &bestDate
	out.WorstNight = &worstDate
	return out, nil
}
