package service

import (
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

const searchResultLimit = 20

// SearchService finds users for the admin console and bundles one user's raw
// records for export-style views.
type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// SearchUsers matches the query, case-insensitively, against username, email,
// names and the public unique id. An all-digit query is also tried as the
// "ID-<n>" shorthand so admins can paste a bare number.
func (s *SearchService) SearchUsers(query string) ([]models.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.User{}, nil
	}

	pattern := "%" + q + "%"
	db := s.db.Where(
		"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(unique_user_id) LIKE ?",
		pattern, pattern, pattern, pattern, pattern,
	)
	if isAllDigits(q) {
		db = db.Or("LOWER(unique_user_id) = ?", "id-"+q)
	}

	var users []models.User
	err := db.Limit(searchResultLimit).Find(&users).Error
	return users, err
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// UserDataBundle is everything one user logged in a window, plus counts.
type UserDataBundle struct {
	User      models.User          `json:"user"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Workouts  []models.Workout     `json:"workouts"`
	Meals     []models.Meal        `json:"meals"`
	Sleep     []models.SleepRecord `json:"sleep"`
	Water     []models.WaterIntake `json:"water"`
	Weight    []models.WeightLog   `json:"weight"`
	Goals     []models.Goal        `json:"goals"`
	Counts    map[string]int       `json:"counts"`
}

// UserData collects a user's records between start and end inclusive.
func (s *SearchService) UserData(id uint, start, end time.Time) (*UserDataBundle, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	lo, hi := dayStart(start), dayEnd(end)
	bundle := &UserDataBundle{
		User:      user,
		StartDate: dateKey(start),
		EndDate:   dateKey(end),
	}

	if err := s.db.Where("user_id = ? AND workout_date BETWEEN ? AND ?", id, lo, hi).
		Order("workout_date ASC").Find(&bundle.Workouts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ? AND meal_date BETWEEN ? AND ?", id, lo, hi).
		Order("meal_date ASC").Find(&bundle.Meals).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ? AND sleep_date BETWEEN ? AND ?", id, lo, hi).
		Order("sleep_date ASC").Find(&bundle.Sleep).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ? AND intake_date BETWEEN ? AND ?", id, lo, hi).
		Order("intake_date ASC").Find(&bundle.Water).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ? AND log_date BETWEEN ? AND ?", id, lo, hi).
		Order("log_date ASC").Find(&bundle.Weight).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ?", id).Find(&bundle.Goals).Error; err != nil {
		return nil, err
	}

	bundle.Counts = map[string]int{
		"workouts": len(bundle.Workouts),
		"meals":    len(bundle.Meals),
		"sleep":    len(bundle.Sleep),
		"water":    len(bundle.Water),
		"weight":   len(bundle.Weight),
		"goals":    len(bundle.Goals),
	}
	return bundle, nil
}
