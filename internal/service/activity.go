package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/vitaltrack/backend/internal/models"
)

// ActivityService is the append-only audit log. All mutating services write
// through Record; nothing in the application updates or re-derives entries.
type ActivityService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db, now: time.Now}
}

// Record appends an audit entry. The username is stored as a plain snapshot so
// the entry survives deletion of the user row.
func (s *ActivityService) Record(userID *uint, username, action, entityType string, entityID *uint, description, details string) (*models.ActivityLog, error) {
	entry := models.ActivityLog{
		UserID:      userID,
		Username:    username,
		ActionType:  action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		Details:     details,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ActivityFilter narrows List output. Zero values mean "no filter".
type ActivityFilter struct {
	ActionType string
	EntityType string
	UserID     uint
	Hours      int // entries from the last N hours
	Skip       int
	Limit      int
}

// List returns audit entries, most recent first.
func (s *ActivityService) List(f ActivityFilter) ([]models.ActivityLog, error) {
	query := s.db.Model(&models.ActivityLog{})
	if f.ActionType != "" {
		query = query.Where("action_type = ?", f.ActionType)
	}
	if f.EntityType != "" {
		query = query.Where("entity_type = ?", f.EntityType)
	}
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Hours > 0 {
		cutoff := s.now().Add(-time.Duration(f.Hours) * time.Hour)
		query = query.Where("created_at >= ?", cutoff)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var logs []models.ActivityLog
	err := query.Order("created_at DESC").Offset(f.Skip).Limit(limit).Find(&logs).Error
	return logs, err
}

// Recent returns the latest entries without filtering.
func (s *ActivityService) Recent(limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []models.ActivityLog
	err := s.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// ActivityStats summarizes audit volume.
type ActivityStats struct {
	TotalLogs   int64            `json:"total_logs"`
	Last24Hours int64            `json:"last_24_hours"`
	ByAction    map[string]int64 `json:"by_action"`
	ByEntity    map[string]int64 `json:"by_entity"`
}

func (s *ActivityService) Stats() (*ActivityStats, error) {
	stats := &ActivityStats{
		ByAction: map[string]int64{},
		ByEntity: map[string]int64{},
	}

	if err := s.db.Model(&models.ActivityLog{}).Count(&stats.TotalLogs).Error; err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-24 * time.Hour)
	if err := s.db.Model(&models.ActivityLog{}).Where("created_at >= ?", cutoff).Count(&stats.Last24Hours).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byAction []bucket
	if err := s.db.Model(&models.ActivityLog{}).
		Select("action_type AS key, COUNT(id) AS count").
		Group("action_type").Scan(&byAction).Error; err != nil {
		return nil, err
	}
	for _, b := range byAction {
		stats.ByAction[b.Key] = b.Count
	}

	var byEntity []bucket
	if err := s.db.Model(&models.ActivityLog{}).
		Select("entity_type AS key, COUNT(id) AS count").
		Group("entity_type").Scan(&byEntity).Error; err != nil {
		return nil, err
	}
	for _, b := range byEntity {
		stats.ByEntity[b.Key] = b.Count
	}

	return stats, nil
}

// Trim deletes entries older than the given number of days and returns the
// number of rows removed.
func (s *ActivityService) Trim(days int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -days)
	res := s.db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	return res.RowsAffected, res.Error
}
