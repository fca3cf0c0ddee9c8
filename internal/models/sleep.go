package models

import "time"

type SleepRecord struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SleepDate    time.Time `gorm:"index;not null" json:"sleep_date"`
	BedTime      string    `gorm:"size:5;not null" json:"bed_time"`
	WakeTime     string    `gorm:"size:5;not null" json:"wake_time"`
	TotalHours   float64   `gorm:"not null" json:"total_hours"`
	SleepQuality *int      `json:"sleep_quality,omitempty"` // 1-10 rating
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
}
