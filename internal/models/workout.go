package models

import "time"

// Workout intensity levels.
const (
	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"
)

type Workout struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	WorkoutType     string    `gorm:"size:50;not null" json:"workout_type"`
	WorkoutName     string    `gorm:"size:200;not null" json:"workout_name"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	CaloriesBurned  *float64  `json:"calories_burned,omitempty"`
	DistanceKm      *float64  `json:"distance_km,omitempty"`
	WorkoutDate     time.Time `gorm:"index;not null" json:"workout_date"`
	StartTime       string    `gorm:"size:5" json:"start_time,omitempty"`
	Intensity       string    `gorm:"size:20" json:"intensity,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
}
