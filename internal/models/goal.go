package models

import "time"

// Goal categories.
const (
	GoalWater    = "water"
	GoalCalories = "calories"
	GoalWorkout  = "workout"
	GoalSleep    = "sleep"
	GoalWeight   = "weight"
)

type Goal struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UserID          uint       `gorm:"index;not null" json:"user_id"`
	User            *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category        string     `gorm:"size:50;not null" json:"category"`
	GoalType        string     `gorm:"size:50;not null" json:"goal_type"` // daily, weekly, monthly, yearly, custom
	TargetValue     float64    `gorm:"not null" json:"target_value"`
	CurrentValue    float64    `gorm:"default:0" json:"current_value"`
	Unit            string     `gorm:"size:20" json:"unit,omitempty"`
	StartDate       time.Time  `gorm:"not null" json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	ReminderEnabled bool       `gorm:"default:false" json:"reminder_enabled"`
}
