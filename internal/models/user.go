package models

import (
	"time"
)

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UniqueUserID string    `gorm:"size:20;uniqueIndex" json:"unique_user_id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'user'" json:"role"`

	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"size:20" json:"gender"`
	Age         *int       `json:"age,omitempty"`
	HeightCm    *float64   `json:"height_cm,omitempty"`
	WeightKg    *float64   `json:"weight_kg,omitempty"`

	ActivityLevel string `gorm:"size:50" json:"activity_level"`
	FitnessGoal   string `gorm:"size:50" json:"fitness_goal"`

	DailyCalorieGoal int `gorm:"default:2000" json:"daily_calorie_goal"`
	DailyWaterGoalMl int `gorm:"default:2000" json:"daily_water_goal_ml"`

	ProfilePictureURL string `gorm:"size:255" json:"profile_picture_url,omitempty"`

	IsBlacklisted   bool       `gorm:"default:false" json:"is_blacklisted"`
	BlacklistReason *string    `gorm:"size:255" json:"blacklist_reason,omitempty"`
	BlacklistedAt   *time.Time `json:"blacklisted_at,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// BMI returns weight/(height_m)^2 rounded to one decimal, or nil when either
// input is missing.
func (u *User) BMI() *float64 {
	return ComputeBMI(u.WeightKg, u.HeightCm)
}
