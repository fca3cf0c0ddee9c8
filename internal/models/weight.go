package models

import (
	"math"
	"time"
)

type WeightLog struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	User              *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LogDate           time.Time `gorm:"index;not null" json:"log_date"`
	WeightKg          float64   `gorm:"not null" json:"weight_kg"`
	BodyFatPercentage *float64  `json:"body_fat_percentage,omitempty"`
	BMI               *float64  `json:"bmi,omitempty"`
	Notes             string    `gorm:"type:text" json:"notes,omitempty"`
}

// ComputeBMI returns weight_kg/(height_m)^2 rounded to one decimal. The result
// is nil, not zero, when either input is missing.
func ComputeBMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *heightCm == 0 {
		return nil
	}
	h := *heightCm / 100
	bmi := math.Round(*weightKg/(h*h)*10) / 10
	return &bmi
}
