package models

import "time"

type WaterIntake struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	IntakeDate   time.Time `gorm:"index;not null" json:"intake_date"`
	IntakeTime   string    `gorm:"size:5" json:"intake_time,omitempty"`
	AmountMl     int       `gorm:"not null" json:"amount_ml"`
	BeverageType string    `gorm:"size:50;default:'water'" json:"beverage_type"`
}
