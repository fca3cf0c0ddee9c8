package models

import "time"

// Meal types.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

type Meal struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MealType  string    `gorm:"size:50;not null" json:"meal_type"`
	MealName  string    `gorm:"size:200;not null" json:"meal_name"`
	Calories  float64   `gorm:"not null" json:"calories"`
	ProteinG  float64   `gorm:"default:0" json:"protein_g"`
	CarbsG    float64   `gorm:"default:0" json:"carbs_g"`
	FatG      float64   `gorm:"default:0" json:"fat_g"`
	FiberG    float64   `gorm:"default:0" json:"fiber_g"`
	MealDate  time.Time `gorm:"index;not null" json:"meal_date"`
	MealTime  string    `gorm:"size:5" json:"meal_time,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
}
