package models

import "time"

// Audit action types.
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionLogin    = "LOGIN"
	ActionRegister = "REGISTER"
)

// ActivityLog is an append-only audit entry. The actor's username is
// snapshotted at write time so the entry stays readable after the user row is
// deleted; user_id is nulled out on deletion instead of cascading.
type ActivityLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Username    string    `gorm:"size:100" json:"username"`
	ActionType  string    `gorm:"size:20;not null" json:"action_type"`
	EntityType  string    `gorm:"size:50;not null" json:"entity_type"`
	EntityID    *uint     `json:"entity_id,omitempty"`
	Description string    `gorm:"size:500;not null" json:"description"`
	Details     string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
