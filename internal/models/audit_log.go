package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog represents a record of user actions on portal content
type AuditLog struct {
	ID        uint              `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:text;index" json:"user_id"`
	User      *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action    string            `gorm:"not null" json:"action"`   // e.g., "create_activity", "update_user"
	Resource  string            `gorm:"not null" json:"resource"` // e.g., "activity:12", "user:<uuid>"
	Details   datatypes.JSONMap `json:"details"`
	Timestamp time.Time         `gorm:"not null;index" json:"timestamp"`
}
