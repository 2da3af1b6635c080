package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MinuteStatus represents the publication state of meeting minutes
type MinuteStatus string

const (
	MinuteDraft     MinuteStatus = "draft"
	MinutePublished MinuteStatus = "published"
	MinuteArchived  MinuteStatus = "archived"
)

// MinuteStatuses lists every valid minute status.
var MinuteStatuses = []MinuteStatus{MinuteDraft, MinutePublished, MinuteArchived}

func (s MinuteStatus) Valid() bool {
	switch s {
	case MinuteDraft, MinutePublished, MinuteArchived:
		return true
	}
	return false
}

// MeetingMinute records what happened at an organization meeting.
type MeetingMinute struct {
	ID          uint                        `gorm:"primarykey" json:"id"`
	Title       string                      `gorm:"not null;index" json:"title"`
	Content     string                      `gorm:"type:text;not null" json:"content"`
	MeetingDate time.Time                   `gorm:"not null;index" json:"meeting_date"`
	Location    string                      `json:"location"`
	Attendees   datatypes.JSONSlice[string] `json:"attendees"`
	FilePath    string                      `json:"file_path"`
	Status      MinuteStatus                `gorm:"type:varchar(16);not null;default:'draft';index" json:"status"`
	CreatedBy   uuid.UUID                   `gorm:"type:text;not null;index" json:"created_by"`
	Creator     *User                       `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	PublishedAt *time.Time                  `json:"published_at"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (m *MeetingMinute) AfterFind(tx *gorm.DB) error {
	return checkEnum("meeting_minute", "status", string(m.Status), m.Status.Valid())
}
