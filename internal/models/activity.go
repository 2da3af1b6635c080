package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/orgdesa/orgdesa/internal/utils"
	"gorm.io/gorm"
)

// ActivityStatus represents the lifecycle stage of an activity
type ActivityStatus string

const (
	ActivityPlanned   ActivityStatus = "planned"
	ActivityOngoing   ActivityStatus = "ongoing"
	ActivityCompleted ActivityStatus = "completed"
	ActivityCancelled ActivityStatus = "cancelled"
)

// ActivityStatuses lists every valid activity status.
var ActivityStatuses = []ActivityStatus{ActivityPlanned, ActivityOngoing, ActivityCompleted, ActivityCancelled}

func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityPlanned, ActivityOngoing, ActivityCompleted, ActivityCancelled:
		return true
	}
	return false
}

// Activity is a public event run by the organization.
type Activity struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	Title        string             `gorm:"not null;index" json:"title"`
	Description  string             `gorm:"type:text" json:"description"`
	ActivityDate time.Time          `gorm:"not null;index" json:"activity_date"`
	Location     string             `json:"location"`
	Status       ActivityStatus     `gorm:"type:varchar(16);not null;default:'planned';index" json:"status"`
	CreatedBy    uuid.UUID          `gorm:"type:text;not null;index" json:"created_by"`
	Creator      *User              `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Documents    []ActivityDocument `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (a *Activity) AfterFind(tx *gorm.DB) error {
	return checkEnum("activity", "status", string(a.Status), a.Status.Valid())
}

// ActivityDocumentType classifies a file attached to an activity
type ActivityDocumentType string

const (
	ActivityDocPhoto  ActivityDocumentType = "photo"
	ActivityDocReport ActivityDocumentType = "report"
	ActivityDocOther  ActivityDocumentType = "other"
)

// ActivityDocumentTypes lists every valid attachment type.
var ActivityDocumentTypes = []ActivityDocumentType{ActivityDocPhoto, ActivityDocReport, ActivityDocOther}

func (t ActivityDocumentType) Valid() bool {
	switch t {
	case ActivityDocPhoto, ActivityDocReport, ActivityDocOther:
		return true
	}
	return false
}

// ActivityDocument is a photo, report or other file attached to an activity.
type ActivityDocument struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	ActivityID    uint                 `gorm:"not null;index" json:"activity_id"`
	Filename      string               `gorm:"not null" json:"filename"`
	FilePath      string               `gorm:"not null" json:"file_path"`
	FileType      string               `gorm:"not null" json:"file_type"`
	FileSize      int64                `gorm:"not null" json:"file_size"`
	FileSizeHuman string               `gorm:"-" json:"file_size_human"`
	DocumentType  ActivityDocumentType `gorm:"type:varchar(16);not null;default:'other';index" json:"document_type"`
	Description   string               `json:"description"`
	UploadedBy    uuid.UUID            `gorm:"type:text;not null;index" json:"uploaded_by"`
	Uploader      *User                `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (d *ActivityDocument) AfterSave(tx *gorm.DB) error {
	d.FileSizeHuman = utils.FormatBytes(d.FileSize)
	return nil
}

func (d *ActivityDocument) AfterFind(tx *gorm.DB) error {
	d.FileSizeHuman = utils.FormatBytes(d.FileSize)
	return checkEnum("activity_document", "document_type", string(d.DocumentType), d.DocumentType.Valid())
}
