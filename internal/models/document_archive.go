package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/orgdesa/orgdesa/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Visibility controls who may read an archived document
type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityMembersOnly Visibility = "members_only"
	VisibilityAdminOnly   Visibility = "admin_only"
)

// Visibilities lists every valid visibility level.
var Visibilities = []Visibility{VisibilityPublic, VisibilityMembersOnly, VisibilityAdminOnly}

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityMembersOnly, VisibilityAdminOnly:
		return true
	}
	return false
}

// DocumentArchive is a file kept in the organization's archive.
type DocumentArchive struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	Title         string                      `gorm:"not null;index" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	Filename      string                      `gorm:"not null" json:"filename"`
	FilePath      string                      `gorm:"not null" json:"file_path"`
	FileType      string                      `gorm:"not null" json:"file_type"`
	FileSize      int64                       `gorm:"not null" json:"file_size"`
	Category      string                      `gorm:"index" json:"category"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Visibility    Visibility                  `gorm:"type:varchar(16);not null;default:'public';index" json:"visibility"`
	UploadedBy    uuid.UUID                   `gorm:"type:text;not null;index" json:"uploaded_by"`
	Uploader      *User                       `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	DownloadCount int64                       `gorm:"not null;default:0" json:"download_count"`
	FileSizeHuman string                      `gorm:"-" json:"file_size_human"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (d *DocumentArchive) AfterSave(tx *gorm.DB) error {
	d.FileSizeHuman = utils.FormatBytes(d.FileSize)
	return nil
}

func (d *DocumentArchive) AfterFind(tx *gorm.DB) error {
	d.FileSizeHuman = utils.FormatBytes(d.FileSize)
	return checkEnum("document_archive", "visibility", string(d.Visibility), d.Visibility.Valid())
}
