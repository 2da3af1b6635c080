package models

import "time"

// OrganizationProfile is the singleton description of the organization.
type OrganizationProfile struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Vision      string    `gorm:"type:text" json:"vision"`
	Mission     string    `gorm:"type:text" json:"mission"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `gorm:"type:text" json:"address"`
	Description string    `gorm:"type:text" json:"description"`
	LogoPath    string    `json:"logo_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName ensures GORM uses the "organization_profiles" table
func (OrganizationProfile) TableName() string {
	return "organization_profiles"
}
