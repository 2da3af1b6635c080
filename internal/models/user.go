package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account of the organization portal.
// A nil *User is an anonymous visitor; every capability check on it is false.
type User struct {
	ID           uuid.UUID  `gorm:"type:text;primary_key" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `gorm:"type:varchar(32);not null;default:'member';index" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleMember
	}
	return checkEnum("user", "role", string(u.Role), u.Role.Valid())
}

// AfterFind rejects rows whose role was written outside the application.
func (u *User) AfterFind(tx *gorm.DB) error {
	return checkEnum("user", "role", string(u.Role), u.Role.Valid())
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsContentCreator() bool {
	return u != nil && u.Role == RoleContentCreator
}

func (u *User) IsMember() bool {
	return u != nil && u.Role == RoleMember
}

func (u *User) CanCreateContent() bool {
	return u != nil && u.Role.CanCreateContent()
}

func (u *User) CanEditContent() bool {
	return u != nil && u.Role.CanEditContent()
}

// IsAnonymous reports whether u stands for an unauthenticated visitor.
func (u *User) IsAnonymous() bool { return u == nil }
