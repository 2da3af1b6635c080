package db

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/models"
	"gorm.io/gorm"
)

// CreateDefaultAdmin creates an admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when both are set and no users exist in the database.
func CreateDefaultAdmin(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" || password == "" {
		slog.Info("No ADMIN_EMAIL or ADMIN_PASSWORD set, skipping default admin creation")
		return nil
	}
	if name == "" {
		name = "Administrator"
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		slog.Info("Users already exist, skipping default admin creation")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("Default admin user created", "email", email)
	return nil
}
