package audit

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/orgdesa/orgdesa/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestLogAction(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	user := models.User{Name: "Admin", Email: "admin@desa.id", Role: models.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	err = LogAction(db, user.ID, ActionDeleteDocument, Resource("document", 42), map[string]interface{}{"title": "Laporan"})
	if err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	var entry models.AuditLog
	if err := db.Preload("User").First(&entry).Error; err != nil {
		t.Fatalf("failed to load entry: %v", err)
	}
	if entry.Action != "delete_document" || entry.Resource != "document:42" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Details["title"] != "Laporan" {
		t.Errorf("details not stored: %v", entry.Details)
	}
	if entry.User == nil || entry.User.ID != user.ID {
		t.Error("entry is not linked to its user")
	}
	if entry.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestResource(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if got := Resource("user", id); got != "user:6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("Resource = %q", got)
	}
}
