package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/config"
	"github.com/orgdesa/orgdesa/internal/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := New(config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := New(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}

func TestCreateDefaultAdmin_SkipsWithoutEnv(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	if err := CreateDefaultAdmin(db); err != nil {
		t.Fatalf("CreateDefaultAdmin failed: %v", err)
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no users, got %d", count)
	}
}

func TestCreateDefaultAdmin_CreatesOnce(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("ADMIN_EMAIL", " Kepala@Desa.ID ")
	t.Setenv("ADMIN_PASSWORD", "rahasia123")
	t.Setenv("ADMIN_NAME", "")

	for i := 0; i < 2; i++ {
		if err := CreateDefaultAdmin(db); err != nil {
			t.Fatalf("CreateDefaultAdmin call %d failed: %v", i+1, err)
		}
	}

	var users []models.User
	db.Find(&users)
	if len(users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(users))
	}
	u := users[0]
	if u.Email != "kepala@desa.id" || u.Role != models.RoleAdmin || !u.IsActive || u.Name != "Administrator" {
		t.Errorf("unexpected admin %+v", u)
	}
	if !auth.VerifyPassword(u.PasswordHash, "rahasia123") {
		t.Error("password was not hashed from ADMIN_PASSWORD")
	}
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	res, err := Seed(db, "password", now)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if res.Skipped || len(res.Users) != len(models.Roles) {
		t.Fatalf("unexpected result %+v", res)
	}

	counts := map[string]interface{}{
		"organization_profiles": &models.OrganizationProfile{},
		"activities":            &models.Activity{},
		"meeting_minutes":       &models.MeetingMinute{},
		"document_archives":     &models.DocumentArchive{},
	}
	for name, model := range counts {
		var n int64
		db.Model(model).Count(&n)
		if n == 0 {
			t.Errorf("%s: nothing seeded", name)
		}
	}

	for _, vis := range models.Visibilities {
		var n int64
		db.Model(&models.DocumentArchive{}).Where("visibility = ?", vis).Count(&n)
		if n != 1 {
			t.Errorf("expected one %s document, got %d", vis, n)
		}
	}

	var draft models.MeetingMinute
	db.Where("status = ?", models.MinuteDraft).First(&draft)
	if draft.PublishedAt != nil {
		t.Error("draft minutes must not carry published_at")
	}

	again, err := Seed(db, "password", now)
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if !again.Skipped {
		t.Error("second Seed should skip a populated database")
	}
}
