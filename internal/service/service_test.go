package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/orgdesa/orgdesa/internal/config"
	appdb "github.com/orgdesa/orgdesa/internal/db"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture is a migrated temp database with one account per role.
type fixture struct {
	db      *gorm.DB
	policy  *policy.Policy
	admin   *models.User
	creator *models.User
	member  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := appdb.New(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, appdb.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	enf, err := rbac.NewEnforcer(nil, slog.Default())
	require.NoError(t, err)

	f := &fixture{db: db, policy: policy.New(enf)}
	f.admin = f.user(t, "admin@desa.id", models.RoleAdmin)
	f.creator = f.user(t, "sekretaris@desa.id", models.RoleContentCreator)
	f.member = f.user(t, "warga@desa.id", models.RoleMember)
	return f
}

func (f *fixture) user(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email, Role: role, IsActive: true}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func bg() context.Context { return context.Background() }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	return &t
}

func (f *fixture) document(t *testing.T, title string, vis models.Visibility, mutate ...func(*CreateDocumentRequest)) *models.DocumentArchive {
	t.Helper()
	req := CreateDocumentRequest{
		Title:      title,
		Filename:   "berkas.pdf",
		FilePath:   "documents/berkas.pdf",
		FileType:   "pdf",
		FileSize:   1024,
		Visibility: string(vis),
	}
	for _, m := range mutate {
		m(&req)
	}
	d, err := NewDocumentService(f.db, f.policy).Create(bg(), f.admin, req)
	require.NoError(t, err)
	return d
}

func (f *fixture) minute(t *testing.T, title string, status models.MinuteStatus, meetingDate *time.Time) *models.MeetingMinute {
	t.Helper()
	m, err := NewMeetingMinuteService(f.db, f.policy).Create(bg(), f.admin, MeetingMinuteRequest{
		Title:       title,
		Content:     "Isi notulen",
		MeetingDate: meetingDate,
		Status:      string(status),
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) activity(t *testing.T, title string, status models.ActivityStatus, when *time.Time) *models.Activity {
	t.Helper()
	a, err := NewActivityService(f.db, f.policy).Create(bg(), f.admin, ActivityRequest{
		Title:        title,
		ActivityDate: when,
		Status:       string(status),
	})
	require.NoError(t, err)
	return a
}
