package service

import (
	"errors"
	"testing"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUserManagement(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.db, f.policy)

	_, err := svc.List(bg(), f.creator)
	assert.ErrorIs(t, err, ErrForbidden)

	users, err := svc.List(bg(), f.admin)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	u, err := svc.Create(bg(), f.admin, CreateUserRequest{
		Name: "Pak RT", Email: "RT01@desa.id", Password: "rahasia123", Role: "member",
	})
	require.NoError(t, err)
	assert.Equal(t, "rt01@desa.id", u.Email)
	assert.NotEmpty(t, u.PasswordHash)

	_, err = svc.Create(bg(), f.admin, CreateUserRequest{
		Name: "Dobel", Email: "rt01@desa.id", Password: "rahasia123", Role: "member",
	})
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))

	updated, err := svc.Update(bg(), f.admin, u.ID, UpdateUserRequest{Role: ptr("content_creator"), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleContentCreator, updated.Role)
	assert.False(t, updated.IsActive)

	var stored models.User
	require.NoError(t, f.db.First(&stored, "id = ?", u.ID).Error)
	assert.False(t, stored.IsActive, "false is persisted despite the column default")
}

func TestUserCannotChangeOwnRole(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.db, f.policy)

	_, err := svc.Update(bg(), f.admin, f.admin.ID, UpdateUserRequest{Role: ptr("member")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(bg(), f.admin, f.admin.ID, UpdateUserRequest{IsActive: ptr(false)})
	assert.ErrorIs(t, err, ErrForbidden)

	renamed, err := svc.Update(bg(), f.admin, f.admin.ID, UpdateUserRequest{Name: ptr("Kepala Desa")})
	require.NoError(t, err)
	assert.Equal(t, "Kepala Desa", renamed.Name)
	assert.Equal(t, models.RoleAdmin, renamed.Role)
}

func TestUserValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.db, f.policy)

	_, err := svc.Create(bg(), f.admin, CreateUserRequest{Email: "x", Password: "short", Role: "superuser"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{"name", "email", "password", "role"} {
		assert.True(t, verr.Has(field), field)
	}
}

func TestAuditLogs(t *testing.T) {
	f := newFixture(t)
	f.document(t, "Tercatat", models.VisibilityPublic)

	svc := NewUserService(f.db, f.policy)
	_, err := svc.AuditLogs(bg(), f.member, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	logs, err := svc.AuditLogs(bg(), f.admin, 10)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "create_document", logs[0].Action)
	require.NotNil(t, logs[0].User)
	assert.Equal(t, f.admin.ID, logs[0].User.ID)
}

func TestUserProvision(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.db, nil)

	u, err := svc.Provision(bg(), CreateUserRequest{
		Name: " Bu Kades ", Email: "Kades@Desa.ID", Password: "rahasia123", Role: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "kades@desa.id", u.Email)
	assert.Equal(t, "Bu Kades", u.Name)
	assert.True(t, u.IsActive)

	var entry models.AuditLog
	require.NoError(t, f.db.Where("action = ? AND user_id = ?", "create_user", u.ID).First(&entry).Error)
	assert.Equal(t, "cli", entry.Details["source"])

	_, err = svc.Provision(bg(), CreateUserRequest{Name: "Kedua", Email: "kades@desa.id", Password: "rahasia123", Role: "member"})
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))

	_, err = svc.Provision(bg(), CreateUserRequest{Name: "Pendek", Email: "bukan-email", Password: "123", Role: "ketua"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	for _, field := range []string{"email", "password", "role"} {
		assert.True(t, verr.Has(field), "expected violation for %s", field)
	}
}
