package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/orgdesa/orgdesa/internal/audit"
	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"gorm.io/gorm"
)

// CreateUserRequest is the admin form for a new account.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin content_creator member"`
}

// UpdateUserRequest changes another account's role or active flag.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin content_creator member"`
	IsActive *bool   `json:"is_active"`
}

var userMessages = map[string]string{
	"email.email":  "Please enter a valid email address.",
	"password.min": "Password must be at least 8 characters.",
	"role.oneof":   "Invalid role selected.",
}

// UserService manages accounts and exposes the audit trail to admins.
type UserService struct {
	db     *gorm.DB
	policy *policy.Policy
}

// NewUserService creates a new UserService. p may be nil when only
// Provision is used.
func NewUserService(db *gorm.DB, p *policy.Policy) *UserService {
	return &UserService{db: db, policy: p}
}

// List returns every account ordered by name.
func (s *UserService) List(ctx context.Context, viewer *models.User) ([]models.User, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceUser, rbac.ActionManage); err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("name ASC").Order("email ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create adds an account with the given role.
func (s *UserService) Create(ctx context.Context, viewer *models.User, req CreateUserRequest) (*models.User, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceUser, rbac.ActionManage); err != nil {
		return nil, err
	}
	user, err := s.insert(ctx, req)
	if err != nil {
		return nil, err
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionCreateUser, audit.Resource("user", user.ID), map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
	slog.Info("User created", "user_id", user.ID, "role", user.Role, "by", viewer.ID)
	return user, nil
}

// Provision creates an account for an operator with database access, under
// the same rules as Create. There is no acting user, so the audit entry is
// attributed to the new account.
func (s *UserService) Provision(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user, err := s.insert(ctx, req)
	if err != nil {
		return nil, err
	}

	audit.LogAction(s.db, user.ID, audit.ActionCreateUser, audit.Resource("user", user.ID), map[string]interface{}{
		"email":  user.Email,
		"role":   user.Role,
		"source": "cli",
	})
	slog.Info("User provisioned", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) insert(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req, userMessages); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: fmt.Sprintf("a user with email %q already exists", req.Email)}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.Role(req.Role),
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Update changes another account. An admin cannot change their own role or
// deactivate themselves.
func (s *UserService) Update(ctx context.Context, viewer *models.User, id uuid.UUID, req UpdateUserRequest) (*models.User, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceUser, rbac.ActionManage); err != nil {
		return nil, err
	}
	if err := validateRequest(req, userMessages); err != nil {
		return nil, err
	}
	if id == viewer.ID && (req.Role != nil || (req.IsActive != nil && !*req.IsActive)) {
		return nil, ErrForbidden
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	details := map[string]interface{}{}
	if req.Name != nil {
		user.Name = *req.Name
		details["name"] = user.Name
	}
	if req.Role != nil {
		details["previous_role"] = user.Role
		user.Role = models.Role(*req.Role)
		details["role"] = user.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
		details["is_active"] = user.IsActive
	}

	if err := s.db.WithContext(ctx).Model(&user).
		Select("name", "role", "is_active", "updated_at").
		Updates(&user).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionUpdateUser, audit.Resource("user", user.ID), details)
	return &user, nil
}

// AuditLogs returns the most recent audit entries, newest first.
func (s *UserService) AuditLogs(ctx context.Context, viewer *models.User, limit int) ([]models.AuditLog, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceAuditLog, rbac.ActionManage); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	logs := []models.AuditLog{}
	err := s.db.WithContext(ctx).Preload("User").
		Order("timestamp DESC").Order("id DESC").
		Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
