package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/orgdesa/orgdesa/internal/audit"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"gorm.io/gorm"
)

// OrganizationRequest holds the editable fields of the organization profile.
type OrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Vision      string `json:"vision"`
	Mission     string `json:"mission"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone" validate:"max=20"`
	Address     string `json:"address"`
	Description string `json:"description"`
	LogoPath    string `json:"logo_path" validate:"max=500"`
}

var organizationMessages = map[string]string{
	"name.required": "Organization name is required.",
	"email.email":   "Please enter a valid email address.",
}

// OrganizationService reads and edits the singleton organization profile.
type OrganizationService struct {
	db     *gorm.DB
	policy *policy.Policy
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(db *gorm.DB, p *policy.Policy) *OrganizationService {
	return &OrganizationService{db: db, policy: p}
}

// Show returns the profile, or nil when none has been written yet.
func (s *OrganizationService) Show(ctx context.Context, viewer *models.User) (*models.OrganizationProfile, error) {
	if err := s.policy.CanReadOrganization(viewer); err != nil {
		return nil, err
	}
	var p models.OrganizationProfile
	if err := s.db.WithContext(ctx).Order("id ASC").First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Update writes the profile, creating the single row on first use.
func (s *OrganizationService) Update(ctx context.Context, viewer *models.User, req OrganizationRequest) (*models.OrganizationProfile, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceOrganization, rbac.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validateRequest(req, organizationMessages); err != nil {
		return nil, err
	}

	var p models.OrganizationProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").FirstOrInit(&p).Error; err != nil {
			return err
		}
		p.Name = req.Name
		p.Vision = req.Vision
		p.Mission = req.Mission
		p.Email = req.Email
		p.Phone = req.Phone
		p.Address = req.Address
		p.Description = req.Description
		p.LogoPath = req.LogoPath
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update organization profile: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionUpdateOrganizationProfile, audit.Resource("organization", p.ID), map[string]interface{}{
		"name": p.Name,
	})
	slog.Info("Organization profile updated", "profile_id", p.ID, "user_id", viewer.ID)
	return &p, nil
}
