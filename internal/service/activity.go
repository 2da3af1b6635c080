package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/orgdesa/orgdesa/internal/audit"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"gorm.io/gorm"
)

// ActivityRequest holds the editable fields of an activity.
type ActivityRequest struct {
	Title        string     `json:"title" validate:"required,max=255"`
	Description  string     `json:"description"`
	ActivityDate *time.Time `json:"activity_date" validate:"required"`
	Location     string     `json:"location" validate:"max=255"`
	Status       string     `json:"status" validate:"required,oneof=planned ongoing completed cancelled"`
}

var activityMessages = map[string]string{
	"title.required":         "Activity title is required.",
	"activity_date.required": "Activity date is required.",
	"status.required":        "Activity status is required.",
	"status.oneof":           "Invalid activity status selected.",
}

// ActivityDocumentRequest holds the fields of a file attached to an activity.
type ActivityDocumentRequest struct {
	Filename     string `json:"filename" validate:"required,max=255"`
	FilePath     string `json:"file_path" validate:"required,max=500"`
	FileType     string `json:"file_type" validate:"required,max=10"`
	FileSize     int64  `json:"file_size" validate:"gt=0"`
	DocumentType string `json:"document_type" validate:"omitempty,oneof=photo report other"`
	Description  string `json:"description" validate:"max=255"`
}

var activityDocumentMessages = map[string]string{
	"file_size.gt": "File size must be greater than 0.",
}

// ActivityService contains the business logic for activities.
type ActivityService struct {
	db     *gorm.DB
	policy *policy.Policy
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *gorm.DB, p *policy.Policy) *ActivityService {
	return &ActivityService{db: db, policy: p}
}

// List returns a page of activities. Activities are public; status and
// search narrow the listing.
func (s *ActivityService) List(ctx context.Context, viewer *models.User, params ListParams) (*Page[models.Activity], error) {
	if err := s.policy.CanReadActivity(viewer, nil); err != nil {
		return nil, err
	}

	scopes := []scope{
		whereIn("status", models.ActivityStatuses),
		searchScope(policy.Activities.SearchFields, params.Search),
	}
	if params.Status != "" {
		scopes = append(scopes, whereEq("status", params.Status))
	}

	return paginate[models.Activity](s.db.WithContext(ctx), policy.Activities, params.Page, scopes, "Creator", "Documents")
}

// Get returns a single activity with its creator and attached documents.
func (s *ActivityService) Get(ctx context.Context, viewer *models.User, id uint) (*models.Activity, error) {
	var a models.Activity
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Documents.Uploader").
		First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.policy.CanReadActivity(viewer, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create validates and stores a new activity owned by the viewer.
func (s *ActivityService) Create(ctx context.Context, viewer *models.User, req ActivityRequest) (*models.Activity, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceActivity, rbac.ActionCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req, activityMessages); err != nil {
		return nil, err
	}

	a := models.Activity{
		Title:        req.Title,
		Description:  req.Description,
		ActivityDate: req.ActivityDate.UTC(),
		Location:     req.Location,
		Status:       models.ActivityStatus(req.Status),
		CreatedBy:    viewer.ID,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionCreateActivity, audit.Resource("activity", a.ID), map[string]interface{}{
		"title":  a.Title,
		"status": a.Status,
	})
	slog.Info("Activity created", "activity_id", a.ID, "user_id", viewer.ID)
	return &a, nil
}

// Update replaces the editable fields of an activity.
func (s *ActivityService) Update(ctx context.Context, viewer *models.User, id uint, req ActivityRequest) (*models.Activity, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceActivity, rbac.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validateRequest(req, activityMessages); err != nil {
		return nil, err
	}

	var a models.Activity
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Title = req.Title
	a.Description = req.Description
	a.ActivityDate = req.ActivityDate.UTC()
	a.Location = req.Location
	a.Status = models.ActivityStatus(req.Status)
	if err := s.db.WithContext(ctx).Save(&a).Error; err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionUpdateActivity, audit.Resource("activity", a.ID), map[string]interface{}{
		"title":  a.Title,
		"status": a.Status,
	})
	return &a, nil
}

// Delete removes an activity and its attached documents.
func (s *ActivityService) Delete(ctx context.Context, viewer *models.User, id uint) error {
	if err := s.policy.Authorize(viewer, rbac.ResourceActivity, rbac.ActionDelete); err != nil {
		return err
	}

	var a models.Activity
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", a.ID).Delete(&models.ActivityDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionDeleteActivity, audit.Resource("activity", a.ID), map[string]interface{}{
		"title": a.Title,
	})
	slog.Info("Activity deleted", "activity_id", a.ID, "user_id", viewer.ID)
	return nil
}

// AttachDocument stores a photo, report or other file for an activity.
func (s *ActivityService) AttachDocument(ctx context.Context, viewer *models.User, activityID uint, req ActivityDocumentRequest) (*models.ActivityDocument, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceActivityDocument, rbac.ActionCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req, activityDocumentMessages); err != nil {
		return nil, err
	}

	var a models.Activity
	if err := s.db.WithContext(ctx).First(&a, activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	docType := models.ActivityDocumentType(req.DocumentType)
	if docType == "" {
		docType = models.ActivityDocOther
	}

	doc := models.ActivityDocument{
		ActivityID:   a.ID,
		Filename:     req.Filename,
		FilePath:     req.FilePath,
		FileType:     req.FileType,
		FileSize:     req.FileSize,
		DocumentType: docType,
		Description:  req.Description,
		UploadedBy:   viewer.ID,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("create activity document: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionAttachActivityDocument, audit.Resource("activity", a.ID), map[string]interface{}{
		"document_id": doc.ID,
		"filename":    doc.Filename,
	})
	return &doc, nil
}

// DeleteDocument removes a file attached to an activity.
func (s *ActivityService) DeleteDocument(ctx context.Context, viewer *models.User, activityID, docID uint) error {
	if err := s.policy.Authorize(viewer, rbac.ResourceActivityDocument, rbac.ActionDelete); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Where("activity_id = ?", activityID).Delete(&models.ActivityDocument{}, docID)
	if res.Error != nil {
		return fmt.Errorf("delete activity document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionDeleteActivityDocument, audit.Resource("activity", activityID), map[string]interface{}{
		"document_id": docID,
	})
	return nil
}
