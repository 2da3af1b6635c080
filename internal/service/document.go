package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/orgdesa/orgdesa/internal/audit"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateDocumentRequest describes an uploaded archive document.
type CreateDocumentRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Filename    string   `json:"filename" validate:"required,max=255"`
	FilePath    string   `json:"file_path" validate:"required,max=500"`
	FileType    string   `json:"file_type" validate:"required,max=10"`
	FileSize    int64    `json:"file_size" validate:"gt=0"`
	Category    string   `json:"category" validate:"max=100"`
	Tags        []string `json:"tags" validate:"dive,max=50"`
	Visibility  string   `json:"visibility" validate:"required,oneof=public members_only admin_only"`
}

// UpdateDocumentRequest holds the metadata that may change after upload.
type UpdateDocumentRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"max=100"`
	Tags        []string `json:"tags" validate:"dive,max=50"`
	Visibility  string   `json:"visibility" validate:"required,oneof=public members_only admin_only"`
}

var documentMessages = map[string]string{
	"title.required":      "Document title is required.",
	"file_path.required":  "Please select a file to upload.",
	"file_size.gt":        "File size must be greater than 0.",
	"visibility.required": "Document visibility is required.",
	"visibility.oneof":    "Invalid visibility option selected.",
}

// DocumentService contains the business logic for the document archive.
type DocumentService struct {
	db     *gorm.DB
	policy *policy.Policy
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *gorm.DB, p *policy.Policy) *DocumentService {
	return &DocumentService{db: db, policy: p}
}

// List returns a page of documents at the visibility levels the viewer may
// see, optionally narrowed by category and search term.
func (s *DocumentService) List(ctx context.Context, viewer *models.User, params ListParams) (*Page[models.DocumentArchive], error) {
	levels, err := s.policy.DocumentVisibilities(viewer)
	if err != nil {
		return nil, err
	}

	scopes := []scope{
		whereIn("visibility", levels),
		searchScope(policy.Documents.SearchFields, params.Search),
	}
	if c := strings.TrimSpace(params.Category); c != "" {
		scopes = append(scopes, whereEq("category", c))
	}
	return paginate[models.DocumentArchive](s.db.WithContext(ctx), policy.Documents, params.Page, scopes, "Uploader")
}

// Categories returns the distinct non-empty categories among documents the
// viewer may see.
func (s *DocumentService) Categories(ctx context.Context, viewer *models.User) ([]string, error) {
	levels, err := s.policy.DocumentVisibilities(viewer)
	if err != nil {
		return nil, err
	}

	categories := []string{}
	err = s.db.WithContext(ctx).Model(&models.DocumentArchive{}).
		Where("visibility IN ?", levels).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list document categories: %w", err)
	}
	return categories, nil
}

// Get returns a single document the viewer may see.
func (s *DocumentService) Get(ctx context.Context, viewer *models.User, id uint) (*models.DocumentArchive, error) {
	d, err := s.find(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanReadDocument(viewer, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DocumentService) find(ctx context.Context, id uint, withUploader bool) (*models.DocumentArchive, error) {
	q := s.db.WithContext(ctx)
	if withUploader {
		q = q.Preload("Uploader")
	}
	var d models.DocumentArchive
	if err := q.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create validates and stores a new document uploaded by the viewer.
func (s *DocumentService) Create(ctx context.Context, viewer *models.User, req CreateDocumentRequest) (*models.DocumentArchive, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceDocument, rbac.ActionCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req, documentMessages); err != nil {
		return nil, err
	}

	d := models.DocumentArchive{
		Title:       req.Title,
		Description: req.Description,
		Filename:    req.Filename,
		FilePath:    req.FilePath,
		FileType:    strings.ToLower(req.FileType),
		FileSize:    req.FileSize,
		Category:    strings.TrimSpace(req.Category),
		Tags:        datatypes.JSONSlice[string](normalizeTags(req.Tags)),
		Visibility:  models.Visibility(req.Visibility),
		UploadedBy:  viewer.ID,
	}
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionCreateDocument, audit.Resource("document", d.ID), map[string]interface{}{
		"title":      d.Title,
		"visibility": d.Visibility,
		"file_size":  d.FileSize,
	})
	slog.Info("Document uploaded", "document_id", d.ID, "visibility", d.Visibility, "user_id", viewer.ID)
	return &d, nil
}

// Update changes a document's metadata. The stored file is left untouched.
func (s *DocumentService) Update(ctx context.Context, viewer *models.User, id uint, req UpdateDocumentRequest) (*models.DocumentArchive, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceDocument, rbac.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validateRequest(req, documentMessages); err != nil {
		return nil, err
	}

	d, err := s.find(ctx, id, false)
	if err != nil {
		return nil, err
	}
	d.Title = req.Title
	d.Description = req.Description
	d.Category = strings.TrimSpace(req.Category)
	d.Tags = datatypes.JSONSlice[string](normalizeTags(req.Tags))
	d.Visibility = models.Visibility(req.Visibility)

	// download_count is owned by Download; never write it back from memory.
	if err := s.db.WithContext(ctx).Model(d).
		Select("title", "description", "category", "tags", "visibility", "updated_at").
		Updates(d).Error; err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionUpdateDocument, audit.Resource("document", d.ID), map[string]interface{}{
		"title":      d.Title,
		"visibility": d.Visibility,
	})
	return d, nil
}

// Delete removes a document record.
func (s *DocumentService) Delete(ctx context.Context, viewer *models.User, id uint) error {
	if err := s.policy.Authorize(viewer, rbac.ResourceDocument, rbac.ActionDelete); err != nil {
		return err
	}

	d, err := s.find(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(d).Error; err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionDeleteDocument, audit.Resource("document", d.ID), map[string]interface{}{
		"title":     d.Title,
		"file_path": d.FilePath,
	})
	return nil
}

// Download authorizes a read of the document and counts the download. The
// counter is incremented in a single UPDATE so concurrent downloads are
// never lost.
func (s *DocumentService) Download(ctx context.Context, viewer *models.User, id uint) (*models.DocumentArchive, error) {
	d, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.DocumentArchive{}).
		Where("id = ?", d.ID).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("count download: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	d.DownloadCount++
	return d, nil
}

// normalizeTags trims, drops empties and de-duplicates, keeping first-seen
// order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
