package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/orgdesa/orgdesa/internal/audit"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MeetingMinuteRequest holds the editable fields of a meeting minute.
type MeetingMinuteRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Content     string     `json:"content" validate:"required"`
	MeetingDate *time.Time `json:"meeting_date" validate:"required"`
	Location    string     `json:"location" validate:"max=255"`
	Attendees   []string   `json:"attendees" validate:"dive,max=255"`
	FilePath    string     `json:"file_path" validate:"max=500"`
	Status      string     `json:"status" validate:"required,oneof=draft published archived"`
	PublishedAt *time.Time `json:"published_at"`
}

var meetingMinuteMessages = map[string]string{
	"title.required":        "Meeting title is required.",
	"content.required":      "Meeting content is required.",
	"meeting_date.required": "Meeting date is required.",
	"status.oneof":          "Invalid meeting minute status selected.",
}

// MeetingMinuteService contains the business logic for meeting minutes.
type MeetingMinuteService struct {
	db     *gorm.DB
	policy *policy.Policy
	now    func() time.Time
}

// NewMeetingMinuteService creates a new MeetingMinuteService.
func NewMeetingMinuteService(db *gorm.DB, p *policy.Policy) *MeetingMinuteService {
	return &MeetingMinuteService{db: db, policy: p, now: time.Now}
}

// List returns a page of minutes in the statuses the viewer may see. The
// status filter only narrows the listing for editors.
func (s *MeetingMinuteService) List(ctx context.Context, viewer *models.User, params ListParams) (*Page[models.MeetingMinute], error) {
	statuses, err := s.policy.MinuteStatuses(viewer, models.MinuteStatus(params.Status))
	if err != nil {
		return nil, err
	}

	scopes := []scope{
		whereIn("status", statuses),
		searchScope(policy.MeetingMinutes.SearchFields, params.Search),
	}
	return paginate[models.MeetingMinute](s.db.WithContext(ctx), policy.MeetingMinutes, params.Page, scopes, "Creator")
}

// Get returns a single minute. Unpublished minutes are forbidden to
// non-editors.
func (s *MeetingMinuteService) Get(ctx context.Context, viewer *models.User, id uint) (*models.MeetingMinute, error) {
	m, err := s.find(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanReadMinute(viewer, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MeetingMinuteService) find(ctx context.Context, id uint, withCreator bool) (*models.MeetingMinute, error) {
	q := s.db.WithContext(ctx)
	if withCreator {
		q = q.Preload("Creator")
	}
	var m models.MeetingMinute
	if err := q.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create validates and stores a new minute owned by the viewer.
func (s *MeetingMinuteService) Create(ctx context.Context, viewer *models.User, req MeetingMinuteRequest) (*models.MeetingMinute, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceMeetingMinute, rbac.ActionCreate); err != nil {
		return nil, err
	}
	if err := validateRequest(req, meetingMinuteMessages); err != nil {
		return nil, err
	}

	m := models.MeetingMinute{CreatedBy: viewer.ID}
	s.apply(&m, req)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create meeting minute: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionCreateMeetingMinute, audit.Resource("meeting_minute", m.ID), map[string]interface{}{
		"title":  m.Title,
		"status": m.Status,
	})
	slog.Info("Meeting minute created", "meeting_minute_id", m.ID, "status", m.Status, "user_id", viewer.ID)
	return &m, nil
}

// Update replaces the editable fields of a minute.
func (s *MeetingMinuteService) Update(ctx context.Context, viewer *models.User, id uint, req MeetingMinuteRequest) (*models.MeetingMinute, error) {
	if err := s.policy.Authorize(viewer, rbac.ResourceMeetingMinute, rbac.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validateRequest(req, meetingMinuteMessages); err != nil {
		return nil, err
	}

	m, err := s.find(ctx, id, false)
	if err != nil {
		return nil, err
	}
	previous := m.Status
	s.apply(m, req)
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, fmt.Errorf("update meeting minute: %w", err)
	}

	details := map[string]interface{}{"title": m.Title, "status": m.Status}
	if previous != m.Status {
		details["previous_status"] = previous
	}
	audit.LogAction(s.db, viewer.ID, audit.ActionUpdateMeetingMinute, audit.Resource("meeting_minute", m.ID), details)
	return m, nil
}

// apply copies the request onto m. published_at is stamped the first time
// the minute is published and is never overwritten or cleared afterwards.
func (s *MeetingMinuteService) apply(m *models.MeetingMinute, req MeetingMinuteRequest) {
	m.Title = req.Title
	m.Content = req.Content
	m.MeetingDate = req.MeetingDate.UTC()
	m.Location = req.Location
	m.Attendees = datatypes.JSONSlice[string](cleanAttendees(req.Attendees))
	m.FilePath = req.FilePath
	m.Status = models.MinuteStatus(req.Status)

	if m.Status == models.MinutePublished && m.PublishedAt == nil {
		at := s.now().UTC()
		if req.PublishedAt != nil {
			at = req.PublishedAt.UTC()
		}
		m.PublishedAt = &at
	}
}

func cleanAttendees(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Delete removes a minute.
func (s *MeetingMinuteService) Delete(ctx context.Context, viewer *models.User, id uint) error {
	if err := s.policy.Authorize(viewer, rbac.ResourceMeetingMinute, rbac.ActionDelete); err != nil {
		return err
	}

	m, err := s.find(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(m).Error; err != nil {
		return fmt.Errorf("delete meeting minute: %w", err)
	}

	audit.LogAction(s.db, viewer.ID, audit.ActionDeleteMeetingMinute, audit.Resource("meeting_minute", m.ID), map[string]interface{}{
		"title": m.Title,
	})
	return nil
}
