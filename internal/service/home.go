package service

import (
	"context"
	"fmt"
	"time"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	homeActivities = 6
	homeMinutes    = 4
	homeDocuments  = 6
)

// HomeStats are the global counters shown on the home page.
type HomeStats struct {
	TotalActivities    int64 `json:"total_activities"`
	UpcomingActivities int64 `json:"upcoming_activities"`
	PublishedMinutes   int64 `json:"published_minutes"`
	PublicDocuments    int64 `json:"public_documents"`
}

// HomeSummary is the read-only landing page aggregate.
type HomeSummary struct {
	Organization     *models.OrganizationProfile `json:"organization"`
	RecentActivities []models.Activity           `json:"recent_activities"`
	RecentMinutes    []models.MeetingMinute      `json:"recent_minutes"`
	RecentDocuments  []models.DocumentArchive    `json:"recent_documents"`
	Stats            HomeStats                   `json:"stats"`
}

// HomeService builds the landing page summary.
type HomeService struct {
	db     *gorm.DB
	policy *policy.Policy
	now    func() time.Time
}

// NewHomeService creates a new HomeService.
func NewHomeService(db *gorm.DB, p *policy.Policy) *HomeService {
	return &HomeService{db: db, policy: p, now: time.Now}
}

// Summary returns the most recent public content and global counters. The
// summary is the same for every viewer: it only ever exposes published
// minutes and public documents.
func (s *HomeService) Summary(ctx context.Context, viewer *models.User) (*HomeSummary, error) {
	if err := s.policy.CanReadOrganization(viewer); err != nil {
		return nil, err
	}

	sum := &HomeSummary{
		RecentActivities: []models.Activity{},
		RecentMinutes:    []models.MeetingMinute{},
		RecentDocuments:  []models.DocumentArchive{},
	}
	now := s.now().UTC()

	g, ctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return s.db.WithContext(ctx) }

	g.Go(func() error {
		var p models.OrganizationProfile
		res := db().Order("id ASC").Limit(1).Find(&p)
		if res.Error != nil {
			return fmt.Errorf("load organization profile: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			sum.Organization = &p
		}
		return nil
	})
	g.Go(func() error {
		err := listPreload(db(), "Creator").
			Where("status IN ?", models.ActivityStatuses).
			Order("created_at DESC").Order("id DESC").
			Limit(homeActivities).Find(&sum.RecentActivities).Error
		if err != nil {
			return fmt.Errorf("load recent activities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := db().Where("status = ?", models.MinutePublished).
			Order("meeting_date DESC").Order("id ASC").
			Limit(homeMinutes).Find(&sum.RecentMinutes).Error
		if err != nil {
			return fmt.Errorf("load recent minutes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := db().Where("visibility = ?", models.VisibilityPublic).
			Order("created_at DESC").Order("id ASC").
			Limit(homeDocuments).Find(&sum.RecentDocuments).Error
		if err != nil {
			return fmt.Errorf("load recent documents: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return db().Model(&models.Activity{}).Count(&sum.Stats.TotalActivities).Error
	})
	g.Go(func() error {
		return db().Model(&models.Activity{}).
			Where("activity_date > ? AND status = ?", now, models.ActivityPlanned).
			Count(&sum.Stats.UpcomingActivities).Error
	})
	g.Go(func() error {
		return db().Model(&models.MeetingMinute{}).
			Where("status = ?", models.MinutePublished).
			Count(&sum.Stats.PublishedMinutes).Error
	})
	g.Go(func() error {
		return db().Model(&models.DocumentArchive{}).
			Where("visibility = ?", models.VisibilityPublic).
			Count(&sum.Stats.PublicDocuments).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sum, nil
}
