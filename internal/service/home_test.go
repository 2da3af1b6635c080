package service

import (
	"testing"
	"time"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeSummary(t *testing.T) {
	f := newFixture(t)
	svc := NewHomeService(f.db, f.policy)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	f.activity(t, "Lampau", models.ActivityCompleted, date(2025, 5, 1))
	f.activity(t, "Akan Datang", models.ActivityPlanned, date(2025, 7, 1))
	f.activity(t, "Batal", models.ActivityCancelled, date(2025, 7, 2))
	for i := 1; i <= 5; i++ {
		f.minute(t, "Terbit", models.MinutePublished, date(2025, 4, i))
	}
	f.minute(t, "Draf", models.MinuteDraft, date(2025, 5, 20))
	f.document(t, "Umum", models.VisibilityPublic)
	f.document(t, "Anggota", models.VisibilityMembersOnly)
	f.document(t, "Admin", models.VisibilityAdminOnly)

	sum, err := svc.Summary(bg(), nil)
	require.NoError(t, err)

	assert.Nil(t, sum.Organization)
	assert.Len(t, sum.RecentActivities, 3, "activities are shown regardless of status")
	assert.Len(t, sum.RecentMinutes, 4)
	for _, m := range sum.RecentMinutes {
		assert.Equal(t, models.MinutePublished, m.Status)
	}
	assert.True(t, sum.RecentMinutes[0].MeetingDate.Equal(*date(2025, 4, 5)), "most recent meeting first")
	require.Len(t, sum.RecentDocuments, 1)
	assert.Equal(t, "Umum", sum.RecentDocuments[0].Title)

	assert.Equal(t, HomeStats{
		TotalActivities:    3,
		UpcomingActivities: 1,
		PublishedMinutes:   5,
		PublicDocuments:    1,
	}, sum.Stats)
}

func TestHomeSummaryIncludesOrganization(t *testing.T) {
	f := newFixture(t)
	_, err := NewOrganizationService(f.db, f.policy).Update(bg(), f.admin, OrganizationRequest{Name: "Desa Sejahtera"})
	require.NoError(t, err)

	sum, err := NewHomeService(f.db, f.policy).Summary(bg(), f.member)
	require.NoError(t, err)
	require.NotNil(t, sum.Organization)
	assert.Equal(t, "Desa Sejahtera", sum.Organization.Name)
}

func TestHomeSummarySkipsCorruptActivity(t *testing.T) {
	f := newFixture(t)
	svc := NewHomeService(f.db, f.policy)

	f.activity(t, "Posyandu", models.ActivityPlanned, date(2025, 7, 1))
	bad := f.activity(t, "Rusak", models.ActivityPlanned, date(2025, 7, 2))
	require.NoError(t, f.db.Exec("UPDATE activities SET status = ? WHERE id = ?", "postponed", bad.ID).Error)

	sum, err := svc.Summary(bg(), nil)
	require.NoError(t, err)
	require.Len(t, sum.RecentActivities, 1)
	assert.Equal(t, "Posyandu", sum.RecentActivities[0].Title)
}
