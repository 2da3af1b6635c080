package service

import (
	"testing"
	"time"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minuteTitles(ms []models.MeetingMinute) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Title
	}
	return out
}

func TestMeetingMinuteListVisibility(t *testing.T) {
	f := newFixture(t)
	svc := NewMeetingMinuteService(f.db, f.policy)

	f.minute(t, "Published", models.MinutePublished, date(2025, 3, 1))
	f.minute(t, "Draft", models.MinuteDraft, date(2025, 3, 2))
	f.minute(t, "Archived", models.MinuteArchived, date(2025, 3, 3))

	page, err := svc.List(bg(), nil, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Published"}, minuteTitles(page.Data))

	page, err = svc.List(bg(), f.member, ListParams{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Published"}, minuteTitles(page.Data), "status filter is ignored for non-editors")

	page, err = svc.List(bg(), f.creator, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Published"}, minuteTitles(page.Data))

	page, err = svc.List(bg(), f.admin, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Archived", "Draft", "Published"}, minuteTitles(page.Data), "newest meeting first")
	assert.Equal(t, 10, page.PerPage)

	page, err = svc.List(bg(), f.admin, ListParams{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Draft"}, minuteTitles(page.Data))
}

func TestMeetingMinuteGet(t *testing.T) {
	f := newFixture(t)
	svc := NewMeetingMinuteService(f.db, f.policy)

	published := f.minute(t, "Published", models.MinutePublished, date(2025, 3, 1))
	draft := f.minute(t, "Draft", models.MinuteDraft, date(2025, 3, 2))

	_, err := svc.Get(bg(), nil, published.ID)
	assert.NoError(t, err)

	for _, viewer := range []*models.User{nil, f.member, f.creator} {
		_, err = svc.Get(bg(), viewer, draft.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	}

	got, err := svc.Get(bg(), f.admin, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)

	_, err = svc.Get(bg(), nil, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMeetingMinutePublishedAt(t *testing.T) {
	f := newFixture(t)
	svc := NewMeetingMinuteService(f.db, f.policy)

	first := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	req := MeetingMinuteRequest{
		Title:       "Rapat Bulanan",
		Content:     "Pembahasan program kerja",
		MeetingDate: date(2025, 3, 31),
		Attendees:   []string{"Pak Kades", " ", "Bu Sekdes"},
		Status:      "draft",
	}
	m, err := svc.Create(bg(), f.admin, req)
	require.NoError(t, err)
	assert.Nil(t, m.PublishedAt, "drafts are not stamped")
	assert.Equal(t, []string{"Pak Kades", "Bu Sekdes"}, []string(m.Attendees))

	req.Status = "published"
	m, err = svc.Update(bg(), f.admin, m.ID, req)
	require.NoError(t, err)
	require.NotNil(t, m.PublishedAt)
	assert.True(t, m.PublishedAt.Equal(first))

	// re-publishing, archiving or passing an explicit time never moves it
	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	req.PublishedAt = date(2030, 1, 1)
	m, err = svc.Update(bg(), f.admin, m.ID, req)
	require.NoError(t, err)
	assert.True(t, m.PublishedAt.Equal(first))

	req.Status = "archived"
	req.PublishedAt = nil
	m, err = svc.Update(bg(), f.admin, m.ID, req)
	require.NoError(t, err)
	require.NotNil(t, m.PublishedAt)
	assert.True(t, m.PublishedAt.Equal(first), "published_at survives archiving")

	reloaded, err := svc.Get(bg(), f.admin, m.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PublishedAt)
	assert.True(t, reloaded.PublishedAt.Equal(first))
}

func TestMeetingMinuteExplicitPublishedAt(t *testing.T) {
	f := newFixture(t)
	svc := NewMeetingMinuteService(f.db, f.policy)

	explicit := date(2025, 2, 14)
	m, err := svc.Create(bg(), f.creator, MeetingMinuteRequest{
		Title:       "Rapat Tahunan",
		Content:     "Laporan pertanggungjawaban",
		MeetingDate: date(2025, 2, 13),
		Status:      "published",
		PublishedAt: explicit,
	})
	require.NoError(t, err)
	require.NotNil(t, m.PublishedAt)
	assert.True(t, m.PublishedAt.Equal(*explicit))
}

func TestMeetingMinuteSearch(t *testing.T) {
	f := newFixture(t)
	svc := NewMeetingMinuteService(f.db, f.policy)

	f.minute(t, "Musyawarah Dusun", models.MinutePublished, date(2025, 5, 1))
	f.minute(t, "Evaluasi Program", models.MinutePublished, date(2025, 5, 2))

	page, err := svc.List(bg(), nil, ListParams{Search: "MUSYAWARAH"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Musyawarah Dusun"}, minuteTitles(page.Data))

	page, err = svc.List(bg(), nil, ListParams{Search: "isi notulen"})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2, "content is searched")
}

func TestMeetingMinuteWriteAuthorization(t *testing.T) {
	f := newFixture(t)
	svc := NewMeetingMinuteService(f.db, f.policy)
	m := f.minute(t, "Rapat", models.MinutePublished, date(2025, 1, 5))

	req := MeetingMinuteRequest{Title: "Rapat", Content: "x", MeetingDate: date(2025, 1, 5), Status: "draft"}
	_, err := svc.Create(bg(), f.member, req)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Update(bg(), f.creator, m.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(bg(), nil, m.ID), ErrForbidden)

	require.NoError(t, svc.Delete(bg(), f.admin, m.ID))
	assert.ErrorIs(t, svc.Delete(bg(), f.admin, m.ID), ErrNotFound)
}
