package service

import (
	"errors"
	"testing"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activityTitles(as []models.Activity) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Title
	}
	return out
}

func TestActivityListOrderAndFilters(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, f.policy)

	f.activity(t, "Kerja Bakti", models.ActivityCompleted, date(2025, 1, 10))
	f.activity(t, "Posyandu", models.ActivityPlanned, date(2025, 2, 10))
	f.activity(t, "Senam Pagi", models.ActivityPlanned, date(2025, 2, 10))
	f.activity(t, "Lomba", models.ActivityCancelled, date(2024, 8, 17))

	page, err := svc.List(bg(), nil, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Posyandu", "Senam Pagi", "Kerja Bakti", "Lomba"}, activityTitles(page.Data),
		"activity_date descending, ties in insertion order")

	page, err = svc.List(bg(), nil, ListParams{Status: "planned"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Posyandu", "Senam Pagi"}, activityTitles(page.Data))

	page, err = svc.List(bg(), f.member, ListParams{Search: "bakti"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kerja Bakti"}, activityTitles(page.Data))
}

func TestActivitySearchFields(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, f.policy)

	create := func(title, description, location string) {
		_, err := svc.Create(bg(), f.admin, ActivityRequest{
			Title: title, Description: description, Location: location,
			ActivityDate: date(2025, 3, 1), Status: "planned",
		})
		require.NoError(t, err)
	}
	create("Musyawarah Dusun", "Rapat koordinasi warga RT 03", "Pos Ronda")
	create("Kerja Bakti", "Membersihkan saluran air", "Ruang RAPAT Balai Desa")
	create("Senam Pagi", "Senam bersama", "Lapangan")

	page, err := svc.List(bg(), nil, ListParams{Search: "rapat"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Musyawarah Dusun", "Kerja Bakti"}, activityTitles(page.Data),
		"matches on description or location alone, regardless of case")
}

func TestActivityListSkipsCorruptRows(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, f.policy)

	good := f.activity(t, "Posyandu", models.ActivityPlanned, date(2025, 2, 1))
	bad := f.activity(t, "Rusak", models.ActivityPlanned, date(2025, 2, 2))
	require.NoError(t, f.db.Exec("UPDATE activities SET status = ? WHERE id = ?", "postponed", bad.ID).Error)

	page, err := svc.List(bg(), nil, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Posyandu"}, activityTitles(page.Data))
	assert.EqualValues(t, 1, page.Total)

	_, err = svc.Get(bg(), nil, bad.ID)
	assert.ErrorIs(t, err, models.ErrDataIntegrity, "the corrupt record itself stays unreadable")

	// a creator with a corrupt role drops out of the preload, not the listing
	require.NoError(t, f.db.Exec("UPDATE users SET role = ? WHERE id = ?", "superuser", f.admin.ID).Error)
	page, err = svc.List(bg(), nil, ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, good.ID, page.Data[0].ID)
	assert.Nil(t, page.Data[0].Creator)
}

func TestActivityPagination(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, f.policy)
	for i := 1; i <= 13; i++ {
		f.activity(t, "Kegiatan", models.ActivityPlanned, date(2025, 1, i))
	}

	page, err := svc.List(bg(), nil, ListParams{Page: 1})
	require.NoError(t, err)
	assert.Len(t, page.Data, 12)
	assert.Equal(t, 2, page.LastPage)

	page, err = svc.List(bg(), nil, ListParams{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	page, err = svc.List(bg(), nil, ListParams{Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestActivityCRUD(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, f.policy)

	req := ActivityRequest{Title: "Bazar", ActivityDate: date(2025, 6, 1), Location: "Lapangan", Status: "planned"}

	_, err := svc.Create(bg(), f.member, req)
	assert.ErrorIs(t, err, ErrForbidden)

	a, err := svc.Create(bg(), f.creator, req)
	require.NoError(t, err)
	assert.Equal(t, f.creator.ID, a.CreatedBy)

	req.Status = "ongoing"
	_, err = svc.Update(bg(), f.creator, a.ID, req)
	assert.ErrorIs(t, err, ErrForbidden, "content creators cannot edit")

	updated, err := svc.Update(bg(), f.admin, a.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityOngoing, updated.Status)

	got, err := svc.Get(bg(), nil, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Creator)
	assert.Equal(t, f.creator.Email, got.Creator.Email)

	require.NoError(t, svc.Delete(bg(), f.admin, a.ID))
	_, err = svc.Get(bg(), nil, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivityValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, f.policy)

	_, err := svc.Create(bg(), f.admin, ActivityRequest{Status: "postponed"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("title"))
	assert.True(t, verr.Has("activity_date"))
	assert.True(t, verr.Has("status"))
}

func TestActivityDocuments(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, f.policy)
	a := f.activity(t, "Bersih Desa", models.ActivityCompleted, date(2025, 3, 3))

	docReq := ActivityDocumentRequest{
		Filename: "foto.jpg", FilePath: "activities/foto.jpg", FileType: "jpg",
		FileSize: 2048, DocumentType: "photo",
	}
	_, err := svc.AttachDocument(bg(), f.member, a.ID, docReq)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AttachDocument(bg(), f.creator, 999, docReq)
	assert.ErrorIs(t, err, ErrNotFound)

	doc, err := svc.AttachDocument(bg(), f.creator, a.ID, docReq)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityDocPhoto, doc.DocumentType)

	report := docReq
	report.DocumentType = ""
	report.FileSize = 0
	_, err = svc.AttachDocument(bg(), f.creator, a.ID, report)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("file_size"))

	got, err := svc.Get(bg(), nil, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "foto.jpg", got.Documents[0].Filename)

	assert.ErrorIs(t, svc.DeleteDocument(bg(), f.creator, a.ID, doc.ID), ErrForbidden)
	require.NoError(t, svc.DeleteDocument(bg(), f.admin, a.ID, doc.ID))
	assert.ErrorIs(t, svc.DeleteDocument(bg(), f.admin, a.ID, doc.ID), ErrNotFound)
}

func TestActivityDeleteRemovesDocuments(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, f.policy)
	a := f.activity(t, "Festival", models.ActivityCompleted, date(2025, 8, 17))

	_, err := svc.AttachDocument(bg(), f.admin, a.ID, ActivityDocumentRequest{
		Filename: "laporan.pdf", FilePath: "activities/laporan.pdf", FileType: "pdf", FileSize: 10, DocumentType: "report",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(bg(), f.admin, a.ID))

	var count int64
	f.db.Model(&models.ActivityDocument{}).Count(&count)
	assert.Zero(t, count)
}
