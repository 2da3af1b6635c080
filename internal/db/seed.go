package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedResult reports what Seed wrote.
type SeedResult struct {
	Skipped bool
	Users   []models.User
}

// Seed fills an empty database with a demo organization: a profile, one
// account per role sharing password, and content at every status and
// visibility level. It does nothing when any user already exists.
func Seed(db *gorm.DB, password string, now time.Time) (*SeedResult, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		slog.Info("Database already has users, skipping seed")
		return &SeedResult{Skipped: true}, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	result := &SeedResult{}

	err = db.Transaction(func(tx *gorm.DB) error {
		profile := models.OrganizationProfile{
			Name:        "Organisasi Desa Sejahtera",
			Vision:      "Menjadi organisasi desa yang mandiri, sejahtera, dan berkeadilan untuk seluruh warga desa.",
			Mission:     "Memberdayakan masyarakat desa melalui program pembangunan yang berkelanjutan.",
			Email:       "info@desasejahtera.id",
			Phone:       "+62 812-3456-7890",
			Address:     "Jl. Raya Desa No. 123, Kecamatan Sejahtera",
			Description: "Lembaga pemberdayaan masyarakat desa di bidang ekonomi lokal, pendidikan, dan kesehatan.",
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		users := []models.User{
			{Name: "Admin Desa", Email: "admin@desasejahtera.id", Role: models.RoleAdmin},
			{Name: "Sekretaris Desa", Email: "sekretaris@desasejahtera.id", Role: models.RoleContentCreator},
			{Name: "Warga Desa", Email: "warga@desasejahtera.id", Role: models.RoleMember},
		}
		for i := range users {
			users[i].PasswordHash = hash
			users[i].IsActive = true
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}
		admin, creator := users[0], users[1]
		result.Users = users

		activities := []models.Activity{
			{Title: "Gotong Royong Bersih Desa", Description: "Kerja bakti membersihkan saluran air.", ActivityDate: now.AddDate(0, 0, 7), Location: "Balai Desa", Status: models.ActivityPlanned, CreatedBy: creator.ID},
			{Title: "Posyandu Balita", Description: "Pemeriksaan kesehatan rutin.", ActivityDate: now.AddDate(0, 0, -3), Location: "Posyandu Melati", Status: models.ActivityCompleted, CreatedBy: admin.ID},
			{Title: "Pelatihan UMKM", Description: "Pelatihan pemasaran produk lokal.", ActivityDate: now, Location: "Aula Kecamatan", Status: models.ActivityOngoing, CreatedBy: admin.ID},
		}
		if err := tx.Create(&activities).Error; err != nil {
			return err
		}

		published := now.AddDate(0, 0, -9)
		minutes := []models.MeetingMinute{
			{Title: "Rapat Anggaran Desa", Content: "Pembahasan rencana anggaran tahunan.", MeetingDate: now.AddDate(0, 0, -10), Location: "Balai Desa", Attendees: datatypes.JSONSlice[string]{"Admin Desa", "Sekretaris Desa"}, Status: models.MinutePublished, PublishedAt: &published, CreatedBy: creator.ID},
			{Title: "Rapat Persiapan Festival", Content: "Draf susunan panitia.", MeetingDate: now.AddDate(0, 0, -1), Location: "Balai Desa", Attendees: datatypes.JSONSlice[string]{"Sekretaris Desa"}, Status: models.MinuteDraft, CreatedBy: admin.ID},
		}
		if err := tx.Create(&minutes).Error; err != nil {
			return err
		}

		docs := []models.DocumentArchive{
			{Title: "Profil Desa", Filename: "profil-desa.pdf", FilePath: "documents/profil-desa.pdf", FileType: "pdf", FileSize: 204800, Category: "Profil", Tags: datatypes.JSONSlice[string]{"profil"}, Visibility: models.VisibilityPublic, UploadedBy: admin.ID},
			{Title: "Laporan Keuangan", Filename: "laporan-keuangan.xlsx", FilePath: "documents/laporan-keuangan.xlsx", FileType: "xlsx", FileSize: 51200, Category: "Keuangan", Tags: datatypes.JSONSlice[string]{"keuangan", "laporan"}, Visibility: models.VisibilityMembersOnly, UploadedBy: creator.ID},
			{Title: "Data Kependudukan", Filename: "data-penduduk.csv", FilePath: "documents/data-penduduk.csv", FileType: "csv", FileSize: 10240, Category: "Administrasi", Visibility: models.VisibilityAdminOnly, UploadedBy: admin.ID},
		}
		return tx.Create(&docs).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	slog.Info("Seeded demo organization", "users", len(result.Users))
	return result, nil
}
