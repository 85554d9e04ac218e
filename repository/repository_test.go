package repository

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/silvergrain/portfoliobackend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.GalleryCategory{},
		&models.GalleryImage{},
		&models.ContactMessage{},
		&models.PortfolioSection{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func seedCategory(t *testing.T, repo GalleryRepository, slug string) *models.GalleryCategory {
	t.Helper()
	cat := &models.GalleryCategory{Title: "Category " + slug, Slug: slug}
	if err := repo.CreateCategory(cat); err != nil {
		t.Fatalf("seed category %q: %v", slug, err)
	}
	return cat
}

func seedImage(t *testing.T, repo GalleryRepository, categoryID uint, alt string) *models.GalleryImage {
	t.Helper()
	img := &models.GalleryImage{
		CategoryID:  categoryID,
		Src:         "/uploads/gallery/" + alt + ".jpg",
		ThumbSrc:    "/uploads/thumbnails/" + alt + ".jpg",
		Alt:         alt,
		AspectRatio: models.AspectPortrait,
	}
	if err := repo.CreateImage(img); err != nil {
		t.Fatalf("seed image %q: %v", alt, err)
	}
	return img
}
