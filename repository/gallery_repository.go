package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/silvergrain/portfoliobackend/models"
)

type GormGalleryRepository struct {
	db *gorm.DB
}

func NewGormGalleryRepository(db *gorm.DB) GalleryRepository {
	return &GormGalleryRepository{db: db}
}

// preloadImages orders each category's images by display order so the
// client receives the sequence in its authoritative order.
func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order ASC, id ASC")
	})
}

func (r *GormGalleryRepository) ListCategories() ([]models.GalleryCategory, error) {
	var categories []models.GalleryCategory
	err := preloadImages(r.db).Order("display_order ASC, id ASC").Find(&categories).Error
	return categories, err
}

func (r *GormGalleryRepository) GetCategoryByID(id uint) (*models.GalleryCategory, error) {
	var category models.GalleryCategory
	if err := preloadImages(r.db).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormGalleryRepository) GetCategoryBySlug(slug string) (*models.GalleryCategory, error) {
	var category models.GalleryCategory
	if err := preloadImages(r.db).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormGalleryRepository) CreateCategory(category *models.GalleryCategory) error {
	return r.db.Create(category).Error
}

func (r *GormGalleryRepository) UpdateCategory(id uint, title string, description, coverImage *string, displayOrder *int) error {
	updates := map[string]interface{}{"title": title}
	if description != nil {
		updates["description"] = *description
	}
	if coverImage != nil {
		updates["cover_image"] = *coverImage
	}
	if displayOrder != nil {
		updates["display_order"] = *displayOrder
	}

	result := r.db.Model(&models.GalleryCategory{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCategory removes the category and all of its images in one
// transaction. The deleted image rows are returned so the caller can clean
// up the stored files after the transaction commits.
func (r *GormGalleryRepository) DeleteCategory(id uint) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var category models.GalleryCategory
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.GalleryCategory{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// CreateImage appends the image to the end of its category's display order.
func (r *GormGalleryRepository) CreateImage(image *models.GalleryImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var category models.GalleryCategory
		if err := tx.First(&category, image.CategoryID).Error; err != nil {
			return fmt.Errorf("category %d not found: %w", image.CategoryID, err)
		}

		var maxOrder *int
		if err := tx.Model(&models.GalleryImage{}).
			Where("category_id = ?", image.CategoryID).
			Select("MAX(display_order)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		if maxOrder != nil {
			image.DisplayOrder = *maxOrder + 1
		} else {
			image.DisplayOrder = 0
		}
		return tx.Create(image).Error
	})
}

func (r *GormGalleryRepository) GetImageByID(id uint) (*models.GalleryImage, error) {
	var image models.GalleryImage
	if err := r.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// ReplaceImage swaps the stored sources of an existing image in place. The
// row keeps its id, category, and display order.
func (r *GormGalleryRepository) ReplaceImage(id uint, src, thumbSrc string, alt *string) error {
	updates := map[string]interface{}{
		"src":       src,
		"thumb_src": thumbSrc,
	}
	if alt != nil {
		updates["alt"] = *alt
	}

	result := r.db.Model(&models.GalleryImage{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormGalleryRepository) DeleteImage(id uint) error {
	result := r.db.Delete(&models.GalleryImage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
