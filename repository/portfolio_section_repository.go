package repository

import (
	"gorm.io/gorm"

	"github.com/silvergrain/portfoliobackend/models"
)

type GormPortfolioSectionRepository struct {
	db *gorm.DB
}

func NewGormPortfolioSectionRepository(db *gorm.DB) PortfolioSectionRepository {
	return &GormPortfolioSectionRepository{db: db}
}

func (r *GormPortfolioSectionRepository) ListAll() ([]models.PortfolioSection, error) {
	var sections []models.PortfolioSection
	err := r.db.Order("display_order ASC, id ASC").Find(&sections).Error
	return sections, err
}

func (r *GormPortfolioSectionRepository) GetByID(id uint) (*models.PortfolioSection, error) {
	var section models.PortfolioSection
	if err := r.db.First(&section, id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *GormPortfolioSectionRepository) UpdateImage(id uint, imageSrc, thumbSrc string) error {
	result := r.db.Model(&models.PortfolioSection{}).Where("id = ?", id).Updates(map[string]interface{}{
		"image_src": imageSrc,
		"thumb_src": thumbSrc,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
