package repository

import (
	"gorm.io/gorm"

	"github.com/silvergrain/portfoliobackend/models"
)

type GormContactRepository struct {
	db *gorm.DB
}

func NewGormContactRepository(db *gorm.DB) ContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) Create(msg *models.ContactMessage) error {
	if msg.Status == "" {
		msg.Status = models.ContactStatusPending
	}
	return r.db.Create(msg).Error
}

func (r *GormContactRepository) ListAll() ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := r.db.Order("created_at DESC, id DESC").Find(&messages).Error
	return messages, err
}

func (r *GormContactRepository) GetByID(id uint) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := r.db.First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead transitions a pending message to read. Messages already read are
// left untouched; the transition never reverses.
func (r *GormContactRepository) MarkRead(id uint) error {
	var msg models.ContactMessage
	if err := r.db.First(&msg, id).Error; err != nil {
		return err
	}
	if msg.Status == models.ContactStatusRead {
		return nil
	}
	return r.db.Model(&msg).
		Where("status = ?", models.ContactStatusPending).
		Update("status", models.ContactStatusRead).Error
}

func (r *GormContactRepository) Delete(id uint) error {
	result := r.db.Delete(&models.ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
