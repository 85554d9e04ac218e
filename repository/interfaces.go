package repository

import (
	"github.com/silvergrain/portfoliobackend/models"
)

// UserRepository defines the methods for admin user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	UpdateLastLogin(id uint) error
}

// GalleryRepository defines the methods for gallery category and image data
// operations. Image mutations are row-local: a replace never changes the id,
// category, or display order of the row it touches.
type GalleryRepository interface {
	ListCategories() ([]models.GalleryCategory, error)
	GetCategoryByID(id uint) (*models.GalleryCategory, error)
	GetCategoryBySlug(slug string) (*models.GalleryCategory, error)
	CreateCategory(category *models.GalleryCategory) error
	UpdateCategory(id uint, title string, description, coverImage *string, displayOrder *int) error
	DeleteCategory(id uint) ([]models.GalleryImage, error)

	CreateImage(image *models.GalleryImage) error
	GetImageByID(id uint) (*models.GalleryImage, error)
	ReplaceImage(id uint, src, thumbSrc string, alt *string) error
	DeleteImage(id uint) error
}

// ContactRepository defines the methods for contact message data operations
type ContactRepository interface {
	Create(msg *models.ContactMessage) error
	ListAll() ([]models.ContactMessage, error)
	GetByID(id uint) (*models.ContactMessage, error)
	MarkRead(id uint) error
	Delete(id uint) error
}

// PortfolioSectionRepository defines the methods for portfolio section data
// operations
type PortfolioSectionRepository interface {
	ListAll() ([]models.PortfolioSection, error)
	GetByID(id uint) (*models.PortfolioSection, error)
	UpdateImage(id uint, imageSrc, thumbSrc string) error
}
