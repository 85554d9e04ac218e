package models

import "time"

// Aspect ratio classifications stored on gallery images. The frontend keys
// its grid layout off these three values.
const (
	AspectPortrait  = "portrait"
	AspectLandscape = "landscape"
	AspectSquare    = "square"
)

// ValidAspectRatio reports whether s is one of the accepted classifications.
func ValidAspectRatio(s string) bool {
	return s == AspectPortrait || s == AspectLandscape || s == AspectSquare
}

// GalleryCategory represents one gallery (e.g. "wedding", "editorial") and
// owns an ordered set of images.
type GalleryCategory struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Slug         string         `json:"slug" gorm:"uniqueIndex;not null"`
	Title        string         `json:"title" gorm:"not null" validate:"required,min=2,max=255"`
	Description  string         `json:"description"`
	CoverImage   string         `json:"cover_image"`
	DisplayOrder int            `json:"display_order" gorm:"not null;default:0"`
	Images       []GalleryImage `json:"images" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (GalleryCategory) TableName() string {
	return "gallery_categories"
}

// GalleryImage is a single image row inside a category. Src and ThumbSrc are
// public URL paths under /uploads.
type GalleryImage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CategoryID   uint      `json:"category_id" gorm:"index;not null"`
	Src          string    `json:"src" gorm:"not null"`
	ThumbSrc     string    `json:"thumb_src"`
	Alt          string    `json:"alt"`
	AspectRatio  string    `json:"aspect_ratio" gorm:"not null;default:portrait"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (GalleryImage) TableName() string {
	return "gallery_images"
}
