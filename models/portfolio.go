package models

import "time"

// PortfolioSection is a fixed home-page section whose featured image the
// admin can swap out.
type PortfolioSection struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Slug         string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description  string    `json:"description"`
	ImageSrc     string    `json:"image_src"`
	ThumbSrc     string    `json:"thumb_src"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (PortfolioSection) TableName() string {
	return "portfolio_sections"
}
