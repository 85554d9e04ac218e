package models

import "time"

// Contact message statuses. A message starts pending and may move to read
// exactly once; the transition never reverses.
const (
	ContactStatusPending = "pending"
	ContactStatusRead    = "read"
)

// ContactRequest is the payload of a public contact-form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,min=7,max=20"`
	Subject string `json:"subject" validate:"required,min=3,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject" gorm:"not null"`
	Message   string    `json:"message" gorm:"not null"`
	Status    string    `json:"status" gorm:"not null;default:pending;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (ContactMessage) TableName() string {
	return "contact_messages"
}
