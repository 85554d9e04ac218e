package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role the system currently issues. The column exists
// so tokens and clients can gate admin surfaces on user.role == "admin".
const RoleAdmin = "admin"

// User represents an administrator account.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	Role         string     `json:"role" gorm:"not null;default:admin"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (User) TableName() string {
	return "users"
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsAdmin reports whether the user may access the admin API surface.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicInfo is the user shape embedded in login responses. It never carries
// the password hash.
type PublicInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Public returns the client-facing view of the user.
func (u *User) Public() PublicInfo {
	return PublicInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
