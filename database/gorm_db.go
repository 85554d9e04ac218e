package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/silvergrain/portfoliobackend/models"
)

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(dataSourceName string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("GORM Database initialized successfully at", dataSourceName)
	return db, nil
}

// AutoMigrateModels can be called after InitGormDB to migrate schemas
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.GalleryCategory{},
		&models.GalleryImage{},
		&models.ContactMessage{},
		&models.PortfolioSection{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	log.Println("GORM AutoMigrate completed successfully.")
	return nil
}

// defaultPortfolioSections are the fixed home-page sections the admin console
// edits. They are created once; existing rows are never overwritten.
var defaultPortfolioSections = []models.PortfolioSection{
	{Name: "Hero", Slug: "hero", Description: "Full-bleed landing image", DisplayOrder: 0},
	{Name: "Editorial", Slug: "editorial", Description: "Editorial feature", DisplayOrder: 1},
	{Name: "Campaign", Slug: "campaign", Description: "Campaign feature", DisplayOrder: 2},
	{Name: "About", Slug: "about", Description: "About page portrait", DisplayOrder: 3},
}

// SeedPortfolioSections inserts the default sections when missing.
func SeedPortfolioSections(db *gorm.DB) error {
	for _, section := range defaultPortfolioSections {
		var existing models.PortfolioSection
		err := db.Where("slug = ?", section.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up portfolio section %q: %w", section.Slug, err)
		}
		if err := db.Create(&section).Error; err != nil {
			return fmt.Errorf("failed to seed portfolio section %q: %w", section.Slug, err)
		}
		log.Printf("Seeded portfolio section %q", section.Slug)
	}
	return nil
}

// SeedAdminUser creates an admin user if no user with the given email exists.
// Used by the create_admin script for initial setup.
func SeedAdminUser(db *gorm.DB, username, email, password string) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("user with email %q already exists", email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	user := &models.User{Username: username, Email: email, Role: models.RoleAdmin}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Printf("Admin user %q created with ID %d", email, user.ID)
	return user, nil
}
