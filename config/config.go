package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultGallerySubDir    = "gallery"
	DefaultPortfolioSubDir  = "portfolio"
	DefaultThumbnailsSubDir = "thumbnails"
)

const (
	defaultJWTExpirationHours = 24
	defaultMaxUploadSize      = 10 * 1024 * 1024 // 10 MiB per file
	defaultMaxBatchFiles      = 10
	defaultThumbnailMaxSize   = 400
)

type Config struct {
	// server
	Port        string
	Environment string

	// database path (sqlite)
	DatabasePath string

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// media storage configuration
	MediaStoragePath string // primary root for stored uploads
	GalleryPath      string // full-calculated path for gallery originals
	PortfolioPath    string // full-calculated path for portfolio section images
	ThumbnailsPath   string // full-calculated path for generated thumbnails

	// upload limits
	MaxUploadSize    int64
	MaxBatchFiles    int
	ThumbnailMaxSize int

	// contact notification email
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	EmailTo      string

	// frontend origin allowed by CORS
	FrontendURL string

	// mounts POST /api/auth/register for initial setup when true
	EnableRegistration bool
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "portfolio.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	gallerySubDir := getEnvOrDefault("GALLERY_SUBDIR", DefaultGallerySubDir)
	absGalleryPath := filepath.Join(absMediaStorage, gallerySubDir)

	portfolioSubDir := getEnvOrDefault("PORTFOLIO_SUBDIR", DefaultPortfolioSubDir)
	absPortfolioPath := filepath.Join(absMediaStorage, portfolioSubDir)

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	absThumbnailsPath := filepath.Join(absMediaStorage, thumbSubDir)

	maxUpload := int64(getEnvIntOrDefault("MAX_UPLOAD_SIZE", defaultMaxUploadSize))
	maxBatch := getEnvIntOrDefault("MAX_BATCH_FILES", defaultMaxBatchFiles)
	thumbMaxSize := getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize)

	environment := getEnvOrDefault("ENVIRONMENT", "development")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if environment == "production" {
			return Config{}, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Printf("Warning: JWT_SECRET not set, using insecure development default")
		jwtSecret = "insecure-development-secret"
	}

	cfg := Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Environment:        environment,
		DatabasePath:       dbPath,
		JWTSecret:          jwtSecret,
		JWTExpirationHours: getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		MediaStoragePath:   absMediaStorage,
		GalleryPath:        absGalleryPath,
		PortfolioPath:      absPortfolioPath,
		ThumbnailsPath:     absThumbnailsPath,
		MaxUploadSize:      maxUpload,
		MaxBatchFiles:      maxBatch,
		ThumbnailMaxSize:   thumbMaxSize,
		SMTPHost:           getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:           getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword:       getEnvOrDefault("SMTP_PASSWORD", ""),
		EmailFrom:          getEnvOrDefault("EMAIL_FROM", "noreply@localhost"),
		EmailTo:            getEnvOrDefault("EMAIL_TO", ""),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		EnableRegistration: getEnvOrDefault("ENABLE_REGISTRATION", "false") == "true",
	}

	return cfg, nil
}
