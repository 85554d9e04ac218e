package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/silvergrain/portfoliobackend/config"
	"github.com/silvergrain/portfoliobackend/database"
	"github.com/silvergrain/portfoliobackend/email"
	"github.com/silvergrain/portfoliobackend/handlers"
	"github.com/silvergrain/portfoliobackend/media"
	"github.com/silvergrain/portfoliobackend/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.GalleryPath, cfg.PortfolioPath, cfg.ThumbnailsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to run migrations: %v", err)
	}
	if err := database.SeedPortfolioSections(db); err != nil {
		log.Fatalf("FATAL: Failed to seed portfolio sections: %v", err)
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeGallery:   filepath.Base(cfg.GalleryPath),
		media.AssetTypePortfolio: filepath.Base(cfg.PortfolioPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	userRepo := repository.NewGormUserRepository(db)
	galleryRepo := repository.NewGormGalleryRepository(db)
	contactRepo := repository.NewGormContactRepository(db)
	sectionRepo := repository.NewGormPortfolioSectionRepository(db)

	mailer := email.NewSMTPMailer(cfg)

	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	galleryHandler := handlers.NewGalleryHandler(galleryRepo, mediaStore, cfg)
	contactHandler := handlers.NewContactHandler(contactRepo, mailer)
	portfolioHandler := handlers.NewPortfolioHandler(sectionRepo, mediaStore, cfg)
	uploadHandler := handlers.NewUploadHandler(mediaStore, cfg)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing uploads in: %s", cfg.MediaStoragePath)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteSuccess(w, http.StatusOK, "ok", map[string]string{"service": "portfolio-backend"})
	})

	r.Route("/api", func(r chi.Router) {
		// public surface
		r.Post("/contact", contactHandler.Submit)
		r.Get("/galleries", galleryHandler.ListGalleries)
		r.Get("/galleries/{slug}", galleryHandler.GetGalleryBySlug)
		r.Post("/auth/login", authHandler.Login)
		if cfg.EnableRegistration {
			r.Post("/auth/register", authHandler.Register)
		}

		// admin surface, bearer token required
		r.Route("/admin", func(r chi.Router) {
			r.Use(handlers.AuthMiddleware(userRepo, cfg.JWTSecret))
			r.Use(handlers.RequireAdmin)

			r.Get("/me", authHandler.CurrentUser)

			r.Get("/contacts", contactHandler.ListContacts)
			r.Patch("/contacts/{id}/read", contactHandler.MarkRead)
			r.Delete("/contacts/{id}", contactHandler.DeleteContact)

			r.Get("/portfolio/sections", portfolioHandler.GetSections)
			r.Put("/portfolio/sections/{id}/image", portfolioHandler.UpdateSectionImage)

			r.Post("/galleries", galleryHandler.CreateGallery)
			r.Put("/galleries/{id}", galleryHandler.UpdateGallery)
			r.Delete("/galleries/{id}", galleryHandler.DeleteGallery)

			r.Post("/galleries/{id}/images", galleryHandler.UploadImage)
			r.Put("/images/{id}", galleryHandler.ReplaceImage)
			r.Delete("/images/{id}", galleryHandler.DeleteImage)

			r.Post("/upload", uploadHandler.Upload)
			r.Post("/upload/multiple", uploadHandler.UploadMultiple)
		})
	})

	r.Get("/uploads/*", handlers.AssetServer(cfg.MediaStoragePath, "/uploads/"))

	serverAddr := ":" + cfg.Port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
