package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/silvergrain/portfoliobackend/config"
	"github.com/silvergrain/portfoliobackend/email"
	"github.com/silvergrain/portfoliobackend/media"
	"github.com/silvergrain/portfoliobackend/models"
	"github.com/silvergrain/portfoliobackend/repository"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin-password"
)

// envelope mirrors APIResponse with a raw data payload for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type testEnv struct {
	router      http.Handler
	cfg         config.Config
	db          *gorm.DB
	store       media.Store
	userRepo    repository.UserRepository
	galleryRepo repository.GalleryRepository
	contactRepo repository.ContactRepository
	sectionRepo repository.PortfolioSectionRepository
	mailer      email.Mailer
}

// newTestEnv wires the full router the way main does, against a throwaway
// database and storage root, and seeds one admin account.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storageRoot := t.TempDir()
	cfg := config.Config{
		Port:               "0",
		Environment:        "test",
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		MediaStoragePath:   storageRoot,
		GalleryPath:        filepath.Join(storageRoot, "gallery"),
		PortfolioPath:      filepath.Join(storageRoot, "portfolio"),
		ThumbnailsPath:     filepath.Join(storageRoot, "thumbnails"),
		MaxUploadSize:      1 << 20,
		MaxBatchFiles:      3,
		ThumbnailMaxSize:   100,
		EnableRegistration: true,
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.GalleryCategory{},
		&models.GalleryImage{},
		&models.ContactMessage{},
		&models.PortfolioSection{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	store, err := media.NewLocalStorage(storageRoot, map[media.AssetType]string{
		media.AssetTypeGallery:   "gallery",
		media.AssetTypePortfolio: "portfolio",
		media.AssetTypeThumbnail: "thumbnails",
	})
	if err != nil {
		t.Fatalf("init media store: %v", err)
	}

	env := &testEnv{
		cfg:         cfg,
		db:          db,
		store:       store,
		userRepo:    repository.NewGormUserRepository(db),
		galleryRepo: repository.NewGormGalleryRepository(db),
		contactRepo: repository.NewGormContactRepository(db),
		sectionRepo: repository.NewGormPortfolioSectionRepository(db),
	}
	env.router = env.buildRouter()

	admin := &models.User{Username: "admin", Email: testAdminEmail, Role: models.RoleAdmin}
	if err := admin.SetPassword(testAdminPassword); err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	if err := env.userRepo.Create(admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	return env
}

func (env *testEnv) buildRouter() http.Handler {
	authHandler := NewAuthHandler(env.userRepo, env.cfg)
	galleryHandler := NewGalleryHandler(env.galleryRepo, env.store, env.cfg)
	contactHandler := NewContactHandler(env.contactRepo, env.mailer)
	portfolioHandler := NewPortfolioHandler(env.sectionRepo, env.store, env.cfg)
	uploadHandler := NewUploadHandler(env.store, env.cfg)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", contactHandler.Submit)
		r.Get("/galleries", galleryHandler.ListGalleries)
		r.Get("/galleries/{slug}", galleryHandler.GetGalleryBySlug)
		r.Post("/auth/login", authHandler.Login)
		if env.cfg.EnableRegistration {
			r.Post("/auth/register", authHandler.Register)
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(AuthMiddleware(env.userRepo, env.cfg.JWTSecret))
			r.Use(RequireAdmin)

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
	return r
}

// doJSON performs a request with an optional JSON body and bearer token.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doMultipart(t *testing.T, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, e envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(e.Data, out); err != nil {
		t.Fatalf("decode data %q: %v", string(e.Data), err)
	}
}

// adminToken logs in through the real endpoint and returns the issued token.
func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	rec := env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, decodeEnvelope(t, rec), &data)
	if data.Token == "" {
		t.Fatalf("login returned empty token")
	}
	return data.Token
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// imageForm builds a multipart body with one file part and optional extra
// string fields. The part carries an explicit Content-Type so upload
// validation sees the declared type.
func imageForm(t *testing.T, fieldName, filename, contentType string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file part: %v", err)
	}

	for k, v := range extra {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %q: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// countFiles reports how many regular files exist under dir; a missing dir
// counts as zero.
func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n
}
