package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/silvergrain/portfoliobackend/config"
	"github.com/silvergrain/portfoliobackend/media"
	"github.com/silvergrain/portfoliobackend/models"
	"github.com/silvergrain/portfoliobackend/repository"
)

type GalleryHandler struct {
	Repo     repository.GalleryRepository
	Store    media.Store
	Cfg      config.Config
	validate *validator.Validate
}

func NewGalleryHandler(repo repository.GalleryRepository, store media.Store, cfg config.Config) *GalleryHandler {
	return &GalleryHandler{Repo: repo, Store: store, Cfg: cfg, validate: validator.New()}
}

// ListGalleries handles GET /api/galleries
func (h *GalleryHandler) ListGalleries(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.ListCategories()
	if err != nil {
		log.Printf("Error listing galleries: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to retrieve galleries")
		return
	}
	if categories == nil {
		categories = []models.GalleryCategory{}
	}
	WriteSuccess(w, http.StatusOK, "Galleries retrieved", categories)
}

// GetGalleryBySlug handles GET /api/galleries/{slug}
func (h *GalleryHandler) GetGalleryBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.Repo.GetCategoryBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Gallery not found")
		} else {
			log.Printf("Error fetching gallery '%s': %v", slug, err)
			WriteError(w, http.StatusInternalServerError, "Failed to retrieve gallery")
		}
		return
	}
	WriteSuccess(w, http.StatusOK, "Gallery retrieved", category)
}

type galleryPayload struct {
	Slug         string  `json:"slug" validate:"required,min=1,max=100"`
	Title        string  `json:"title" validate:"required,min=2,max=255"`
	Description  *string `json:"description"`
	CoverImage   *string `json:"cover_image"`
	DisplayOrder *int    `json:"display_order"`
}

func validSlug(slug string) bool {
	return strings.TrimSpace(slug) != "" && !strings.ContainsAny(slug, " /\\?%*:|\"<>")
}

// CreateGallery handles POST /api/admin/galleries
func (h *GalleryHandler) CreateGallery(w http.ResponseWriter, r *http.Request) {
	var payload galleryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		WriteValidationError(w, err)
		return
	}
	if !validSlug(payload.Slug) {
		WriteError(w, http.StatusBadRequest, "Invalid slug format. Use URL-safe characters without spaces.")
		return
	}

	category := &models.GalleryCategory{
		Slug:  payload.Slug,
		Title: payload.Title,
	}
	if payload.Description != nil {
		category.Description = *payload.Description
	}
	if payload.CoverImage != nil {
		category.CoverImage = *payload.CoverImage
	}
	if payload.DisplayOrder != nil {
		category.DisplayOrder = *payload.DisplayOrder
	}

	if err := h.Repo.CreateCategory(category); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			WriteError(w, http.StatusConflict, "Gallery slug already exists")
		} else {
			log.Printf("Error creating gallery '%s': %v", payload.Slug, err)
			WriteError(w, http.StatusInternalServerError, "Failed to create gallery")
		}
		return
	}

	WriteSuccess(w, http.StatusCreated, "Gallery created successfully", category)
}

// UpdateGallery handles PUT /api/admin/galleries/{id}
func (h *GalleryHandler) UpdateGallery(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid gallery ID")
		return
	}

	var payload struct {
		Title        string  `json:"title" validate:"required,min=2,max=255"`
		Description  *string `json:"description"`
		CoverImage   *string `json:"cover_image"`
		DisplayOrder *int    `json:"display_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		WriteValidationError(w, err)
		return
	}

	err = h.Repo.UpdateCategory(id, payload.Title, payload.Description, payload.CoverImage, payload.DisplayOrder)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Gallery not found")
		} else {
			log.Printf("Error updating gallery %d: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to update gallery")
		}
		return
	}

	category, err := h.Repo.GetCategoryByID(id)
	if err != nil {
		WriteSuccess(w, http.StatusOK, "Gallery updated successfully", nil)
		return
	}
	WriteSuccess(w, http.StatusOK, "Gallery updated successfully", category)
}

// DeleteGallery handles DELETE /api/admin/galleries/{id}. Removing a
// category cascades to its images; their stored files are cleaned up after
// the database transaction commits.
func (h *GalleryHandler) DeleteGallery(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid gallery ID")
		return
	}

	images, err := h.Repo.DeleteCategory(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Gallery not found")
		} else {
			log.Printf("Error deleting gallery %d: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to delete gallery")
		}
		return
	}

	for _, img := range images {
		h.removeStoredImage(img)
	}

	WriteSuccess(w, http.StatusOK, "Gallery deleted successfully", nil)
}

// imageData is the payload under "data" for image mutations; it matches the
// shape the admin grid reconciles its local sequence against.
type imageData struct {
	ID          uint   `json:"id"`
	Src         string `json:"src"`
	ThumbSrc    string `json:"thumb_src,omitempty"`
	Alt         string `json:"alt"`
	AspectRatio string `json:"aspect_ratio"`
}

func toImageData(img *models.GalleryImage) imageData {
	return imageData{
		ID:          img.ID,
		Src:         img.Src,
		ThumbSrc:    img.ThumbSrc,
		Alt:         img.Alt,
		AspectRatio: img.AspectRatio,
	}
}

// UploadImage handles POST /api/admin/galleries/{id}/images. The new image
// is appended to the end of the category's sequence; on any failure no row
// is created and no stored file is left behind.
func (h *GalleryHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseUintParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid gallery ID")
		return
	}

	file, header, alt, aspect, ok := h.readImageForm(w, r)
	if !ok {
		return
	}
	defer file.Close()

	srcRel, thumbRel, err := h.storeImage(file, header)
	if err != nil {
		log.Printf("Error storing image for gallery %d: %v", categoryID, err)
		WriteError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	image := &models.GalleryImage{
		CategoryID:  categoryID,
		Src:         media.PublicURL(srcRel),
		ThumbSrc:    media.PublicURL(thumbRel),
		Alt:         alt,
		AspectRatio: aspect,
	}

	if err := h.Repo.CreateImage(image); err != nil {
		// roll the stored files back so a failed add leaves nothing behind
		h.Store.Delete(srcRel)
		h.Store.Delete(thumbRel)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Gallery not found")
		} else {
			log.Printf("Error creating image in gallery %d: %v", categoryID, err)
			WriteError(w, http.StatusInternalServerError, "Failed to create image")
		}
		return
	}

	WriteSuccess(w, http.StatusCreated, "Image created successfully", toImageData(image))
}

// ReplaceImage handles PUT /api/admin/images/{id}. The row keeps its id and
// position; only src/thumb/alt change, and only after the new file is safely
// stored. The old files are removed last, so a failed replace leaves the
// previous image fully intact.
func (h *GalleryHandler) ReplaceImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid image ID")
		return
	}

	existing, err := h.Repo.GetImageByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Image not found")
		} else {
			log.Printf("Error fetching image %d: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to fetch image")
		}
		return
	}

	file, header, alt, _, ok := h.readImageForm(w, r)
	if !ok {
		return
	}
	defer file.Close()

	srcRel, thumbRel, err := h.storeImage(file, header)
	if err != nil {
		log.Printf("Error storing replacement for image %d: %v", id, err)
		WriteError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	var altPtr *string
	if alt != "" {
		altPtr = &alt
	}

	if err := h.Repo.ReplaceImage(id, media.PublicURL(srcRel), media.PublicURL(thumbRel), altPtr); err != nil {
		h.Store.Delete(srcRel)
		h.Store.Delete(thumbRel)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Image not found")
		} else {
			log.Printf("Error replacing image %d: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to replace image")
		}
		return
	}

	// the database now points at the new files; drop the old ones
	h.removeStoredImage(*existing)

	updated, err := h.Repo.GetImageByID(id)
	if err != nil {
		WriteSuccess(w, http.StatusOK, "Image replaced successfully", nil)
		return
	}
	WriteSuccess(w, http.StatusOK, "Image replaced successfully", toImageData(updated))
}

// DeleteImage handles DELETE /api/admin/images/{id}. A second delete of the
// same id returns 404.
func (h *GalleryHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid image ID")
		return
	}

	image, err := h.Repo.GetImageByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Image not found")
		} else {
			log.Printf("Error fetching image %d: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to fetch image")
		}
		return
	}

	if err := h.Repo.DeleteImage(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Image not found")
		} else {
			log.Printf("Error deleting image %d: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to delete image")
		}
		return
	}

	h.removeStoredImage(*image)

	WriteSuccess(w, http.StatusOK, "Image deleted successfully", nil)
}

// readImageForm pulls the multipart "image" field plus the optional alt and
// aspect_ratio fields, validating size, type, and aspect value. On failure
// it writes the error response and returns ok=false.
func (h *GalleryHandler) readImageForm(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, string, string, bool) {
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, nil, "", "", false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No image provided")
		return nil, nil, "", "", false
	}

	if err := media.ValidateUpload(header, h.Cfg.MaxUploadSize); err != nil {
		file.Close()
		WriteError(w, http.StatusBadRequest, err.Error())
		return nil, nil, "", "", false
	}

	alt := r.FormValue("alt")
	if alt == "" {
		alt = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	aspect := r.FormValue("aspect_ratio")
	if aspect != "" && !models.ValidAspectRatio(aspect) {
		file.Close()
		WriteError(w, http.StatusBadRequest, "aspect_ratio must be portrait, landscape, or square")
		return nil, nil, "", "", false
	}
	if aspect == "" {
		aspect = detectAspect(file)
	}

	return file, header, alt, aspect, true
}

// storeImage saves the original and renders its thumbnail, returning both
// store-relative paths. A thumbnail failure removes the original too.
func (h *GalleryHandler) storeImage(file multipart.File, header *multipart.FileHeader) (string, string, error) {
	srcRel, err := h.Store.Save(media.AssetTypeGallery, "", filepath.Ext(header.Filename), file)
	if err != nil {
		return "", "", err
	}

	thumbRel, err := media.GenerateThumbnail(h.Store, srcRel, h.Cfg.ThumbnailMaxSize)
	if err != nil {
		h.Store.Delete(srcRel)
		return "", "", err
	}

	return srcRel, thumbRel, nil
}

// removeStoredImage deletes the files backing an image row, ignoring URLs
// the store does not own (static seed content on a CDN).
func (h *GalleryHandler) removeStoredImage(img models.GalleryImage) {
	for _, url := range []string{img.Src, img.ThumbSrc} {
		rel := media.RelativeFromURL(url)
		if rel == "" {
			continue
		}
		if err := h.Store.Delete(rel); err != nil {
			log.Printf("Error deleting stored file %s for image %d: %v", rel, img.ID, err)
		}
	}
}

// detectAspect classifies the upload's aspect ratio, rewinding the reader
// afterwards. Falls back to portrait when the header cannot be decoded.
func detectAspect(file multipart.File) string {
	aspect, err := media.DetectAspectRatio(file)
	if _, seekErr := file.Seek(0, 0); seekErr != nil {
		log.Printf("Error rewinding upload after aspect detection: %v", seekErr)
	}
	if err != nil {
		return models.AspectPortrait
	}
	return aspect
}

func parseUintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
