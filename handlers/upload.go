package handlers

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/silvergrain/portfoliobackend/config"
	"github.com/silvergrain/portfoliobackend/media"
)

// UploadHandler exposes the generic upload endpoints used by the admin
// console's batch uploader.
type UploadHandler struct {
	Store media.Store
	Cfg   config.Config
}

func NewUploadHandler(store media.Store, cfg config.Config) *UploadHandler {
	return &UploadHandler{Store: store, Cfg: cfg}
}

// Upload handles POST /api/admin/upload (single "file" field)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if err := media.ValidateUpload(header, h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rel, err := h.Store.Save(media.AssetTypeGallery, "", filepath.Ext(header.Filename), file)
	if err != nil {
		log.Printf("Error storing upload %q: %v", header.Filename, err)
		WriteError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	WriteSuccess(w, http.StatusOK, "File uploaded successfully", map[string]string{
		"url": media.PublicURL(rel),
	})
}

// UploadMultiple handles POST /api/admin/upload/multiple ("files" fields).
// The whole batch is validated before any file is written, so an oversized
// selection stores nothing.
func (h *UploadHandler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	if r.MultipartForm == nil {
		WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		WriteError(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	if err := media.ValidateBatch(files, h.Cfg.MaxUploadSize, h.Cfg.MaxBatchFiles); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var urls []string
	var stored []string
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			h.rollback(stored)
			WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}

		rel, err := h.Store.Save(media.AssetTypeGallery, "", filepath.Ext(header.Filename), file)
		file.Close()
		if err != nil {
			h.rollback(stored)
			log.Printf("Error storing upload %q: %v", header.Filename, err)
			WriteError(w, http.StatusInternalServerError, "Failed to store file")
			return
		}
		stored = append(stored, rel)
		urls = append(urls, media.PublicURL(rel))
	}

	WriteSuccess(w, http.StatusOK, "Files uploaded successfully", map[string][]string{
		"urls": urls,
	})
}

// rollback removes files already written by a batch that failed part-way,
// keeping the batch all-or-nothing.
func (h *UploadHandler) rollback(stored []string) {
	for _, rel := range stored {
		if err := h.Store.Delete(rel); err != nil {
			log.Printf("Error rolling back stored file %s: %v", rel, err)
		}
	}
}
