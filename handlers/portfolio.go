package handlers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/silvergrain/portfoliobackend/config"
	"github.com/silvergrain/portfoliobackend/media"
	"github.com/silvergrain/portfoliobackend/models"
	"github.com/silvergrain/portfoliobackend/repository"
)

type PortfolioHandler struct {
	SectionRepo repository.PortfolioSectionRepository
	Store       media.Store
	Cfg         config.Config
}

func NewPortfolioHandler(sectionRepo repository.PortfolioSectionRepository, store media.Store, cfg config.Config) *PortfolioHandler {
	return &PortfolioHandler{SectionRepo: sectionRepo, Store: store, Cfg: cfg}
}

type sectionListData struct {
	Sections []models.PortfolioSection `json:"sections"`
}

// GetSections handles GET /api/admin/portfolio/sections
func (h *PortfolioHandler) GetSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.SectionRepo.ListAll()
	if err != nil {
		log.Printf("Error listing portfolio sections: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch sections")
		return
	}
	if sections == nil {
		sections = []models.PortfolioSection{}
	}
	WriteSuccess(w, http.StatusOK, "Sections retrieved", sectionListData{Sections: sections})
}

// UpdateSectionImage handles PUT /api/admin/portfolio/sections/{id}/image.
// The new file is stored first; if the database update fails, the stored
// file is removed so nothing is orphaned.
func (h *PortfolioHandler) UpdateSectionImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid section ID")
		return
	}

	existing, err := h.SectionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Section not found")
		} else {
			log.Printf("Error fetching portfolio section %d: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to fetch section")
		}
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	if err := media.ValidateUpload(header, h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	srcRel, err := h.Store.Save(media.AssetTypePortfolio, "", filepath.Ext(header.Filename), file)
	if err != nil {
		log.Printf("Error storing portfolio image for section %d: %v", id, err)
		WriteError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	thumbRel, err := media.GenerateThumbnail(h.Store, srcRel, h.Cfg.ThumbnailMaxSize)
	if err != nil {
		h.Store.Delete(srcRel)
		log.Printf("Error generating portfolio thumbnail for section %d: %v", id, err)
		WriteError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	if err := h.SectionRepo.UpdateImage(id, media.PublicURL(srcRel), media.PublicURL(thumbRel)); err != nil {
		h.Store.Delete(srcRel)
		h.Store.Delete(thumbRel)
		log.Printf("Error updating portfolio section %d: %v", id, err)
		WriteError(w, http.StatusInternalServerError, "Failed to update section")
		return
	}

	// the section now points at the new files; drop the previous ones
	for _, url := range []string{existing.ImageSrc, existing.ThumbSrc} {
		if rel := media.RelativeFromURL(url); rel != "" {
			if err := h.Store.Delete(rel); err != nil {
				log.Printf("Error deleting old portfolio file %s: %v", rel, err)
			}
		}
	}

	WriteSuccess(w, http.StatusOK, "Image updated successfully", map[string]string{
		"url":       media.PublicURL(srcRel),
		"thumbnail": media.PublicURL(thumbRel),
	})
}
