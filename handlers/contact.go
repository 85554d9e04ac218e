package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/silvergrain/portfoliobackend/email"
	"github.com/silvergrain/portfoliobackend/models"
	"github.com/silvergrain/portfoliobackend/repository"
)

type ContactHandler struct {
	Repo     repository.ContactRepository
	Mailer   email.Mailer
	validate *validator.Validate
}

func NewContactHandler(repo repository.ContactRepository, mailer email.Mailer) *ContactHandler {
	return &ContactHandler{Repo: repo, Mailer: mailer, validate: validator.New()}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.ContactStatusPending,
	}
	if err := h.Repo.Create(msg); err != nil {
		log.Printf("Error saving contact message: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to submit message")
		return
	}

	// emails are best-effort and must not delay the response
	if h.Mailer != nil {
		go func(m models.ContactMessage) {
			if err := h.Mailer.SendAcknowledgment(&m); err != nil {
				log.Printf("Error sending acknowledgment email: %v", err)
			}
			if err := h.Mailer.SendContactNotification(&m); err != nil {
				log.Printf("Error sending contact notification email: %v", err)
			}
		}(*msg)
	}

	WriteSuccess(w, http.StatusCreated, "Message sent successfully", msg)
}

// contactListData nests the messages under "contacts" as the admin console
// expects.
type contactListData struct {
	Contacts []models.ContactMessage `json:"contacts"`
}

// ListContacts handles GET /api/admin/contacts
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing contact messages: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	WriteSuccess(w, http.StatusOK, "Messages retrieved", contactListData{Contacts: messages})
}

// MarkRead handles PATCH /api/admin/contacts/{id}/read. The transition is
// pending to read only and is idempotent.
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := h.Repo.MarkRead(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Message not found")
		} else {
			log.Printf("Error marking contact %d read: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to update message")
		}
		return
	}

	WriteSuccess(w, http.StatusOK, "Message marked as read", nil)
}

// DeleteContact handles DELETE /api/admin/contacts/{id}
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := h.Repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Message not found")
		} else {
			log.Printf("Error deleting contact %d: %v", id, err)
			WriteError(w, http.StatusInternalServerError, "Failed to delete message")
		}
		return
	}

	WriteSuccess(w, http.StatusOK, "Message deleted successfully", nil)
}
