package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// APIResponse is the envelope every JSON endpoint returns. Clients rely on
// the nested data shape: payloads always live under "data".
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// WriteSuccess writes the standard success envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, APIResponse{Success: true, Message: message, Data: data})
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Message: message})
}

// WriteValidationError flattens a validator.ValidationErrors (or any other
// error) into a single 400 envelope with per-field messages.
func WriteValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
		}
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  msgs,
		})
		return
	}
	WriteError(w, http.StatusBadRequest, err.Error())
}
