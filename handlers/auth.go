package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/silvergrain/portfoliobackend/config"
	"github.com/silvergrain/portfoliobackend/models"
	"github.com/silvergrain/portfoliobackend/repository"
)

type AuthHandler struct {
	UserRepo repository.UserRepository
	Cfg      config.Config
	validate *validator.Validate
}

func NewAuthHandler(userRepo repository.UserRepository, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Cfg: cfg, validate: validator.New()}
}

// LoginPayload carries the login credentials. Email is the canonical
// credential field; username is display-only.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginData is the payload under "data" in a successful login envelope.
type LoginData struct {
	Token     string            `json:"token"`
	User      models.PublicInfo `json:"user"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		WriteValidationError(w, err)
		return
	}

	user, err := h.UserRepo.GetByEmail(payload.Email)
	if err != nil {
		// same generic message for unknown email and bad password
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !user.CheckPassword(payload.Password) {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, expiresAt, err := h.generateToken(user)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := h.UserRepo.UpdateLastLogin(user.ID); err != nil {
		// login still succeeds; the timestamp is advisory
		log.Printf("Failed to update last login for user %d: %v", user.ID, err)
	}

	WriteSuccess(w, http.StatusOK, "Login successful", LoginData{
		Token:     tokenString,
		User:      user.Public(),
		ExpiresAt: expiresAt,
	})
}

func (h *AuthHandler) generateToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(h.Cfg.JWTExpirationHours) * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "portfoliobackend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// RegisterPayload carries the fields needed to bootstrap an admin account.
type RegisterPayload struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register handles POST /api/auth/register. Intended for initial setup; the
// route is only mounted when registration is enabled.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		WriteValidationError(w, err)
		return
	}

	exists, err := h.UserRepo.EmailExists(payload.Email)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		WriteError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	user := &models.User{
		Username: payload.Username,
		Email:    payload.Email,
		Role:     models.RoleAdmin,
	}
	if err := user.SetPassword(payload.Password); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if err := h.UserRepo.Create(user); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	WriteSuccess(w, http.StatusCreated, "User created successfully", user.Public())
}

// CurrentUser handles GET /api/admin/me. It must be mounted behind
// AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		WriteError(w, http.StatusInternalServerError, "Could not retrieve user from context")
		return
	}
	WriteSuccess(w, http.StatusOK, "User retrieved", user.Public())
}
