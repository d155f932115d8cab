package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/permissions"
	"github.com/gemsmart/museumbackend/repository"
)

const jwtExpirationHours = 24

type AuthHandler struct {
	StaffRepo repository.StaffRepository
	JWTSecret []byte
}

func NewAuthHandler(staffRepo repository.StaffRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{StaffRepo: staffRepo, JWTSecret: []byte(jwtSecret)}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	Staff     models.Staff `json:"staff"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	staff, err := h.StaffRepo.GetByUsername(payload.Username)
	if err != nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid username or password")
		return
	}

	if !staff.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid username or password")
		return
	}

	expirationTime := time.Now().Add(jwtExpirationHours * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(staff.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "museumbackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.JWTSecret)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	response := LoginResponse{
		Token:     tokenString,
		Staff:     *staff,
		ExpiresAt: expirationTime,
	}
	writeJSON(w, http.StatusOK, response)
}

type CreateStaffPayload struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

// CreateStaff creates a staff account. Only callers holding the staff
// management permission reach this handler.
func (h *AuthHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var payload CreateStaffPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if payload.Username == "" || payload.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "Username and password are required")
		return
	}
	for _, key := range payload.Permissions {
		if !permissions.IsValidPermissionKey(key) {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "Unknown permission key: "+key)
			return
		}
	}

	newStaff := &models.Staff{
		Username:    payload.Username,
		Permissions: payload.Permissions,
	}
	if newStaff.Permissions == nil {
		newStaff.Permissions = []string{}
	}
	if err := newStaff.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to hash password")
		return
	}

	if err := h.StaffRepo.Create(newStaff); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newStaff)
}

// CurrentStaff retrieves the authenticated staff member from the request
// context. Must run behind AuthMiddleware.
func (h *AuthHandler) CurrentStaff(w http.ResponseWriter, r *http.Request) {
	staff, ok := r.Context().Value(StaffContextKey).(*models.Staff)
	if !ok || staff == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve staff from context")
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

// ListPermissions returns all defined staff permission groups so admin UIs
// can render assignment forms.
func (h *AuthHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedPermissionGroups)
}
