package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gemsmart/museumbackend/metrics"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

type VisitorHandler struct {
	Identity *services.IdentityService
	Badges   repository.BadgeRepository
	Photos   repository.PhotoSubmissionRepository
}

func NewVisitorHandler(identity *services.IdentityService, badges repository.BadgeRepository, photos repository.PhotoSubmissionRepository) *VisitorHandler {
	return &VisitorHandler{Identity: identity, Badges: badges, Photos: photos}
}

func visitorIDParam(r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "visitorID")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type createVisitorPayload struct {
	Email  string  `json:"email"`
	Name   *string `json:"name,omitempty"`
	Gender *string `json:"gender,omitempty"`
}

// CreateVisitor registers a visitor by email. Repeating the call with an
// already-registered email returns the existing record with 200 instead of
// creating a duplicate.
func (h *VisitorHandler) CreateVisitor(w http.ResponseWriter, r *http.Request) {
	var payload createVisitorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	visitor, created, err := h.Identity.CreateVisitor(payload.Email, payload.Name, payload.Gender)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		metrics.VisitorsRegistered.Inc()
	}
	writeJSON(w, status, visitor)
}

type registerPayload struct {
	Email        string  `json:"email"`
	Name         *string `json:"name,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	VirtualNFCID string  `json:"virtual_nfc_id"`
}

// RegisterOrLogin is the phone-app endpoint: one call registers a new
// visitor or recognizes an existing one and binds the phone's virtual token.
func (h *VisitorHandler) RegisterOrLogin(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	visitor, isNew, err := h.Identity.RegisterOrLogin(payload.Email, payload.Name, payload.Gender, payload.VirtualNFCID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
		metrics.VisitorsRegistered.Inc()
	}
	writeJSON(w, status, map[string]interface{}{
		"visitor": visitor,
		"created": isNew,
	})
}

type credentialPayload struct {
	Value string `json:"value"`
}

// RegisterVirtualCredential binds a phone HCE token to an existing visitor.
func (h *VisitorHandler) RegisterVirtualCredential(w http.ResponseWriter, r *http.Request) {
	h.claimCredential(w, r, h.Identity.RegisterVirtualCredential)
}

// LinkPhysicalCard binds a souvenir card UID to an existing visitor.
func (h *VisitorHandler) LinkPhysicalCard(w http.ResponseWriter, r *http.Request) {
	h.claimCredential(w, r, h.Identity.LinkPhysicalCard)
}

func (h *VisitorHandler) claimCredential(w http.ResponseWriter, r *http.Request, claim func(uint, string) (*models.Visitor, error)) {
	visitorID, ok := visitorIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid visitor ID in URL")
		return
	}

	var payload credentialPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	visitor, err := claim(visitorID, payload.Value)
	if err != nil {
		var conflictErr *models.ConflictError
		if errors.As(err, &conflictErr) {
			metrics.CredentialConflicts.Inc()
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visitor)
}

// GetVisitor returns a single visitor record.
func (h *VisitorHandler) GetVisitor(w http.ResponseWriter, r *http.Request) {
	visitorID, ok := visitorIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid visitor ID in URL")
		return
	}

	visitor, err := h.Identity.GetVisitor(visitorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visitor)
}

// ListVisitors returns every registered visitor.
func (h *VisitorHandler) ListVisitors(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.Identity.ListVisitors()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if visitors == nil {
		visitors = []models.Visitor{}
	}
	writeJSON(w, http.StatusOK, visitors)
}

// ListVisitorBadges returns the badges a visitor has earned.
func (h *VisitorHandler) ListVisitorBadges(w http.ResponseWriter, r *http.Request) {
	visitorID, ok := visitorIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid visitor ID in URL")
		return
	}

	if _, err := h.Identity.GetVisitor(visitorID); err != nil {
		writeServiceError(w, err)
		return
	}

	earned, err := h.Badges.ListByVisitor(visitorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if earned == nil {
		earned = []models.VisitorBadge{}
	}
	writeJSON(w, http.StatusOK, earned)
}

// ListVisitorSubmissions returns a visitor's contest submissions across all
// rooms.
func (h *VisitorHandler) ListVisitorSubmissions(w http.ResponseWriter, r *http.Request) {
	visitorID, ok := visitorIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid visitor ID in URL")
		return
	}

	if _, err := h.Identity.GetVisitor(visitorID); err != nil {
		writeServiceError(w, err)
		return
	}

	submissions, err := h.Photos.ListByVisitor(visitorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if submissions == nil {
		submissions = []models.PhotoSubmission{}
	}
	writeJSON(w, http.StatusOK, submissions)
}
