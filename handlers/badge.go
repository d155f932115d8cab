package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/media"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
)

type BadgeHandler struct {
	Badges    repository.BadgeRepository
	Visitors  repository.VisitorRepository
	Processor *media.Processor
	Clock     clock.Clock
}

func NewBadgeHandler(badges repository.BadgeRepository, visitors repository.VisitorRepository, processor *media.Processor, clk clock.Clock) *BadgeHandler {
	return &BadgeHandler{Badges: badges, Visitors: visitors, Processor: processor, Clock: clk}
}

// ListBadges returns the badge catalog.
func (h *BadgeHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.Badges.ListAll()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	writeJSON(w, http.StatusOK, badges)
}

// CreateBadge adds a badge definition. The icon is an optional multipart
// file field; when present it is resized and stored before the record is
// created.
func (h *BadgeHandler) CreateBadge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Failed to parse multipart form: "+err.Error())
		return
	}

	name := r.FormValue("name")
	if name == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "name form field must not be empty")
		return
	}

	badge := &models.Badge{Name: name}

	if file, _, err := r.FormFile("icon"); err == nil {
		defer file.Close()
		iconPath, procErr := h.Processor.ProcessBadgeIcon(file)
		if procErr != nil {
			log.Printf("badge: failed to process icon for %q: %v", name, procErr)
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Failed to process badge icon: "+procErr.Error())
			return
		}
		badge.IconURL = &iconPath
	}

	if err := h.Badges.Create(badge); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, badge)
}

type awardPayload struct {
	VisitorID uint `json:"visitor_id"`
}

// Award manually grants a badge to a visitor. Awarding an already-earned
// badge is a no-op and still returns 200.
func (h *BadgeHandler) Award(w http.ResponseWriter, r *http.Request) {
	badgeIDStr := chi.URLParam(r, "badgeID")
	badgeID64, err := strconv.ParseUint(badgeIDStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid badge ID in URL")
		return
	}

	var payload awardPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	badge, err := h.Badges.GetByID(uint(badgeID64))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := h.Visitors.GetByID(payload.VisitorID); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.Badges.Award(payload.VisitorID, badge.ID, h.Clock.Now()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"badge_id":   badge.ID,
		"visitor_id": payload.VisitorID,
	})
}
