package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/media"
	"github.com/gemsmart/museumbackend/metrics"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/realtime"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/utils"
	"github.com/gemsmart/museumbackend/workers"
)

const maxUploadBytes = 32 << 20 // 32 MiB multipart memory limit

type PhotoHandler struct {
	Photos    repository.PhotoSubmissionRepository
	Visitors  repository.VisitorRepository
	Rooms     repository.RoomRepository
	Store     media.Store
	Processor *workers.PhotoProcessor
	Hub       *realtime.Hub
	Clock     clock.Clock
}

func NewPhotoHandler(photos repository.PhotoSubmissionRepository, visitors repository.VisitorRepository, rooms repository.RoomRepository, store media.Store, processor *workers.PhotoProcessor, hub *realtime.Hub, clk clock.Clock) *PhotoHandler {
	return &PhotoHandler{
		Photos:    photos,
		Visitors:  visitors,
		Rooms:     rooms,
		Store:     store,
		Processor: processor,
		Hub:       hub,
		Clock:     clk,
	}
}

// Upload accepts a multipart contest entry for a room. The original file is
// stored immediately and the thumbnail/metadata/score tasks are queued for
// the background workers.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	roomIDStr := chi.URLParam(r, "roomID")
	roomID64, err := strconv.ParseUint(roomIDStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid room ID in URL")
		return
	}
	roomID := uint(roomID64)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Failed to parse multipart form: "+err.Error())
		return
	}

	visitorIDStr := r.FormValue("visitor_id")
	visitorID64, err := strconv.ParseUint(visitorIDStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "visitor_id form field must be a positive integer")
		return
	}
	visitorID := uint(visitorID64)

	if _, err := h.Visitors.GetByID(visitorID); err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := h.Rooms.GetByID(roomID); err != nil {
		writeServiceError(w, err)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "photo file field is required")
		return
	}
	defer file.Close()

	if !media.IsSupportedImage(header.Filename) {
		WriteAPIError(w, http.StatusBadRequest, "unsupported_media", "Unsupported image type; use jpg, jpeg, png or gif")
		return
	}

	filename, err := utils.UniqueFilename(header.Filename)
	if err != nil {
		log.Printf("photo: failed to generate filename for upload: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to store uploaded photo")
		return
	}
	relPath, err := h.Store.Save(media.AssetTypeSubmission, filename, file)
	if err != nil {
		log.Printf("photo: failed to store upload for visitor %d in room %d: %v", visitorID, roomID, err)
		WriteAPIError(w, http.StatusInternalServerError, "storage_error", "Failed to store uploaded photo")
		return
	}

	submission := &models.PhotoSubmission{
		VisitorID: visitorID,
		RoomID:    roomID,
		ImagePath: relPath,
		CreatedAt: h.Clock.Now(),
	}
	if err := h.Photos.Create(submission); err != nil {
		// orphaned blob cleanup; the DB row is the source of truth
		if delErr := h.Store.Delete(relPath); delErr != nil {
			log.Printf("photo: failed to clean up stored file %s after DB error: %v", relPath, delErr)
		}
		writeServiceError(w, err)
		return
	}
	metrics.SubmissionsReceived.Inc()

	fullPath, err := h.Store.GetFullPath(relPath)
	if err != nil {
		log.Printf("photo: failed to resolve full path for %s: %v", relPath, err)
	} else {
		h.Processor.QueueAllTasks(submission, fullPath)
	}

	if h.Hub != nil {
		h.Hub.Broadcast(realtime.Event{
			Type:         realtime.EventSubmissionReceived,
			RoomID:       roomID,
			SubmissionID: submission.ID,
			VisitorID:    visitorID,
			Timestamp:    time.Now().Unix(),
		})
	}

	writeJSON(w, http.StatusCreated, submission)
}

// GetSubmission returns one submission with its processing status columns.
func (h *PhotoHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "submissionID")
	id64, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid submission ID in URL")
		return
	}

	submission, err := h.Photos.GetByID(uint(id64))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submission)
}
