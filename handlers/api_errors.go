package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gemsmart/museumbackend/models"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// writeServiceError maps the typed service errors onto HTTP responses:
// validation failures become 400, missing records 404, credential ownership
// clashes 409, and store corruption 500. Anything untyped is also a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var conflictErr *models.ConflictError
	var integrityErr *models.IntegrityError

	switch {
	case errors.As(err, &validationErr):
		WriteAPIError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.As(err, &notFoundErr):
		WriteAPIError(w, http.StatusNotFound, "not_found", notFoundErr.Error())
	case errors.As(err, &conflictErr):
		WriteAPIError(w, http.StatusConflict, "credential_conflict", conflictErr.Error())
	case errors.As(err, &integrityErr):
		log.Printf("handler: integrity error: %v", integrityErr)
		WriteAPIError(w, http.StatusInternalServerError, "integrity_error", integrityErr.Error())
	default:
		log.Printf("handler: internal error: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "an internal error occurred")
	}
}
