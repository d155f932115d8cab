package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/handlers"
	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

func newVisitorServer(t *testing.T) *chi.Mux {
	t.Helper()
	visitors := repository.NewMemoryVisitorRepository()
	badges := repository.NewMemoryBadgeRepository()
	photos := repository.NewMemoryPhotoRepository()
	identity := services.NewIdentityService(visitors, clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	handler := handlers.NewVisitorHandler(identity, badges, photos)

	r := chi.NewRouter()
	r.Post("/api/visitors", handler.CreateVisitor)
	r.Post("/api/visitors/register", handler.RegisterOrLogin)
	r.Post("/api/visitors/{visitorID}/credentials/virtual", handler.RegisterVirtualCredential)
	r.Post("/api/visitors/{visitorID}/credentials/physical", handler.LinkPhysicalCard)
	r.Get("/api/visitors/{visitorID}", handler.GetVisitor)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateVisitorReturns201ThenIdempotent200(t *testing.T) {
	router := newVisitorServer(t)

	rec := postJSON(t, router, "/api/visitors", map[string]string{"email": "amira@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/visitors", map[string]string{"email": "amira@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateVisitorRejectsInvalidEmail(t *testing.T) {
	router := newVisitorServer(t)

	rec := postJSON(t, router, "/api/visitors", map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCredentialConflictReturns409NamingOwner(t *testing.T) {
	router := newVisitorServer(t)

	rec := postJSON(t, router, "/api/visitors/register", map[string]string{
		"email":          "owner@example.com",
		"virtual_nfc_id": "hce-token-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered struct {
		Visitor models.Visitor `json:"visitor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	rec = postJSON(t, router, "/api/visitors", map[string]string{"email": "other@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var other models.Visitor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &other))

	rec = postJSON(t, router, fmt.Sprintf("/api/visitors/%d/credentials/virtual", other.ID), map[string]string{"value": "hce-token-1"})
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp handlers.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "credential_conflict", resp.Errors[0].Code)
	require.Contains(t, resp.Errors[0].Detail, fmt.Sprintf("visitor %d", registered.Visitor.ID))
}

func TestLinkPhysicalCardUnknownVisitorReturns404(t *testing.T) {
	router := newVisitorServer(t)

	rec := postJSON(t, router, "/api/visitors/999/credentials/physical", map[string]string{"value": "card-uid"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
