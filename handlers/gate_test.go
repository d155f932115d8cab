package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gemsmart/museumbackend/clock"
	"github.com/gemsmart/museumbackend/handlers"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

func newGateServer(t *testing.T) (*chi.Mux, *services.IdentityService) {
	t.Helper()
	visitors := repository.NewMemoryVisitorRepository()
	identity := services.NewIdentityService(visitors, clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	gateHandler := handlers.NewGateHandler(services.NewGateService(visitors))

	r := chi.NewRouter()
	r.Post("/api/gate/scan", gateHandler.Scan)
	return r, identity
}

func scan(t *testing.T, router http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"token": token})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/gate/scan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGateScanGrantsKnownToken(t *testing.T) {
	router, identity := newGateServer(t)
	name := "Amira"
	_, _, err := identity.RegisterOrLogin("amira@example.com", &name, nil, "hce-token-1")
	require.NoError(t, err)

	rec := scan(t, router, "hce-token-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.Granted)
	require.Equal(t, "Amira", result.DisplayName)
}

func TestGateScanDeniesUnknownToken(t *testing.T) {
	router, _ := newGateServer(t)

	rec := scan(t, router, "never-issued")
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.False(t, result.Granted)
	require.Nil(t, result.Visitor)
}

func TestGateScanRejectsEmptyToken(t *testing.T) {
	router, _ := newGateServer(t)

	rec := scan(t, router, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "validation_error", resp.Errors[0].Code)
}
