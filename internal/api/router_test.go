package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keymint/keymint/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(marker string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"handler":"` + marker + `"}`))
	}
}

func newTestRouter() http.Handler {
	return api.NewRouter(api.Dependencies{
		HealthHandler:    okHandler("health"),
		CreateKeyHandler: okHandler("create"),
		ListKeysHandler:  okHandler("list"),
		GetKeyHandler:    okHandler("get"),
		UpdateKeyHandler: okHandler("update"),
		DeleteKeyHandler: okHandler("delete"),
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	endpoints := []struct {
		method  string
		path    string
		handler string
	}{
		{"GET", "/health", "health"},
		{"POST", "/access-key", "create"},
		{"GET", "/access-key", "list"},
		{"GET", "/access-key/6f1c3f39-3adf-4a24-b938-3b541966e856", "get"},
		{"PUT", "/access-key/6f1c3f39-3adf-4a24-b938-3b541966e856", "update"},
		{"DELETE", "/access-key/6f1c3f39-3adf-4a24-b938-3b541966e856", "delete"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, ep.handler, body["handler"])
		})
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MissingHandlerIs501(t *testing.T) {
	router := api.NewRouter(api.Dependencies{})

	req := httptest.NewRequest("GET", "/access-key", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
