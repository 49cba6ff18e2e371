package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/keymint/keymint/internal/api/response"
	"github.com/keymint/keymint/internal/keys"
	"github.com/keymint/keymint/pkg/models"
)

// KeyService defines the interface the access-key handlers depend on.
type KeyService interface {
	CreateKey(ctx context.Context, rateLimit int, expiresAt time.Time) (*models.AccessKey, error)
	GetKeys(ctx context.Context) ([]*models.AccessKey, error)
	GetKeyDetails(ctx context.Context, id uuid.UUID) (*models.AccessKey, error)
	UpdateKey(ctx context.Context, id uuid.UUID, rateLimit int, expiresAt time.Time) (*models.AccessKey, error)
	DeleteKey(ctx context.Context, id uuid.UUID) (*models.AccessKey, error)
}

// NewCreateKeyHandler returns an http.HandlerFunc for POST /access-key.
func NewCreateKeyHandler(svc KeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rateLimit, expiresAt, ok := decodeKeyBody(w, r)
		if !ok {
			return
		}

		key, err := svc.CreateKey(r.Context(), rateLimit, expiresAt)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.Created(w, key)
	}
}

// NewListKeysHandler returns an http.HandlerFunc for GET /access-key.
func NewListKeysHandler(svc KeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.GetKeys(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if list == nil {
			list = []*models.AccessKey{}
		}
		response.JSON(w, list)
	}
}

// NewGetKeyHandler returns an http.HandlerFunc for GET /access-key/{id}.
func NewGetKeyHandler(svc KeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseKeyID(w, r)
		if !ok {
			return
		}

		key, err := svc.GetKeyDetails(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, key)
	}
}

// NewUpdateKeyHandler returns an http.HandlerFunc for PUT /access-key/{id}.
func NewUpdateKeyHandler(svc KeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseKeyID(w, r)
		if !ok {
			return
		}
		rateLimit, expiresAt, ok := decodeKeyBody(w, r)
		if !ok {
			return
		}

		key, err := svc.UpdateKey(r.Context(), id, rateLimit, expiresAt)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, key)
	}
}

// NewDeleteKeyHandler returns an http.HandlerFunc for DELETE /access-key/{id}.
func NewDeleteKeyHandler(svc KeyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseKeyID(w, r)
		if !ok {
			return
		}

		key, err := svc.DeleteKey(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, key)
	}
}

// decodeKeyBody validates the shared create/update request body. On failure it
// writes a 400 response and returns ok=false.
func decodeKeyBody(w http.ResponseWriter, r *http.Request) (int, time.Time, bool) {
	var req struct {
		RateLimit *int   `json:"rateLimit"`
		ExpiresAt string `json:"expiresAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return 0, time.Time{}, false
	}

	if req.RateLimit == nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "rateLimit is required", nil)
		return 0, time.Time{}, false
	}
	if *req.RateLimit < 0 {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "rateLimit must be non-negative", nil)
		return 0, time.Time{}, false
	}

	if req.ExpiresAt == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "expiresAt is required", nil)
		return 0, time.Time{}, false
	}
	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "expiresAt must be a valid RFC3339 timestamp", nil)
		return 0, time.Time{}, false
	}

	return *req.RateLimit, expiresAt, true
}

// parseKeyID reads the {id} path parameter. An id that does not parse as a
// UUID cannot name any record, so it is answered as not found.
func parseKeyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Access key not found", nil)
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, keys.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Access key not found", nil)
	case errors.Is(err, keys.ErrDuplicateKey):
		response.Error(w, http.StatusBadRequest, "DUPLICATE_KEY", "Duplicate entry", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
