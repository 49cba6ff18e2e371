// Package keys implements the access-key lifecycle: create, list, inspect,
// update, and revoke, with a lifecycle event emitted after every successful
// mutation. All state lives in the store; the service itself is stateless.
package keys

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/keymint/keymint/internal/events"
	"github.com/keymint/keymint/internal/store"
	"github.com/keymint/keymint/pkg/models"
)

// Service orchestrates access-key persistence and event emission.
type Service struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates a new Service.
func NewService(st store.Store, pub events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, publisher: pub, logger: logger}
}

// CreateKey generates a fresh secret token, persists a new access key, and
// emits key_created. The rate limit and expiration are stored as given.
func (s *Service) CreateKey(ctx context.Context, rateLimit int, expiresAt time.Time) (*models.AccessKey, error) {
	now := time.Now().UTC()
	created, err := s.store.CreateAccessKey(ctx, &models.AccessKey{
		ID:        uuid.New(),
		Key:       uuid.NewString(),
		RateLimit: rateLimit,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, s.translate(err, "createKey")
	}

	s.publisher.Emit(events.KeyCreated, created)
	s.logger.Info("access key created", "id", created.ID)
	return created, nil
}

// GetKeys returns all access keys. The result is never nil.
func (s *Service) GetKeys(ctx context.Context) ([]*models.AccessKey, error) {
	list, err := s.store.ListAccessKeys(ctx)
	if err != nil {
		return nil, s.translate(err, "getKeys")
	}
	if list == nil {
		list = []*models.AccessKey{}
	}
	return list, nil
}

// GetKeyDetails looks up a single access key by id.
func (s *Service) GetKeyDetails(ctx context.Context, id uuid.UUID) (*models.AccessKey, error) {
	key, err := s.store.GetAccessKey(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.translate(err, "getKeyDetails")
	}
	return key, nil
}

// UpdateKey replaces the rate limit and expiration of an existing access key
// and emits key_updated. The secret token and id never change.
func (s *Service) UpdateKey(ctx context.Context, id uuid.UUID, rateLimit int, expiresAt time.Time) (*models.AccessKey, error) {
	// Existence precheck; a miss here is not a store failure.
	if _, err := s.store.GetAccessKey(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.translate(err, "updateKey")
	}

	updated, err := s.store.UpdateAccessKey(ctx, id, rateLimit, expiresAt)
	if err != nil {
		return nil, s.translate(err, "updateKey")
	}

	s.publisher.Emit(events.KeyUpdated, updated)
	s.logger.Info("access key updated", "id", updated.ID)
	return updated, nil
}

// DeleteKey removes an access key, returns its prior state, and emits
// key_deleted. There is no precheck: the delete itself reports a miss.
func (s *Service) DeleteKey(ctx context.Context, id uuid.UUID) (*models.AccessKey, error) {
	deleted, err := s.store.DeleteAccessKey(ctx, id)
	if err != nil {
		return nil, s.translate(err, "deleteKey")
	}

	s.publisher.Emit(events.KeyDeleted, deleted)
	s.logger.Info("access key deleted", "id", deleted.ID)
	return deleted, nil
}

// translate maps store failures onto the service error taxonomy. The
// underlying detail goes to the log, never to the caller.
func (s *Service) translate(err error, op string) error {
	switch {
	case errors.Is(err, store.ErrDuplicateKey):
		s.logger.Error("duplicate key violation", "op", op)
		return ErrDuplicateKey
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	default:
		s.logger.Error("store operation failed", "op", op, "error", err)
		return ErrInternal
	}
}
