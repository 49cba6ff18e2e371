package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keymint/keymint/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateAccessKey(ctx context.Context, key *models.AccessKey) (*models.AccessKey, error)
	ListAccessKeys(ctx context.Context) ([]*models.AccessKey, error)
	GetAccessKey(ctx context.Context, id uuid.UUID) (*models.AccessKey, error)
	UpdateAccessKey(ctx context.Context, id uuid.UUID, rateLimit int, expiresAt time.Time) (*models.AccessKey, error)
	DeleteAccessKey(ctx context.Context, id uuid.UUID) (*models.AccessKey, error)
}
