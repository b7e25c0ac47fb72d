package training

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/epochml/epoch-ml/internal/models"
)

var ErrNotFound = errors.New("training session not found")

// Filter narrows List results. A nil OwnerID returns every session.
type Filter struct {
	OwnerID *uuid.UUID
}

// Patch carries the mutable session fields. Nil fields are left untouched.
// A session's status, progress and completion time are only ever written by
// the callback chain of its own trainer process, so a patch never races with
// another writer for the same record.
type Patch struct {
	Status      *string
	Progress    *int
	CompletedAt *time.Time
}

// SessionStore persists training session records. Implementations must keep
// insertion order stable for List and treat UpdateByID on a missing record
// as a no-op.
type SessionStore interface {
	Create(ctx context.Context, s *models.TrainingSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error)
	UpdateByID(ctx context.Context, id uuid.UUID, p Patch) error
	List(ctx context.Context, f Filter) ([]models.TrainingSession, error)
	DeleteByID(ctx context.Context, id, ownerID uuid.UUID) error
}
