package flag

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, f *Flag) error
	Get(ctx context.Context, id string) (*Flag, error)
	Exists(ctx context.Context, entityType, entityID, userID string) (bool, error)
	ListByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]Flag, int64, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]Flag, int64, error)

	// UpdateReview applies only while the flag is still pending and returns
	// ErrAlreadyReviewed otherwise, so concurrent reviews cannot both land.
	UpdateReview(ctx context.Context, id, status, reviewedBy string, reviewedAt time.Time) error
}

// EntityDirectory resolves a flag target to its creator. ErrEntityNotFound
// when the target does not exist.
type EntityDirectory interface {
	EntityCreator(ctx context.Context, entityType, entityID string) (string, error)
}

// ActionRecorder appends flag reviews to the moderation log.
type ActionRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, details string) error
}
