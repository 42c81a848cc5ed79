package flag

import (
	"context"
	"strings"
	"time"

	"github.com/ellarushing/asu-connect-sub003/internal/notify"
	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	entities EntityDirectory
	recorder ActionRecorder
	notifier notify.Notifier
}

func NewService(repo Repository, entities EntityDirectory, recorder ActionRecorder, notifier notify.Notifier) *Service {
	return &Service{repo: repo, entities: entities, recorder: recorder, notifier: notifier}
}

// Submit files a complaint against a club or event. One flag per user per
// entity; the unique index backs this and a repeat attempt is a Conflict.
func (s *Service) Submit(ctx context.Context, userID, entityType, entityID, reason, details string) (*Flag, error) {
	if !ValidEntityType(entityType) {
		return nil, ErrInvalidEntityType
	}
	if !ValidReason(reason) {
		return nil, ErrInvalidReason
	}

	if _, err := s.entities.EntityCreator(ctx, entityType, entityID); err != nil {
		return nil, err
	}

	f := Flag{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Reason:     reason,
		Details:    strings.TrimSpace(details),
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, &f); err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, notify.Event{
		Type:       notify.TypeFlagSubmitted,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    userID,
		Detail:     reason,
	})
	return &f, nil
}

// HasUserFlagged is a pure existence check. It never fails: lookup errors and
// an empty user both read as "not flagged".
func (s *Service) HasUserFlagged(ctx context.Context, entityType, entityID, userID string) bool {
	if userID == "" || !ValidEntityType(entityType) {
		return false
	}
	flagged, err := s.repo.Exists(ctx, entityType, entityID, userID)
	if err != nil {
		return false
	}
	return flagged
}

// Review advances a pending flag to one of the terminal outcomes. Only the
// flagged entity's creator or a platform admin may review.
func (s *Service) Review(ctx context.Context, actorID string, actorIsAdmin bool, flagID, newStatus string) (*Flag, error) {
	if !ValidReviewStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	f, err := s.repo.Get(ctx, flagID)
	if err != nil {
		return nil, err
	}
	if f.Status != StatusPending {
		return nil, ErrAlreadyReviewed
	}

	if !actorIsAdmin {
		creator, err := s.entities.EntityCreator(ctx, f.EntityType, f.EntityID)
		if err != nil {
			return nil, err
		}
		if creator != actorID {
			return nil, ErrNotReviewer
		}
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateReview(ctx, flagID, newStatus, actorID, now); err != nil {
		return nil, err
	}

	f.Status = newStatus
	f.ReviewedBy = &actorID
	f.ReviewedAt = &now

	if err := s.recorder.Record(ctx, actorID, "flag."+newStatus, f.EntityType, f.EntityID, f.Reason); err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, notify.Event{
		Type:       notify.TypeFlagReviewed,
		EntityType: f.EntityType,
		EntityID:   f.EntityID,
		ActorID:    actorID,
		Detail:     newStatus,
	})
	return f, nil
}

// ListForEntity shows an entity's flags to its creator or a platform admin.
func (s *Service) ListForEntity(ctx context.Context, actorID string, actorIsAdmin bool, entityType, entityID string, limit, offset int) ([]Flag, int64, error) {
	if !ValidEntityType(entityType) {
		return nil, 0, ErrInvalidEntityType
	}

	creator, err := s.entities.EntityCreator(ctx, entityType, entityID)
	if err != nil {
		return nil, 0, err
	}
	if creator != actorID && !actorIsAdmin {
		return nil, 0, ErrNotReviewer
	}

	return s.repo.ListByEntity(ctx, entityType, entityID, limit, offset)
}

// ListByStatus serves the admin flag queue. Empty status means all.
func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]Flag, int64, error) {
	if status != "" && !ValidStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}
