package announcement

import "context"

type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	Get(ctx context.Context, id string) (*Announcement, error)
	ListByClub(ctx context.Context, clubID string, limit, offset int) ([]Announcement, int64, error)
	Update(ctx context.Context, id, title, body string) error
	Delete(ctx context.Context, id string) error
}

// ClubGate mirrors the event package's slice of the club domain.
type ClubGate interface {
	ClubState(ctx context.Context, clubID string) (status, createdBy string, err error)
	CanManage(ctx context.Context, clubID, userID string) (bool, error)
}
