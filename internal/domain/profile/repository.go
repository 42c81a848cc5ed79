package profile

import "context"

type Repository interface {
	Upsert(ctx context.Context, p *UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]UserProfile, error)
}
