package club

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateClub(ctx context.Context, c *Club) error
	GetClub(ctx context.Context, id string) (*Club, error)
	ListClubs(ctx context.Context, filter ListFilter) ([]Club, int64, error)
	ListManagedClubs(ctx context.Context, userID string) ([]Club, error)
	UpdateClubDetails(ctx context.Context, id, name, description, category string) error

	// UpdateClubDecision applies only while the club is still pending and
	// returns ErrClubNotPending otherwise, so concurrent decisions cannot
	// both land.
	UpdateClubDecision(ctx context.Context, id, status, decidedBy string, decidedAt time.Time, reason *string) error
	DeleteClub(ctx context.Context, id string) error

	CreateMembership(ctx context.Context, m *Membership) error
	GetMembership(ctx context.Context, clubID, userID string) (*Membership, error)
	ListMembersWithProfiles(ctx context.Context, clubID, status string) ([]MemberProfile, error)

	// UpdateMembershipStatus applies only while the membership is still
	// pending and returns ErrMembershipNotPending otherwise.
	UpdateMembershipStatus(ctx context.Context, clubID, userID, status string) error
	UpdateMembershipRole(ctx context.Context, clubID, userID, role string) error
	DeleteMembership(ctx context.Context, clubID, userID string) error
}
