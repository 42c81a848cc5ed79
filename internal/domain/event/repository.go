package event

import "context"

type Repository interface {
	CreateEvent(ctx context.Context, e *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, filter ListFilter) ([]Event, int64, error)
	UpdateEvent(ctx context.Context, e *Event) error
	DeleteEvent(ctx context.Context, id string) error

	CreateRegistration(ctx context.Context, r *Registration) error
	DeleteRegistration(ctx context.Context, eventID, userID string) error
	ListRegistrantsWithProfiles(ctx context.Context, eventID string) ([]RegistrantProfile, error)
	CountRegistrations(ctx context.Context, eventID string) (int64, error)
}

// ClubGate is the slice of the club domain events need: the approval gate and
// the manager check.
type ClubGate interface {
	ClubState(ctx context.Context, clubID string) (status, createdBy string, err error)
	CanManage(ctx context.Context, clubID, userID string) (bool, error)
}
