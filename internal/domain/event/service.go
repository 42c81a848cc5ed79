package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/ellarushing/asu-connect-sub003/internal/notify"
	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	clubs    ClubGate
	notifier notify.Notifier
}

func NewService(repo Repository, clubs ClubGate, notifier notify.Notifier) *Service {
	return &Service{repo: repo, clubs: clubs, notifier: notifier}
}

// CreateEvent creates an event under an approved club. Only club managers may
// create; a paid event must carry a positive price.
func (s *Service) CreateEvent(ctx context.Context, actorID string, input CreateEventInput) (*Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.StartsAt.IsZero() {
		return nil, fmt.Errorf("starts_at is required")
	}
	if err := validatePrice(input.IsFree, input.Price); err != nil {
		return nil, err
	}

	if err := s.clubApprovedGate(ctx, input.ClubID); err != nil {
		return nil, err
	}
	ok, err := s.clubs.CanManage(ctx, input.ClubID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotClubManager
	}

	e := Event{
		ID:          uuid.NewString(),
		ClubID:      input.ClubID,
		CreatedBy:   actorID,
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    input.StartsAt.UTC(),
		IsFree:      input.IsFree,
		Price:       input.Price,
	}
	if e.IsFree {
		e.Price = 0
	}

	if err := s.repo.CreateEvent(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetEvent(ctx, id)
}

// RegistrationCount reports how many users hold a registration for the event.
func (s *Service) RegistrationCount(ctx context.Context, eventID string) (int64, error) {
	return s.repo.CountRegistrations(ctx, eventID)
}

func (s *Service) ListEvents(ctx context.Context, filter ListFilter) ([]Event, int64, error) {
	if filter.SortBy == "" {
		filter.SortBy = SortByDate
	}
	if _, ok := SortOptions[filter.SortBy]; !ok {
		return nil, 0, ErrInvalidSortOption
	}
	return s.repo.ListEvents(ctx, filter)
}

func (s *Service) UpdateEvent(ctx context.Context, actorID, eventID string, input UpdateEventInput) (*Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if err := validatePrice(input.IsFree, input.Price); err != nil {
		return nil, err
	}

	e, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.CreatedBy != actorID {
		return nil, ErrNotCreator
	}

	e.Title = input.Title
	e.Description = strings.TrimSpace(input.Description)
	e.Category = strings.TrimSpace(input.Category)
	e.Location = strings.TrimSpace(input.Location)
	if !input.StartsAt.IsZero() {
		e.StartsAt = input.StartsAt.UTC()
	}
	e.IsFree = input.IsFree
	e.Price = input.Price
	if e.IsFree {
		e.Price = 0
	}

	if err := s.repo.UpdateEvent(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, actorID, eventID string) error {
	e, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if e.CreatedBy != actorID {
		return ErrNotCreator
	}
	return s.repo.DeleteEvent(ctx, eventID)
}

// Register signs a user up for an event. The club gate is re-checked here: a
// club rejected after the event was created stops taking registrations.
func (s *Service) Register(ctx context.Context, userID, eventID string) (*Registration, error) {
	e, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.clubApprovedGate(ctx, e.ClubID); err != nil {
		return nil, err
	}

	r := Registration{EventID: eventID, UserID: userID}
	if err := s.repo.CreateRegistration(ctx, &r); err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, notify.Event{
		Type:       notify.TypeEventRegistration,
		EntityType: "event",
		EntityID:   eventID,
		ActorID:    userID,
	})
	return &r, nil
}

func (s *Service) Unregister(ctx context.Context, userID, eventID string) error {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return err
	}
	return s.repo.DeleteRegistration(ctx, eventID, userID)
}

// Registrations lists who signed up. Event creator or platform admin only.
func (s *Service) Registrations(ctx context.Context, actorID string, actorIsAdmin bool, eventID string) ([]RegistrantProfile, error) {
	e, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.CreatedBy != actorID && !actorIsAdmin {
		return nil, ErrNotCreator
	}
	return s.repo.ListRegistrantsWithProfiles(ctx, eventID)
}

func (s *Service) clubApprovedGate(ctx context.Context, clubID string) error {
	status, _, err := s.clubs.ClubState(ctx, clubID)
	if err != nil {
		return err
	}
	switch status {
	case "approved":
		return nil
	case "rejected":
		return ErrClubRejected
	default:
		return ErrClubPending
	}
}

func validatePrice(isFree bool, price float64) error {
	if !isFree && price <= 0 {
		return ErrPriceRequired
	}
	return nil
}
