package announcement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	clubs ClubGate
}

func NewService(repo Repository, clubs ClubGate) *Service {
	return &Service{repo: repo, clubs: clubs}
}

// Create posts an announcement to an approved club. Club managers only.
func (s *Service) Create(ctx context.Context, actorID, clubID, title, body string) (*Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	status, _, err := s.clubs.ClubState(ctx, clubID)
	if err != nil {
		return nil, err
	}
	switch status {
	case "approved":
	case "rejected":
		return nil, ErrClubRejected
	default:
		return nil, ErrClubPending
	}

	ok, err := s.clubs.CanManage(ctx, clubID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotClubManager
	}

	a := Announcement{
		ID:        uuid.NewString(),
		ClubID:    clubID,
		CreatedBy: actorID,
		Title:     title,
		Body:      strings.TrimSpace(body),
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) ListByClub(ctx context.Context, clubID string, limit, offset int) ([]Announcement, int64, error) {
	if _, _, err := s.clubs.ClubState(ctx, clubID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByClub(ctx, clubID, limit, offset)
}

// Update edits an announcement. Author or club creator.
func (s *Service) Update(ctx context.Context, actorID, clubID, announcementID string, input UpdateInput) (*Announcement, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	a, err := s.getForEdit(ctx, actorID, clubID, announcementID)
	if err != nil {
		return nil, err
	}

	input.Body = strings.TrimSpace(input.Body)
	if err := s.repo.Update(ctx, a.ID, input.Title, input.Body); err != nil {
		return nil, err
	}

	a.Title = input.Title
	a.Body = input.Body
	return a, nil
}

func (s *Service) Delete(ctx context.Context, actorID, clubID, announcementID string) error {
	a, err := s.getForEdit(ctx, actorID, clubID, announcementID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, a.ID)
}

func (s *Service) getForEdit(ctx context.Context, actorID, clubID, announcementID string) (*Announcement, error) {
	a, err := s.repo.Get(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if a.ClubID != clubID {
		return nil, ErrAnnouncementNotFound
	}

	if a.CreatedBy == actorID {
		return a, nil
	}

	_, createdBy, err := s.clubs.ClubState(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if createdBy != actorID {
		return nil, ErrNotAuthor
	}
	return a, nil
}
