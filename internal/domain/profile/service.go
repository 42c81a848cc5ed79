package profile

import (
	"context"
	"strings"
)

type Service struct {
	repo        Repository
	adminEmails map[string]struct{}
}

// NewService builds the directory service. adminEmails bootstraps the platform
// admin role: a profile whose email appears in the list is promoted on upsert.
func NewService(repo Repository, adminEmails []string) *Service {
	emails := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			emails[email] = struct{}{}
		}
	}
	return &Service{repo: repo, adminEmails: emails}
}

// Sync records the identity seen by the auth middleware and returns the stored
// profile, including the platform role.
func (s *Service) Sync(ctx context.Context, userID, email, name, avatarURL string) (*UserProfile, error) {
	p := &UserProfile{
		UserID: userID,
		Email:  strings.TrimSpace(email),
		Name:   strings.TrimSpace(name),
		Role:   RoleStudent,
	}
	if avatarURL = strings.TrimSpace(avatarURL); avatarURL != "" {
		p.AvatarURL = &avatarURL
	}
	if _, ok := s.adminEmails[strings.ToLower(p.Email)]; ok {
		p.Role = RoleAdmin
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*UserProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// EmailFor resolves a user ID to a deliverable address.
func (s *Service) EmailFor(ctx context.Context, userID string) (string, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Email, nil
}

func (s *Service) ListByUserIDs(ctx context.Context, userIDs []string) (map[string]UserProfile, error) {
	if len(userIDs) == 0 {
		return map[string]UserProfile{}, nil
	}

	profiles, err := s.repo.ListByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[string]UserProfile, len(profiles))
	for _, p := range profiles {
		result[p.UserID] = p
	}
	return result, nil
}
