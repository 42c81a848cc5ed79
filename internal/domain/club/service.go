package club

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ellarushing/asu-connect-sub003/internal/mail"
	"github.com/ellarushing/asu-connect-sub003/internal/notify"
	"github.com/google/uuid"
)

// ActionRecorder appends an entry to the moderation log. Implemented by the
// moderation service.
type ActionRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, details string) error
}

// EmailDirectory resolves a user ID to a deliverable address for decision mail.
type EmailDirectory interface {
	EmailFor(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo     Repository
	recorder ActionRecorder
	notifier notify.Notifier
	mailer   mail.Mailer
	emails   EmailDirectory
}

func NewService(repo Repository, recorder ActionRecorder, notifier notify.Notifier, mailer mail.Mailer, emails EmailDirectory) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		notifier: notifier,
		mailer:   mailer,
		emails:   emails,
	}
}

// CreateClub registers a club. Platform admins' clubs are approved on the
// spot; everyone else's wait for review. The creator always gets an approved
// admin membership in the same transaction.
func (s *Service) CreateClub(ctx context.Context, creatorID string, creatorIsAdmin bool, input CreateClubInput) (*Club, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	c := Club{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Description:    strings.TrimSpace(input.Description),
		Category:       strings.TrimSpace(input.Category),
		CreatedBy:      creatorID,
		ApprovalStatus: StatusPending,
	}
	if creatorIsAdmin {
		now := time.Now().UTC()
		c.ApprovalStatus = StatusApproved
		c.ApprovedBy = &creatorID
		c.ApprovedAt = &now
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateClub(ctx, &c); err != nil {
			return err
		}
		return tx.CreateMembership(ctx, &Membership{
			ClubID: c.ID,
			UserID: creatorID,
			Role:   RoleAdmin,
			Status: StatusApproved,
		})
	})
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetClub returns a club, hiding undecided and rejected clubs from everyone
// but their creator and platform admins.
func (s *Service) GetClub(ctx context.Context, clubID, viewerID string, viewerIsAdmin bool) (*Club, error) {
	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if c.ApprovalStatus != StatusApproved && c.CreatedBy != viewerID && !viewerIsAdmin {
		return nil, ErrClubNotFound
	}
	return c, nil
}

func (s *Service) ListClubs(ctx context.Context, viewerIsAdmin bool, filter ListFilter) ([]Club, int64, error) {
	if filter.Status != "" {
		if !validStatus(filter.Status) {
			return nil, 0, ErrInvalidStatus
		}
		if !viewerIsAdmin {
			return nil, 0, ErrNotManager
		}
	} else if !viewerIsAdmin {
		filter.Status = StatusApproved
	}

	return s.repo.ListClubs(ctx, filter)
}

// ListClubsByStatus serves the admin pending/rejected dashboards.
func (s *Service) ListClubsByStatus(ctx context.Context, status string, limit, offset int) ([]Club, int64, error) {
	if !validStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.ListClubs(ctx, ListFilter{Status: status, Limit: limit, Offset: offset})
}

func (s *Service) UpdateClub(ctx context.Context, actorID, clubID string, input UpdateClubInput) (*Club, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy != actorID {
		return nil, ErrNotCreator
	}

	if err := s.repo.UpdateClubDetails(ctx, clubID, input.Name, strings.TrimSpace(input.Description), strings.TrimSpace(input.Category)); err != nil {
		return nil, err
	}

	c.Name = input.Name
	c.Description = strings.TrimSpace(input.Description)
	c.Category = strings.TrimSpace(input.Category)
	return c, nil
}

func (s *Service) DeleteClub(ctx context.Context, actorID string, actorIsAdmin bool, clubID string) error {
	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return err
	}
	if c.CreatedBy != actorID && !actorIsAdmin {
		return ErrNotCreator
	}
	return s.repo.DeleteClub(ctx, clubID)
}

// Approve moves a pending club to approved. One-directional: an already
// decided club cannot be re-decided.
func (s *Service) Approve(ctx context.Context, adminID, clubID string) (*Club, error) {
	return s.decide(ctx, adminID, clubID, StatusApproved, "")
}

// Reject moves a pending club to rejected. A reason is required.
func (s *Service) Reject(ctx context.Context, adminID, clubID, reason string) (*Club, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("rejection reason is required")
	}
	return s.decide(ctx, adminID, clubID, StatusRejected, reason)
}

func (s *Service) decide(ctx context.Context, adminID, clubID, status, reason string) (*Club, error) {
	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if c.ApprovalStatus != StatusPending {
		return nil, ErrClubNotPending
	}

	now := time.Now().UTC()
	var reasonPtr *string
	if status == StatusRejected {
		reasonPtr = &reason
	}

	if err := s.repo.UpdateClubDecision(ctx, clubID, status, adminID, now, reasonPtr); err != nil {
		return nil, err
	}

	c.ApprovalStatus = status
	c.ApprovedBy = &adminID
	c.ApprovedAt = &now
	c.RejectionReason = reasonPtr

	action := "club.approve"
	eventType := notify.TypeClubApproved
	if status == StatusRejected {
		action = "club.reject"
		eventType = notify.TypeClubRejected
	}
	if err := s.recorder.Record(ctx, adminID, action, "club", clubID, reason); err != nil {
		return nil, err
	}

	// Delivery is best-effort: the decision already committed.
	_ = s.notifier.Notify(ctx, notify.Event{
		Type:       eventType,
		EntityType: "club",
		EntityID:   clubID,
		ActorID:    adminID,
		Detail:     reason,
	})
	s.mailDecision(ctx, c, reason)

	return c, nil
}

func (s *Service) mailDecision(ctx context.Context, c *Club, reason string) {
	to, err := s.emails.EmailFor(ctx, c.CreatedBy)
	if err != nil || to == "" {
		return
	}
	subject, body := mail.ClubDecisionBody(c.Name, c.ApprovalStatus, reason)
	_ = s.mailer.Send(to, subject, body)
}

// Join files a membership request against an approved club. The request
// stays pending until a club manager decides it.
func (s *Service) Join(ctx context.Context, userID, clubID string) (*Membership, error) {
	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := approvedGate(c); err != nil {
		return nil, err
	}

	m := Membership{
		ClubID: clubID,
		UserID: userID,
		Role:   RoleMember,
		Status: StatusPending,
	}
	if err := s.repo.CreateMembership(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) Leave(ctx context.Context, userID, clubID string) error {
	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return err
	}
	if c.CreatedBy == userID {
		return ErrCreatorCannotLeave
	}

	if _, err := s.repo.GetMembership(ctx, clubID, userID); err != nil {
		return err
	}
	return s.repo.DeleteMembership(ctx, clubID, userID)
}

func (s *Service) ListMembers(ctx context.Context, actorID, clubID string) ([]MemberProfile, error) {
	if _, err := s.repo.GetClub(ctx, clubID); err != nil {
		return nil, err
	}
	return s.repo.ListMembersWithProfiles(ctx, clubID, StatusApproved)
}

// PendingMemberships lists join requests awaiting a decision. Club managers
// only.
func (s *Service) PendingMemberships(ctx context.Context, actorID, clubID string) ([]MemberProfile, error) {
	if err := s.requireManager(ctx, clubID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListMembersWithProfiles(ctx, clubID, StatusPending)
}

// DecideMembership approves or rejects a pending join request.
func (s *Service) DecideMembership(ctx context.Context, actorID, clubID, memberID, status string) error {
	if !validDecision(status) {
		return ErrInvalidStatus
	}
	if err := s.requireManager(ctx, clubID, actorID); err != nil {
		return err
	}

	m, err := s.repo.GetMembership(ctx, clubID, memberID)
	if err != nil {
		return err
	}
	if m.Status != StatusPending {
		return ErrMembershipNotPending
	}

	if err := s.repo.UpdateMembershipStatus(ctx, clubID, memberID, status); err != nil {
		return err
	}

	_ = s.notifier.Notify(ctx, notify.Event{
		Type:       notify.TypeMembershipDecided,
		EntityType: "club",
		EntityID:   clubID,
		ActorID:    actorID,
		Detail:     memberID + ":" + status,
	})
	return nil
}

// SetMemberRole promotes or demotes an approved member. Creator only; the
// creator's own row cannot be demoted.
func (s *Service) SetMemberRole(ctx context.Context, actorID, clubID, memberID, role string) error {
	if role != RoleMember && role != RoleAdmin {
		return ErrInvalidStatus
	}

	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return err
	}
	if c.CreatedBy != actorID {
		return ErrNotCreator
	}
	if memberID == c.CreatedBy {
		return ErrNotCreator
	}

	m, err := s.repo.GetMembership(ctx, clubID, memberID)
	if err != nil {
		return err
	}
	if m.Status != StatusApproved {
		return ErrMembershipNotFound
	}

	return s.repo.UpdateMembershipRole(ctx, clubID, memberID, role)
}

func (s *Service) MyAdminClubs(ctx context.Context, userID string) ([]Club, error) {
	return s.repo.ListManagedClubs(ctx, userID)
}

// CanManage is the single authorization rule for club-scoped moderation:
// the creator, or an approved member with the admin role.
func (s *Service) CanManage(ctx context.Context, clubID, userID string) (bool, error) {
	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return false, err
	}
	if c.CreatedBy == userID {
		return true, nil
	}

	m, err := s.repo.GetMembership(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.Role == RoleAdmin && m.Status == StatusApproved, nil
}

// ClubState reports approval status and creator for gating by other domains.
func (s *Service) ClubState(ctx context.Context, clubID string) (status, createdBy string, err error) {
	c, err := s.repo.GetClub(ctx, clubID)
	if err != nil {
		return "", "", err
	}
	return c.ApprovalStatus, c.CreatedBy, nil
}

func (s *Service) requireManager(ctx context.Context, clubID, userID string) error {
	ok, err := s.CanManage(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotManager
	}
	return nil
}

func approvedGate(c *Club) error {
	switch c.ApprovalStatus {
	case StatusApproved:
		return nil
	case StatusRejected:
		return ErrClubRejected
	default:
		return ErrClubPending
	}
}
