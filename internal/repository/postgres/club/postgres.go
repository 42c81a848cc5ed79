package club

import (
	"context"
	"errors"
	"strings"
	"time"

	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(clubdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateClub(ctx context.Context, c *clubdomain.Club) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return clubdomain.ErrClubNameTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetClub(ctx context.Context, id string) (*clubdomain.Club, error) {
	var c clubdomain.Club
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clubdomain.ErrClubNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) ListClubs(ctx context.Context, filter clubdomain.ListFilter) ([]clubdomain.Club, int64, error) {
	query := r.db.WithContext(ctx).Model(&clubdomain.Club{})
	if filter.Status != "" {
		query = query.Where("approval_status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clubs []clubdomain.Club
	if err := query.
		Order("name asc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&clubs).Error; err != nil {
		return nil, 0, err
	}
	return clubs, total, nil
}

func (r *PostgresRepository) ListManagedClubs(ctx context.Context, userID string) ([]clubdomain.Club, error) {
	var clubs []clubdomain.Club
	err := r.db.WithContext(ctx).
		Table("clubs").
		Joins("join memberships on memberships.club_id = clubs.id").
		Where("memberships.user_id = ? AND memberships.role = ? AND memberships.status = ?",
			userID, clubdomain.RoleAdmin, clubdomain.StatusApproved).
		Order("clubs.name asc").
		Find(&clubs).Error
	if err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *PostgresRepository) UpdateClubDetails(ctx context.Context, id, name, description, category string) error {
	err := r.db.WithContext(ctx).Model(&clubdomain.Club{}).Where("id = ?", id).Updates(map[string]any{
		"name":        name,
		"description": description,
		"category":    category,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return clubdomain.ErrClubNameTaken
	}
	return err
}

// UpdateClubDecision only moves a club out of pending. A concurrent decision
// that lands first leaves zero rows for the second one.
func (r *PostgresRepository) UpdateClubDecision(ctx context.Context, id, status, decidedBy string, decidedAt time.Time, reason *string) error {
	tx := r.db.WithContext(ctx).Model(&clubdomain.Club{}).
		Where("id = ? AND approval_status = ?", id, clubdomain.StatusPending).
		Updates(map[string]any{
			"approval_status":  status,
			"approved_by":      decidedBy,
			"approved_at":      decidedAt,
			"rejection_reason": reason,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return clubdomain.ErrClubNotPending
	}
	return nil
}

func (r *PostgresRepository) DeleteClub(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&clubdomain.Club{}, "id = ?", id).Error
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, m *clubdomain.Membership) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return clubdomain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetMembership(ctx context.Context, clubID, userID string) (*clubdomain.Membership, error) {
	var m clubdomain.Membership
	if err := r.db.WithContext(ctx).Where("club_id = ? AND user_id = ?", clubID, userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clubdomain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) ListMembersWithProfiles(ctx context.Context, clubID, status string) ([]clubdomain.MemberProfile, error) {
	type memberRow struct {
		UserID   string    `gorm:"column:user_id"`
		Role     string    `gorm:"column:role"`
		Status   string    `gorm:"column:status"`
		JoinedAt time.Time `gorm:"column:created_at"`
		Email    *string   `gorm:"column:email"`
		Name     *string   `gorm:"column:name"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.user_id, memberships.role, memberships.status, memberships.created_at, user_profiles.email, user_profiles.name").
		Joins("left join user_profiles on user_profiles.user_id = memberships.user_id").
		Where("memberships.club_id = ? AND memberships.status = ?", clubID, status).
		Order("memberships.created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]clubdomain.MemberProfile, 0, len(rows))
	for _, row := range rows {
		members = append(members, clubdomain.MemberProfile{
			UserID:   row.UserID,
			Role:     row.Role,
			Status:   row.Status,
			JoinedAt: row.JoinedAt,
			Email:    row.Email,
			Name:     row.Name,
		})
	}
	return members, nil
}

func (r *PostgresRepository) UpdateMembershipStatus(ctx context.Context, clubID, userID, status string) error {
	tx := r.db.WithContext(ctx).Model(&clubdomain.Membership{}).
		Where("club_id = ? AND user_id = ? AND status = ?", clubID, userID, clubdomain.StatusPending).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return clubdomain.ErrMembershipNotPending
	}
	return nil
}

func (r *PostgresRepository) UpdateMembershipRole(ctx context.Context, clubID, userID, role string) error {
	return r.db.WithContext(ctx).Model(&clubdomain.Membership{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Update("role", role).Error
}

func (r *PostgresRepository) DeleteMembership(ctx context.Context, clubID, userID string) error {
	return r.db.WithContext(ctx).Delete(&clubdomain.Membership{}, "club_id = ? AND user_id = ?", clubID, userID).Error
}

// CountClubsByStatus feeds the admin stats aggregation.
func (r *PostgresRepository) CountClubsByStatus(ctx context.Context) (map[string]int64, error) {
	type statusRow struct {
		Status string `gorm:"column:approval_status"`
		Count  int64  `gorm:"column:count"`
	}

	var rows []statusRow
	if err := r.db.WithContext(ctx).
		Model(&clubdomain.Club{}).
		Select("approval_status, count(*) as count").
		Group("approval_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
