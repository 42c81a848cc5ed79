package profile

import (
	"context"
	"errors"

	profiledomain "github.com/ellarushing/asu-connect-sub003/internal/domain/profile"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert refreshes directory data on every authenticated request. The role
// column is only ever promoted here; demotion is a manual operation.
func (r *PostgresRepository) Upsert(ctx context.Context, p *profiledomain.UserProfile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "avatar_url", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return err
	}

	if p.Role == profiledomain.RoleAdmin {
		return r.db.WithContext(ctx).Model(&profiledomain.UserProfile{}).
			Where("user_id = ?", p.UserID).
			Update("role", profiledomain.RoleAdmin).Error
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*profiledomain.UserProfile, error) {
	var p profiledomain.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profiledomain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]profiledomain.UserProfile, error) {
	var profiles []profiledomain.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
