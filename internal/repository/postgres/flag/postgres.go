package flag

import (
	"context"
	"errors"
	"time"

	flagdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/flag"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create relies on the (entity_type, entity_id, user_id) unique index for the
// one-flag-per-user rule; the duplicate-key translation becomes the Conflict.
func (r *PostgresRepository) Create(ctx context.Context, f *flagdomain.Flag) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return flagdomain.ErrAlreadyFlagged
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*flagdomain.Flag, error) {
	var f flagdomain.Flag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, flagdomain.ErrFlagNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, entityType, entityID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&flagdomain.Flag{}).
		Where("entity_type = ? AND entity_id = ? AND user_id = ?", entityType, entityID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]flagdomain.Flag, int64, error) {
	query := r.db.WithContext(ctx).Model(&flagdomain.Flag{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID)
	return r.list(query, limit, offset)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]flagdomain.Flag, int64, error) {
	query := r.db.WithContext(ctx).Model(&flagdomain.Flag{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.list(query, limit, offset)
}

func (r *PostgresRepository) list(query *gorm.DB, limit, offset int) ([]flagdomain.Flag, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var flags []flagdomain.Flag
	if err := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&flags).Error; err != nil {
		return nil, 0, err
	}
	return flags, total, nil
}

// UpdateReview only moves a flag out of pending. Concurrent reviewers race on
// the status predicate; the loser sees zero rows and a conflict.
func (r *PostgresRepository) UpdateReview(ctx context.Context, id, status, reviewedBy string, reviewedAt time.Time) error {
	tx := r.db.WithContext(ctx).Model(&flagdomain.Flag{}).
		Where("id = ? AND status = ?", id, flagdomain.StatusPending).
		Updates(map[string]any{
			"status":      status,
			"reviewed_by": reviewedBy,
			"reviewed_at": reviewedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return flagdomain.ErrAlreadyReviewed
	}
	return nil
}

// CountFlagsByStatus feeds the admin stats aggregation.
func (r *PostgresRepository) CountFlagsByStatus(ctx context.Context, entityType string) (map[string]int64, error) {
	type statusRow struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var rows []statusRow
	if err := r.db.WithContext(ctx).
		Model(&flagdomain.Flag{}).
		Select("status, count(*) as count").
		Where("entity_type = ?", entityType).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
