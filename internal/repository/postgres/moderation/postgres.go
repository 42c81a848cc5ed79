package moderation

import (
	"context"
	"time"

	moderationdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/moderation"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, entry *moderationdomain.LogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) ListWithEmails(ctx context.Context, limit, offset int) ([]moderationdomain.LogEntryWithEmail, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&moderationdomain.LogEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	type logRow struct {
		ID         string    `gorm:"column:id"`
		AdminID    string    `gorm:"column:admin_id"`
		Action     string    `gorm:"column:action"`
		EntityType string    `gorm:"column:entity_type"`
		EntityID   string    `gorm:"column:entity_id"`
		Details    string    `gorm:"column:details"`
		CreatedAt  time.Time `gorm:"column:created_at"`
		AdminEmail *string   `gorm:"column:email"`
	}

	var rows []logRow
	if err := r.db.WithContext(ctx).
		Table("moderation_logs").
		Select("moderation_logs.*, user_profiles.email").
		Joins("left join user_profiles on user_profiles.user_id = moderation_logs.admin_id").
		Order("moderation_logs.created_at desc").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]moderationdomain.LogEntryWithEmail, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, moderationdomain.LogEntryWithEmail{
			LogEntry: moderationdomain.LogEntry{
				ID:         row.ID,
				AdminID:    row.AdminID,
				Action:     row.Action,
				EntityType: row.EntityType,
				EntityID:   row.EntityID,
				Details:    row.Details,
				CreatedAt:  row.CreatedAt,
			},
			AdminEmail: row.AdminEmail,
		})
	}
	return entries, total, nil
}
