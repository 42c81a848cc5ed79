package announcement

import (
	"context"
	"errors"

	announcementdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/announcement"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *announcementdomain.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*announcementdomain.Announcement, error) {
	var a announcementdomain.Announcement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, announcementdomain.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) ListByClub(ctx context.Context, clubID string, limit, offset int) ([]announcementdomain.Announcement, int64, error) {
	query := r.db.WithContext(ctx).Model(&announcementdomain.Announcement{}).Where("club_id = ?", clubID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var announcements []announcementdomain.Announcement
	if err := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&announcements).Error; err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, title, body string) error {
	return r.db.WithContext(ctx).Model(&announcementdomain.Announcement{}).Where("id = ?", id).Updates(map[string]any{
		"title": title,
		"body":  body,
	}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&announcementdomain.Announcement{}, "id = ?", id).Error
}
