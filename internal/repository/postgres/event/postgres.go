package event

import (
	"context"
	"errors"
	"time"

	eventdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/event"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateEvent(ctx context.Context, e *eventdomain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *PostgresRepository) GetEvent(ctx context.Context, id string) (*eventdomain.Event, error) {
	var e eventdomain.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, eventdomain.ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) ListEvents(ctx context.Context, filter eventdomain.ListFilter) ([]eventdomain.Event, int64, error) {
	order, ok := eventdomain.SortOptions[filter.SortBy]
	if !ok {
		return nil, 0, eventdomain.ErrInvalidSortOption
	}

	query := r.db.WithContext(ctx).Model(&eventdomain.Event{})
	if filter.ClubID != "" {
		query = query.Where("club_id = ?", filter.ClubID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.IsFree != nil {
		query = query.Where("is_free = ?", *filter.IsFree)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []eventdomain.Event
	if err := query.
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *PostgresRepository) UpdateEvent(ctx context.Context, e *eventdomain.Event) error {
	return r.db.WithContext(ctx).Model(&eventdomain.Event{}).Where("id = ?", e.ID).Updates(map[string]any{
		"title":       e.Title,
		"description": e.Description,
		"category":    e.Category,
		"location":    e.Location,
		"starts_at":   e.StartsAt,
		"is_free":     e.IsFree,
		"price":       e.Price,
	}).Error
}

func (r *PostgresRepository) DeleteEvent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&eventdomain.Event{}, "id = ?", id).Error
}

func (r *PostgresRepository) CreateRegistration(ctx context.Context, reg *eventdomain.Registration) error {
	if err := r.db.WithContext(ctx).Create(reg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return eventdomain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) DeleteRegistration(ctx context.Context, eventID, userID string) error {
	result := r.db.WithContext(ctx).Delete(&eventdomain.Registration{}, "event_id = ? AND user_id = ?", eventID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return eventdomain.ErrRegistrationNotFound
	}
	return nil
}

func (r *PostgresRepository) ListRegistrantsWithProfiles(ctx context.Context, eventID string) ([]eventdomain.RegistrantProfile, error) {
	type registrantRow struct {
		UserID       string    `gorm:"column:user_id"`
		RegisteredAt time.Time `gorm:"column:created_at"`
		Email        *string   `gorm:"column:email"`
		Name         *string   `gorm:"column:name"`
	}

	var rows []registrantRow
	if err := r.db.WithContext(ctx).
		Table("registrations").
		Select("registrations.user_id, registrations.created_at, user_profiles.email, user_profiles.name").
		Joins("left join user_profiles on user_profiles.user_id = registrations.user_id").
		Where("registrations.event_id = ?", eventID).
		Order("registrations.created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	registrants := make([]eventdomain.RegistrantProfile, 0, len(rows))
	for _, row := range rows {
		registrants = append(registrants, eventdomain.RegistrantProfile{
			UserID:       row.UserID,
			RegisteredAt: row.RegisteredAt,
			Email:        row.Email,
			Name:         row.Name,
		})
	}
	return registrants, nil
}

func (r *PostgresRepository) CountRegistrations(ctx context.Context, eventID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&eventdomain.Registration{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
