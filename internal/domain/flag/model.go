package flag

import "time"

const (
	EntityClub  = "club"
	EntityEvent = "event"
)

const (
	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)

// Reasons is the closed set of complaint reasons; submissions outside it are
// rejected as validation errors.
var Reasons = []string{
	"Inappropriate Content",
	"Spam",
	"Misinformation",
	"Other",
}

// Statuses in lifecycle order. A flag starts pending and moves exactly once
// to one of the review outcomes.
var Statuses = []string{StatusPending, StatusReviewed, StatusResolved, StatusDismissed}

// ReviewStatuses are the terminal outcomes a reviewer may assign.
var ReviewStatuses = []string{StatusReviewed, StatusResolved, StatusDismissed}

type Flag struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	EntityType string  `gorm:"type:varchar(16);not null;uniqueIndex:uk_flag_entity_user,priority:1"`
	EntityID   string  `gorm:"type:uuid;not null;uniqueIndex:uk_flag_entity_user,priority:2;index"`
	UserID     string  `gorm:"type:uuid;not null;uniqueIndex:uk_flag_entity_user,priority:3"`
	Reason     string  `gorm:"size:64;not null"`
	Details    string  `gorm:"type:text"`
	Status     string  `gorm:"type:varchar(16);not null;default:pending;index"`
	ReviewedBy *string `gorm:"type:uuid"`
	ReviewedAt *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func ValidEntityType(entityType string) bool {
	return entityType == EntityClub || entityType == EntityEvent
}

func ValidReason(reason string) bool {
	for _, r := range Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidReviewStatus(status string) bool {
	for _, s := range ReviewStatuses {
		if s == status {
			return true
		}
	}
	return false
}
