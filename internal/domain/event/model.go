package event

import "time"

type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	ClubID      string    `gorm:"type:uuid;not null;index"`
	CreatedBy   string    `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"size:64;index"`
	Location    string    `gorm:"size:200"`
	StartsAt    time.Time `gorm:"not null;index"`
	IsFree      bool      `gorm:"not null;default:true"`
	Price       float64   `gorm:"type:numeric(10,2);not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Registration is one row per (event, user); the unique pair backs the
// repeat-registration Conflict.
type Registration struct {
	EventID   string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Event Event `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE"`
}

// RegistrantProfile is a registration row decorated with directory data.
type RegistrantProfile struct {
	UserID       string
	RegisteredAt time.Time
	Email        *string
	Name         *string
}

const (
	SortByName   = "name"
	SortByDate   = "date"
	SortByNewest = "newest"
	SortByPrice  = "price"
)

// SortOptions maps the sortBy query value to its ORDER BY clause. A plain
// table keyed by option; no dispatch machinery.
var SortOptions = map[string]string{
	SortByName:   "lower(title) asc",
	SortByDate:   "starts_at asc",
	SortByNewest: "created_at desc",
	SortByPrice:  "price asc, starts_at asc",
}

type ListFilter struct {
	ClubID   string
	Category string
	IsFree   *bool
	SortBy   string
	Limit    int
	Offset   int
}

type CreateEventInput struct {
	ClubID      string
	Title       string
	Description string
	Category    string
	Location    string
	StartsAt    time.Time
	IsFree      bool
	Price       float64
}

type UpdateEventInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	StartsAt    time.Time
	IsFree      bool
	Price       float64
}
