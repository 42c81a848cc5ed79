package profile

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// UserProfile mirrors the identity provider's user record so entity listings
// can be decorated without extra auth round-trips.
type UserProfile struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"not null;index"`
	Name      string    `gorm:"type:text"`
	AvatarURL *string   `gorm:"type:text"`
	Role      string    `gorm:"type:varchar(16);not null;default:student"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string { return "user_profiles" }

func (p UserProfile) IsAdmin() bool { return p.Role == RoleAdmin }
