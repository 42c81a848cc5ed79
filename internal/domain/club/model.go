package club

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Club struct {
	ID              string  `gorm:"type:uuid;primaryKey"`
	Name            string  `gorm:"size:128;not null;uniqueIndex"`
	Description     string  `gorm:"type:text"`
	Category        string  `gorm:"size:64"`
	CreatedBy       string  `gorm:"type:uuid;not null;index"`
	ApprovalStatus  string  `gorm:"type:varchar(16);not null;default:pending;index"`
	ApprovedBy      *string `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// Membership links a user to a club. One row per (club, user); the creator's
// row is created approved with role admin alongside the club itself.
type Membership struct {
	ClubID    string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"type:varchar(16);not null;default:member"`
	Status    string    `gorm:"type:varchar(16);not null;default:pending;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Club Club `gorm:"foreignKey:ClubID;references:ID;constraint:OnDelete:CASCADE"`
}

// MemberProfile is a membership row decorated with directory data.
type MemberProfile struct {
	UserID   string
	Role     string
	Status   string
	JoinedAt time.Time
	Email    *string
	Name     *string
}

type ListFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

type CreateClubInput struct {
	Name        string
	Description string
	Category    string
}

type UpdateClubInput struct {
	Name        string
	Description string
	Category    string
}

func validStatus(status string) bool {
	return status == StatusPending || status == StatusApproved || status == StatusRejected
}

func validDecision(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
