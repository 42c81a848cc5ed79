package moderation

import "time"

// LogEntry is one append-only audit record for a privileged mutation.
type LogEntry struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	AdminID    string    `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"size:64;not null"`
	EntityType string    `gorm:"type:varchar(16);not null"`
	EntityID   string    `gorm:"type:uuid;not null;index"`
	Details    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (LogEntry) TableName() string { return "moderation_logs" }

// LogEntryWithEmail decorates an entry with the acting admin's address.
type LogEntryWithEmail struct {
	LogEntry
	AdminEmail *string
}

// FlagCounts holds per-status totals for one entity family.
type FlagCounts struct {
	Pending   int64 `json:"pending"`
	Reviewed  int64 `json:"reviewed"`
	Resolved  int64 `json:"resolved"`
	Dismissed int64 `json:"dismissed"`
}

func (c FlagCounts) Total() int64 {
	return c.Pending + c.Reviewed + c.Resolved + c.Dismissed
}

// ClubCounts holds per-approval-status club totals.
type ClubCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// Stats is the admin dashboard summary. Sub-aggregates that could not be
// computed are zeroed rather than failing the whole response.
type Stats struct {
	EventFlags        FlagCounts          `json:"event_flags"`
	ClubFlags         FlagCounts          `json:"club_flags"`
	Clubs             ClubCounts          `json:"clubs"`
	ApprovalRate      string              `json:"approval_rate"`
	RequiresAttention bool                `json:"requires_attention"`
	RecentLogs        []LogEntryWithEmail `json:"recent_logs"`
	GeneratedAt       time.Time           `json:"generated_at"`
}
