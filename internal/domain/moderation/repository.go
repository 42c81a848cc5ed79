package moderation

import "context"

type Repository interface {
	Append(ctx context.Context, entry *LogEntry) error
	ListWithEmails(ctx context.Context, limit, offset int) ([]LogEntryWithEmail, int64, error)
}

// FlagCounter and ClubCounter are the read-only slices of the flag and club
// stores the stats aggregation needs.
type FlagCounter interface {
	CountFlagsByStatus(ctx context.Context, entityType string) (map[string]int64, error)
}

type ClubCounter interface {
	CountClubsByStatus(ctx context.Context) (map[string]int64, error)
}
