package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ellarushing/asu-connect-sub003/pkg/logger"
	"github.com/google/uuid"
)

const (
	defaultRecentLogCount = 10
	defaultCacheTTL       = time.Minute
)

type Config struct {
	CacheTTL       time.Duration
	RecentLogCount int
}

type Service struct {
	repo  Repository
	flags FlagCounter
	clubs ClubCounter
	cache StatsCache
	cfg   Config
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, flags FlagCounter, clubs ClubCounter, cache StatsCache, cfg Config, log logger.Logger) *Service {
	if cfg.RecentLogCount <= 0 {
		cfg.RecentLogCount = defaultRecentLogCount
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &Service{
		repo:  repo,
		flags: flags,
		clubs: clubs,
		cache: cache,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// Record appends one audit entry. Append-only; there is no update or delete
// path anywhere in the domain.
func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID, details string) error {
	return s.repo.Append(ctx, &LogEntry{
		ID:         uuid.NewString(),
		AdminID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
}

func (s *Service) ListLogs(ctx context.Context, limit, offset int) ([]LogEntryWithEmail, int64, error) {
	return s.repo.ListWithEmails(ctx, limit, offset)
}

// Stats composes the admin dashboard. The sub-queries are independent reads,
// issued concurrently; a failing sub-query degrades to zeros instead of
// failing the response.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	var (
		wg         sync.WaitGroup
		eventFlags FlagCounts
		clubFlags  FlagCounts
		clubs      ClubCounts
		recent     []LogEntryWithEmail
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		eventFlags = s.flagCounts(ctx, "event")
	}()
	go func() {
		defer wg.Done()
		clubFlags = s.flagCounts(ctx, "club")
	}()
	go func() {
		defer wg.Done()
		counts, err := s.clubs.CountClubsByStatus(ctx)
		if err != nil {
			s.log.InternalError("moderation.stats: club counts failed", err)
			return
		}
		clubs = ClubCounts{
			Pending:  counts["pending"],
			Approved: counts["approved"],
			Rejected: counts["rejected"],
		}
	}()
	go func() {
		defer wg.Done()
		entries, _, err := s.repo.ListWithEmails(ctx, s.cfg.RecentLogCount, 0)
		if err != nil {
			s.log.InternalError("moderation.stats: recent logs failed", err)
			entries = []LogEntryWithEmail{}
		}
		recent = entries
	}()
	wg.Wait()

	stats := Stats{
		EventFlags:        eventFlags,
		ClubFlags:         clubFlags,
		Clubs:             clubs,
		ApprovalRate:      approvalRate(clubs),
		RequiresAttention: eventFlags.Pending > 0 || clubFlags.Pending > 0 || clubs.Pending > 0,
		RecentLogs:        recent,
		GeneratedAt:       s.now().UTC(),
	}
	if stats.RecentLogs == nil {
		stats.RecentLogs = []LogEntryWithEmail{}
	}

	s.cache.Set(ctx, stats, s.cfg.CacheTTL)
	return stats, nil
}

func (s *Service) flagCounts(ctx context.Context, entityType string) FlagCounts {
	counts, err := s.flags.CountFlagsByStatus(ctx, entityType)
	if err != nil {
		s.log.InternalError("moderation.stats: flag counts failed", err, "entity_type", entityType)
		return FlagCounts{}
	}
	return FlagCounts{
		Pending:   counts["pending"],
		Reviewed:  counts["reviewed"],
		Resolved:  counts["resolved"],
		Dismissed: counts["dismissed"],
	}
}

func approvalRate(clubs ClubCounts) string {
	decided := clubs.Approved + clubs.Rejected
	if decided == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(clubs.Approved)/float64(decided)*100)
}
