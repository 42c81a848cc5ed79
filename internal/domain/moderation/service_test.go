package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ellarushing/asu-connect-sub003/pkg/logger"
)

type fakeLogRepo struct {
	entries []LogEntry
	listErr error
}

func (r *fakeLogRepo) Append(ctx context.Context, entry *LogEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) ListWithEmails(ctx context.Context, limit, offset int) ([]LogEntryWithEmail, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	result := make([]LogEntryWithEmail, 0, limit)
	for i, entry := range r.entries {
		if i < offset {
			continue
		}
		if len(result) == limit {
			break
		}
		result = append(result, LogEntryWithEmail{LogEntry: entry})
	}
	return result, int64(len(r.entries)), nil
}

type fakeFlagCounter struct {
	counts map[string]map[string]int64
	err    error
}

func (c *fakeFlagCounter) CountFlagsByStatus(ctx context.Context, entityType string) (map[string]int64, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.counts[entityType], nil
}

type fakeClubCounter struct {
	counts map[string]int64
	err    error
}

func (c *fakeClubCounter) CountClubsByStatus(ctx context.Context) (map[string]int64, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.counts, nil
}

type captureCache struct {
	stats Stats
	ok    bool
	set   int
}

func (c *captureCache) Get(ctx context.Context) (Stats, bool) { return c.stats, c.ok }

func (c *captureCache) Set(ctx context.Context, stats Stats, ttl time.Duration) {
	c.stats = stats
	c.set++
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func TestRecordAppendsEntry(t *testing.T) {
	repo := &fakeLogRepo{}
	svc := NewService(repo, &fakeFlagCounter{}, &fakeClubCounter{}, nil, Config{}, testLogger())

	if err := svc.Record(context.Background(), "admin-1", "club.approve", "club", "c1", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.ID == "" {
		t.Fatalf("expected generated id")
	}
	if entry.AdminID != "admin-1" || entry.Action != "club.approve" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestStatsAggregates(t *testing.T) {
	repo := &fakeLogRepo{entries: []LogEntry{
		{ID: "l1", AdminID: "admin-1", Action: "club.approve"},
		{ID: "l2", AdminID: "admin-1", Action: "flag.resolved"},
	}}
	flags := &fakeFlagCounter{counts: map[string]map[string]int64{
		"event": {"pending": 2, "resolved": 1},
		"club":  {"dismissed": 3},
	}}
	clubs := &fakeClubCounter{counts: map[string]int64{"pending": 1, "approved": 3, "rejected": 1}}
	cache := &captureCache{}

	svc := NewService(repo, flags, clubs, cache, Config{}, testLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.EventFlags.Pending != 2 || stats.EventFlags.Resolved != 1 {
		t.Fatalf("unexpected event flags %+v", stats.EventFlags)
	}
	if stats.ClubFlags.Dismissed != 3 {
		t.Fatalf("unexpected club flags %+v", stats.ClubFlags)
	}
	if stats.Clubs.Approved != 3 {
		t.Fatalf("unexpected clubs %+v", stats.Clubs)
	}
	if stats.ApprovalRate != "75.0%" {
		t.Fatalf("expected 75.0%%, got %q", stats.ApprovalRate)
	}
	if !stats.RequiresAttention {
		t.Fatalf("expected requires_attention with pending work")
	}
	if len(stats.RecentLogs) != 2 {
		t.Fatalf("expected recent logs, got %d", len(stats.RecentLogs))
	}
	if cache.set != 1 {
		t.Fatalf("expected stats cached once, got %d", cache.set)
	}
}

func TestStatsDegradesOnFailures(t *testing.T) {
	repo := &fakeLogRepo{listErr: errors.New("db down")}
	flags := &fakeFlagCounter{err: errors.New("db down")}
	clubs := &fakeClubCounter{err: errors.New("db down")}

	svc := NewService(repo, flags, clubs, &captureCache{}, Config{}, testLogger())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected degraded stats, got error %v", err)
	}
	if stats.EventFlags.Total() != 0 || stats.ClubFlags.Total() != 0 {
		t.Fatalf("expected zeroed flag counts, got %+v", stats)
	}
	if stats.RequiresAttention {
		t.Fatalf("expected no attention flag when everything is zero")
	}
	if stats.RecentLogs == nil || len(stats.RecentLogs) != 0 {
		t.Fatalf("expected empty recent logs slice, got %v", stats.RecentLogs)
	}
}

func TestApprovalRateNoDecisions(t *testing.T) {
	svc := NewService(&fakeLogRepo{}, &fakeFlagCounter{}, &fakeClubCounter{counts: map[string]int64{"pending": 4}}, &captureCache{}, Config{}, testLogger())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.ApprovalRate != "n/a" {
		t.Fatalf("expected n/a with no decided clubs, got %q", stats.ApprovalRate)
	}
	if !stats.RequiresAttention {
		t.Fatalf("expected pending clubs to require attention")
	}
}

func TestStatsServedFromCache(t *testing.T) {
	cached := Stats{ApprovalRate: "99.9%", GeneratedAt: time.Now().UTC()}
	cache := &captureCache{stats: cached, ok: true}
	flags := &fakeFlagCounter{err: errors.New("should not be called")}

	svc := NewService(&fakeLogRepo{}, flags, &fakeClubCounter{}, cache, Config{}, testLogger())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.ApprovalRate != "99.9%" {
		t.Fatalf("expected cached stats, got %+v", stats)
	}
	if cache.set != 0 {
		t.Fatalf("expected no cache refresh, got %d", cache.set)
	}
}

func TestListLogsRespectsPaging(t *testing.T) {
	repo := &fakeLogRepo{}
	for i := 0; i < 5; i++ {
		repo.entries = append(repo.entries, LogEntry{ID: string(rune('a' + i))})
	}
	svc := NewService(repo, &fakeFlagCounter{}, &fakeClubCounter{}, &captureCache{}, Config{}, testLogger())

	items, total, err := svc.ListLogs(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(items) != 2 || items[0].ID != "b" {
		t.Fatalf("unexpected page %+v", items)
	}
}
