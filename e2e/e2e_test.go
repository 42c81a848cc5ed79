//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ellarushing/asu-connect-sub003/internal/config"
	"github.com/ellarushing/asu-connect-sub003/internal/db"
	announcementdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/announcement"
	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	eventdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/event"
	flagdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/flag"
	moderationdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/moderation"
	profiledomain "github.com/ellarushing/asu-connect-sub003/internal/domain/profile"
	"github.com/ellarushing/asu-connect-sub003/internal/mail"
	"github.com/ellarushing/asu-connect-sub003/internal/notify"
	"github.com/ellarushing/asu-connect-sub003/internal/repository/inmemory"
	announcementrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/announcement"
	clubrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/club"
	eventrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/event"
	flagrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/flag"
	moderationrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/moderation"
	profilerepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/profile"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/handler"
	"github.com/ellarushing/asu-connect-sub003/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

// entityDirectory mirrors the app wiring for flag target resolution.
type entityDirectory struct {
	clubs  *clubdomain.Service
	events *eventdomain.Service
}

func (d *entityDirectory) EntityCreator(ctx context.Context, entityType, entityID string) (string, error) {
	switch entityType {
	case flagdomain.EntityClub:
		_, createdBy, err := d.clubs.ClubState(ctx, entityID)
		if err != nil {
			return "", flagdomain.ErrEntityNotFound
		}
		return createdBy, nil
	case flagdomain.EntityEvent:
		e, err := d.events.GetEvent(ctx, entityID)
		if err != nil {
			return "", flagdomain.ErrEntityNotFound
		}
		return e.CreatedBy, nil
	default:
		return "", flagdomain.ErrInvalidEntityType
	}
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	authServer := newAuthServer(t)
	log := logger.New(io.Discard, slog.LevelError, "text")

	cfg := config.Config{
		AdminEmails: []string{"admin@example.com"},
		DB:          config.DBConfig{DSN: dsn},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			PublishableKey: "test-key",
			AuthTimeout:    2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	profiles := profiledomain.NewService(profilerepo.NewPostgres(dbConn), cfg.AdminEmails)
	moderation := moderationdomain.NewService(
		moderationrepo.NewPostgres(dbConn),
		flagrepo.NewPostgres(dbConn),
		clubrepo.NewPostgres(dbConn),
		inmemory.NewStatsCache(),
		moderationdomain.Config{CacheTTL: time.Millisecond},
		log,
	)
	clubs := clubdomain.NewService(clubrepo.NewPostgres(dbConn), moderation, notify.Noop{}, mail.Noop{}, profiles)
	events := eventdomain.NewService(eventrepo.NewPostgres(dbConn), clubs, notify.Noop{})
	announcements := announcementdomain.NewService(announcementrepo.NewPostgres(dbConn), clubs)
	flags := flagdomain.NewService(flagrepo.NewPostgres(dbConn), &entityDirectory{clubs: clubs, events: events}, moderation, notify.Noop{})

	handlers := handler.New(clubs, events, announcements, flags, moderation, log)
	router := httpserver.NewRouter(cfg, handlers, profiles, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

// newAuthServer fakes the BaaS user endpoint: any non-empty token resolves to
// a user whose id is the token itself.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payload := map[string]interface{}{
			"id":    "00000000-0000-4000-8000-" + pad12(token),
			"email": token + "@example.com",
			"user_metadata": map[string]interface{}{
				"name": "User " + token,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

// pad12 turns a short token into the last uuid group so each token maps to a
// stable distinct user id.
func pad12(token string) string {
	hex := ""
	for _, r := range token {
		hex += string("0123456789ab"[int(r)%12])
	}
	for len(hex) < 12 {
		hex += "0"
	}
	return hex[:12]
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE moderation_logs, flags, announcements, registrations, events, memberships, clubs, user_profiles RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func decode(t *testing.T, data []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("decode %s: %v", string(data), err)
	}
}

type clubResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ApprovalStatus  string  `json:"approval_status"`
	RejectionReason *string `json:"rejection_reason"`
	CreatedBy       string  `json:"created_by"`
}

type eventResponse struct {
	ID     string  `json:"id"`
	ClubID string  `json:"club_id"`
	Title  string  `json:"title"`
	IsFree bool    `json:"is_free"`
	Price  float64 `json:"price"`
}

type flagResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestClubLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := env.server.Client()
	base := env.server.URL + "/api"

	// Student files a club; it starts pending.
	resp, body := requestJSON(t, client, http.MethodPost, base+"/clubs", "alice", map[string]interface{}{
		"name":     "Chess Club",
		"category": "games",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create club: %d %s", resp.StatusCode, body)
	}
	var club clubResponse
	decode(t, body, &club)
	if club.ApprovalStatus != "pending" {
		t.Fatalf("expected pending club, got %q", club.ApprovalStatus)
	}

	// Events under a pending club are refused.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/events", "alice", map[string]interface{}{
		"club_id":   club.ID,
		"title":     "Blitz Night",
		"starts_at": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"is_free":   true,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for pending club event, got %d %s", resp.StatusCode, body)
	}

	// A non-admin cannot approve.
	resp, _ = requestJSON(t, client, http.MethodPost, base+"/clubs/"+club.ID+"/approve", "bob", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin approval, got %d", resp.StatusCode)
	}

	// Platform admin approves.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/clubs/"+club.ID+"/approve", "admin", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: %d %s", resp.StatusCode, body)
	}
	decode(t, body, &club)
	if club.ApprovalStatus != "approved" {
		t.Fatalf("expected approved, got %q", club.ApprovalStatus)
	}

	// Approving twice conflicts.
	resp, _ = requestJSON(t, client, http.MethodPost, base+"/clubs/"+club.ID+"/approve", "admin", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on re-approval, got %d", resp.StatusCode)
	}

	// Bob asks to join; alice decides.
	resp, _ = requestJSON(t, client, http.MethodPost, base+"/clubs/"+club.ID+"/membership", "bob", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("join: %d", resp.StatusCode)
	}

	var me struct {
		ID string `json:"id"`
	}
	resp, body = requestJSON(t, client, http.MethodGet, base+"/auth/me", "bob", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("auth me: %d", resp.StatusCode)
	}
	decode(t, body, &me)

	resp, body = requestJSON(t, client, http.MethodPatch, base+"/clubs/"+club.ID+"/membership/"+me.ID, "alice", map[string]string{"status": "approved"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("decide membership: %d %s", resp.StatusCode, body)
	}

	// Now events work, and bob can register.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/events", "alice", map[string]interface{}{
		"club_id":   club.ID,
		"title":     "Blitz Night",
		"starts_at": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"is_free":   true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create event: %d %s", resp.StatusCode, body)
	}
	var event eventResponse
	decode(t, body, &event)

	resp, _ = requestJSON(t, client, http.MethodPost, base+"/events/"+event.ID+"/register", "bob", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d", resp.StatusCode)
	}
	resp, _ = requestJSON(t, client, http.MethodPost, base+"/events/"+event.ID+"/register", "bob", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on repeat registration, got %d", resp.StatusCode)
	}

	var detail struct {
		RegistrationCount int64 `json:"registration_count"`
	}
	resp, body = requestJSON(t, client, http.MethodGet, base+"/events/"+event.ID, "bob", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("event detail: %d", resp.StatusCode)
	}
	decode(t, body, &detail)
	if detail.RegistrationCount != 1 {
		t.Fatalf("expected one registration, got %d", detail.RegistrationCount)
	}

	// Bob flags the event; repeat flag conflicts; alice reviews.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/events/"+event.ID+"/flag", "bob", map[string]string{"reason": "Spam"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("flag: %d %s", resp.StatusCode, body)
	}
	var flagged flagResponse
	decode(t, body, &flagged)

	resp, _ = requestJSON(t, client, http.MethodPost, base+"/events/"+event.ID+"/flag", "bob", map[string]string{"reason": "Other"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate flag, got %d", resp.StatusCode)
	}

	resp, _ = requestJSON(t, client, http.MethodPatch, base+"/flags/"+flagged.ID, "bob", map[string]string{"status": "resolved"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-creator review, got %d", resp.StatusCode)
	}
	resp, body = requestJSON(t, client, http.MethodPatch, base+"/flags/"+flagged.ID, "alice", map[string]string{"status": "resolved"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("review: %d %s", resp.StatusCode, body)
	}

	// Admin dashboard reflects the decisions.
	resp, body = requestJSON(t, client, http.MethodGet, base+"/admin/stats", "admin", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: %d %s", resp.StatusCode, body)
	}
	var stats struct {
		EventFlags struct {
			Resolved int64 `json:"resolved"`
		} `json:"event_flags"`
		ApprovalRate string `json:"approval_rate"`
	}
	decode(t, body, &stats)
	if stats.EventFlags.Resolved != 1 {
		t.Fatalf("expected one resolved event flag, got %+v", stats)
	}
	if stats.ApprovalRate != "100.0%" {
		t.Fatalf("expected 100.0%% approval rate, got %q", stats.ApprovalRate)
	}

	// Admin access is denied to students.
	resp, _ = requestJSON(t, client, http.MethodGet, base+"/admin/stats", "bob", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for student on admin surface, got %d", resp.StatusCode)
	}
}

func TestRejectedClubFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := env.server.Client()
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/clubs", "carol", map[string]interface{}{"name": "Pyramid Scheme Society"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create club: %d %s", resp.StatusCode, body)
	}
	var club clubResponse
	decode(t, body, &club)

	resp, _ = requestJSON(t, client, http.MethodPost, base+"/clubs/"+club.ID+"/reject", "admin", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing reason, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/clubs/"+club.ID+"/reject", "admin", map[string]string{"reason": "not a legitimate club"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reject: %d %s", resp.StatusCode, body)
	}
	decode(t, body, &club)
	if club.RejectionReason == nil || *club.RejectionReason != "not a legitimate club" {
		t.Fatalf("expected stored reason, got %+v", club)
	}

	// Joining a rejected club fails with a distinguishable message.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/clubs/"+club.ID+"/membership", "dave", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "rejected") {
		t.Fatalf("expected rejection message, got %s", body)
	}

	// Rejected clubs are invisible in the public catalog.
	resp, body = requestJSON(t, client, http.MethodGet, base+"/clubs", "dave", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list clubs: %d", resp.StatusCode)
	}
	if strings.Contains(string(body), club.ID) {
		t.Fatalf("rejected club leaked into catalog: %s", body)
	}

	// But the admin rejected queue shows them.
	resp, body = requestJSON(t, client, http.MethodGet, base+"/admin/clubs/rejected", "admin", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rejected queue: %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), club.ID) {
		t.Fatalf("expected rejected club in queue: %s", body)
	}
}
