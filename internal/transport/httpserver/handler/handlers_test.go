package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	eventdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/event"
	flagdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/flag"
	"github.com/ellarushing/asu-connect-sub003/internal/notify"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/middleware"
	"github.com/ellarushing/asu-connect-sub003/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// fakeEventStore implements eventdomain.Repository with real sorting and
// paging so the list envelope can be asserted end to end.
type fakeEventStore struct {
	events        []eventdomain.Event
	registrations []eventdomain.Registration
}

func (s *fakeEventStore) CreateEvent(ctx context.Context, e *eventdomain.Event) error {
	s.events = append(s.events, *e)
	return nil
}

func (s *fakeEventStore) GetEvent(ctx context.Context, id string) (*eventdomain.Event, error) {
	for _, e := range s.events {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, eventdomain.ErrEventNotFound
}

func (s *fakeEventStore) ListEvents(ctx context.Context, filter eventdomain.ListFilter) ([]eventdomain.Event, int64, error) {
	matched := make([]eventdomain.Event, 0, len(s.events))
	for _, e := range s.events {
		if filter.ClubID != "" && e.ClubID != filter.ClubID {
			continue
		}
		matched = append(matched, e)
	}

	switch filter.SortBy {
	case eventdomain.SortByName:
		sort.Slice(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].Title) < strings.ToLower(matched[j].Title)
		})
	case eventdomain.SortByPrice:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].StartsAt.Before(matched[j].StartsAt) })
	}

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []eventdomain.Event{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *fakeEventStore) UpdateEvent(ctx context.Context, e *eventdomain.Event) error { return nil }
func (s *fakeEventStore) DeleteEvent(ctx context.Context, id string) error            { return nil }

func (s *fakeEventStore) CreateRegistration(ctx context.Context, r *eventdomain.Registration) error {
	s.registrations = append(s.registrations, *r)
	return nil
}

func (s *fakeEventStore) DeleteRegistration(ctx context.Context, eventID, userID string) error {
	return nil
}

func (s *fakeEventStore) ListRegistrantsWithProfiles(ctx context.Context, eventID string) ([]eventdomain.RegistrantProfile, error) {
	return nil, nil
}

func (s *fakeEventStore) CountRegistrations(ctx context.Context, eventID string) (int64, error) {
	var count int64
	for _, r := range s.registrations {
		if r.EventID == eventID {
			count++
		}
	}
	return count, nil
}

type openClubGate struct{}

func (openClubGate) ClubState(ctx context.Context, clubID string) (string, string, error) {
	return "approved", "creator-1", nil
}

func (openClubGate) CanManage(ctx context.Context, clubID, userID string) (bool, error) {
	return true, nil
}

// statusClubGate reports a fixed approval status for every club.
type statusClubGate struct{ status string }

func (g statusClubGate) ClubState(ctx context.Context, clubID string) (string, string, error) {
	return g.status, "creator-1", nil
}

func (g statusClubGate) CanManage(ctx context.Context, clubID, userID string) (bool, error) {
	return true, nil
}

type fakeFlagStore struct {
	flags map[string]*flagdomain.Flag
}

func newFakeFlagStore() *fakeFlagStore {
	return &fakeFlagStore{flags: make(map[string]*flagdomain.Flag)}
}

func (s *fakeFlagStore) Create(ctx context.Context, f *flagdomain.Flag) error {
	for _, existing := range s.flags {
		if existing.EntityType == f.EntityType && existing.EntityID == f.EntityID && existing.UserID == f.UserID {
			return flagdomain.ErrAlreadyFlagged
		}
	}
	s.flags[f.ID] = f
	return nil
}

func (s *fakeFlagStore) Get(ctx context.Context, id string) (*flagdomain.Flag, error) {
	f, ok := s.flags[id]
	if !ok {
		return nil, flagdomain.ErrFlagNotFound
	}
	copied := *f
	return &copied, nil
}

func (s *fakeFlagStore) Exists(ctx context.Context, entityType, entityID, userID string) (bool, error) {
	for _, f := range s.flags {
		if f.EntityType == entityType && f.EntityID == entityID && f.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeFlagStore) ListByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]flagdomain.Flag, int64, error) {
	return nil, 0, nil
}

func (s *fakeFlagStore) ListByStatus(ctx context.Context, status string, limit, offset int) ([]flagdomain.Flag, int64, error) {
	result := make([]flagdomain.Flag, 0)
	for _, f := range s.flags {
		if status == "" || f.Status == status {
			result = append(result, *f)
		}
	}
	return result, int64(len(result)), nil
}

func (s *fakeFlagStore) UpdateReview(ctx context.Context, id, status, reviewedBy string, reviewedAt time.Time) error {
	f, ok := s.flags[id]
	if !ok || f.Status != flagdomain.StatusPending {
		return flagdomain.ErrAlreadyReviewed
	}
	f.Status = status
	f.ReviewedBy = &reviewedBy
	f.ReviewedAt = &reviewedAt
	return nil
}

type staticDirectory struct{ creator string }

func (d staticDirectory) EntityCreator(ctx context.Context, entityType, entityID string) (string, error) {
	return d.creator, nil
}

type noopRecorder struct{}

func (noopRecorder) Record(ctx context.Context, actorID, action, entityType, entityID, details string) error {
	return nil
}

func testHandlers(events *eventdomain.Service, flags *flagdomain.Service) *Handlers {
	log := logger.New(io.Discard, slog.LevelError, "text")
	return New(nil, events, nil, flags, nil, log)
}

func asUser(r *http.Request, user middleware.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

func seedEvents(n int) *fakeEventStore {
	store := &fakeEventStore{}
	for i := 0; i < n; i++ {
		store.events = append(store.events, eventdomain.Event{
			ID:       fmt.Sprintf("e%03d", i),
			ClubID:   "c1",
			Title:    fmt.Sprintf("Event %03d", i),
			StartsAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
	}
	return store
}

func TestListEventsEnvelope(t *testing.T) {
	store := seedEvents(7)
	h := testHandlers(eventdomain.NewService(store, openClubGate{}, notify.Noop{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events?limit=3&offset=5", nil)
	rec := httptest.NewRecorder()
	h.ListEvents(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data     []json.RawMessage `json:"data"`
		Limit    int               `json:"limit"`
		Offset   int               `json:"offset"`
		Total    int64             `json:"total"`
		Returned int               `json:"returned"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if envelope.Limit != 3 || envelope.Offset != 5 || envelope.Total != 7 {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	// returned == min(limit, max(0, total-offset))
	if envelope.Returned != 2 || len(envelope.Data) != 2 {
		t.Fatalf("expected 2 returned, got %d (%d items)", envelope.Returned, len(envelope.Data))
	}
}

func TestListEventsLimitClamped(t *testing.T) {
	store := seedEvents(150)
	h := testHandlers(eventdomain.NewService(store, openClubGate{}, notify.Noop{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events?limit=500", nil)
	rec := httptest.NewRecorder()
	h.ListEvents(rec, req)

	var envelope listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if envelope.Limit != 100 || envelope.Returned != 100 {
		t.Fatalf("expected clamped limit 100, got %+v", envelope)
	}
}

func TestListEventsSortByName(t *testing.T) {
	store := &fakeEventStore{events: []eventdomain.Event{
		{ID: "e1", ClubID: "c1", Title: "Banana Bake-off", StartsAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "e2", ClubID: "c1", Title: "apple picking", StartsAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "e3", ClubID: "c1", Title: "Cider Social", StartsAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
	}}
	h := testHandlers(eventdomain.NewService(store, openClubGate{}, notify.Noop{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events?sortBy=name", nil)
	rec := httptest.NewRecorder()
	h.ListEvents(rec, req)

	var envelope struct {
		Data []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	titles := make([]string, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		titles = append(titles, item.Title)
	}
	want := []string{"apple picking", "Banana Bake-off", "Cider Social"}
	for i, title := range want {
		if titles[i] != title {
			t.Fatalf("expected order %v, got %v", want, titles)
		}
	}
}

func TestListEventsInvalidSort(t *testing.T) {
	h := testHandlers(eventdomain.NewService(&fakeEventStore{}, openClubGate{}, notify.Noop{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events?sortBy=bogus", nil)
	rec := httptest.NewRecorder()
	h.ListEvents(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	if envelope.Error == "" {
		t.Fatalf("expected error message")
	}
}

func TestGetEventReportsRegistrationCount(t *testing.T) {
	store := &fakeEventStore{
		events: []eventdomain.Event{{ID: "e1", ClubID: "c1", Title: "Blitz Night", StartsAt: time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)}},
		registrations: []eventdomain.Registration{
			{EventID: "e1", UserID: "user-1"},
			{EventID: "e1", UserID: "user-2"},
			{EventID: "e2", UserID: "user-1"},
		},
	}
	h := testHandlers(eventdomain.NewService(store, openClubGate{}, notify.Noop{}), nil)

	router := chi.NewRouter()
	router.Get("/events/{id}", h.GetEvent)

	req := httptest.NewRequest(http.MethodGet, "/events/e1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		ID                string `json:"id"`
		RegistrationCount int64  `json:"registration_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if payload.ID != "e1" || payload.RegistrationCount != 2 {
		t.Fatalf("expected e1 with 2 registrations, got %+v", payload)
	}
}

func TestCreateEventUndecidedClubForbidden(t *testing.T) {
	cases := []struct {
		status      string
		wantDetails string
	}{
		{status: "pending", wantDetails: "not been approved"},
		{status: "rejected", wantDetails: "rejected"},
	}

	for _, tc := range cases {
		store := &fakeEventStore{}
		h := testHandlers(eventdomain.NewService(store, statusClubGate{status: tc.status}, notify.Noop{}), nil)

		body := `{"club_id":"c1","title":"Blitz Night","starts_at":"2026-10-01T18:00:00Z","is_free":true}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body)), middleware.User{ID: "creator-1", Role: "student"})
		rec := httptest.NewRecorder()
		h.CreateEvent(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status %q: expected 403, got %d: %s", tc.status, rec.Code, rec.Body.String())
		}
		var envelope errorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("invalid error envelope: %v", err)
		}
		if !strings.Contains(envelope.Details, tc.wantDetails) {
			t.Fatalf("status %q: expected details mentioning %q, got %q", tc.status, tc.wantDetails, envelope.Details)
		}
		if len(store.events) != 0 {
			t.Fatalf("status %q: event must not be stored", tc.status)
		}
	}
}

func flagService(store *fakeFlagStore) *flagdomain.Service {
	return flagdomain.NewService(store, staticDirectory{creator: "creator-1"}, noopRecorder{}, notify.Noop{})
}

func withFlagRoute(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Post("/clubs/{id}/flag", h.SubmitClubFlag)
	r.Get("/clubs/{id}/flag", h.HasFlaggedClub)
	r.Patch("/flags/{id}", h.ReviewFlag)
	r.Get("/admin/flags", h.AdminListFlags)
	return r
}

func TestSubmitFlagThenConflict(t *testing.T) {
	store := newFakeFlagStore()
	h := testHandlers(nil, flagService(store))
	router := withFlagRoute(h)

	body := `{"reason":"Spam","details":"ads"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/clubs/c1/flag", strings.NewReader(body)), middleware.User{ID: "user-1", Role: "student"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = asUser(httptest.NewRequest(http.MethodPost, "/clubs/c1/flag", strings.NewReader(body)), middleware.User{ID: "user-1", Role: "student"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeat, got %d", rec.Code)
	}
}

func TestHasFlaggedAnonymous(t *testing.T) {
	store := newFakeFlagStore()
	store.flags["f1"] = &flagdomain.Flag{ID: "f1", EntityType: "club", EntityID: "c1", UserID: "user-1", Status: "pending"}
	h := testHandlers(nil, flagService(store))
	router := withFlagRoute(h)

	req := httptest.NewRequest(http.MethodGet, "/clubs/c1/flag", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if payload["flagged"] {
		t.Fatalf("expected flagged=false for anonymous caller")
	}
}

func TestReviewFlagForbidden(t *testing.T) {
	store := newFakeFlagStore()
	store.flags["f1"] = &flagdomain.Flag{ID: "f1", EntityType: "club", EntityID: "c1", UserID: "user-1", Status: "pending"}
	h := testHandlers(nil, flagService(store))
	router := withFlagRoute(h)

	req := asUser(httptest.NewRequest(http.MethodPatch, "/flags/f1", strings.NewReader(`{"status":"resolved"}`)), middleware.User{ID: "stranger", Role: "student"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestReviewFlagByCreator(t *testing.T) {
	store := newFakeFlagStore()
	store.flags["f1"] = &flagdomain.Flag{ID: "f1", EntityType: "club", EntityID: "c1", UserID: "user-1", Status: "pending"}
	h := testHandlers(nil, flagService(store))
	router := withFlagRoute(h)

	req := asUser(httptest.NewRequest(http.MethodPatch, "/flags/f1", strings.NewReader(`{"status":"resolved"}`)), middleware.User{ID: "creator-1", Role: "student"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload flagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if payload.Status != "resolved" {
		t.Fatalf("expected resolved, got %q", payload.Status)
	}
}

func TestReviewFlagInvalidStatusDetails(t *testing.T) {
	store := newFakeFlagStore()
	store.flags["f1"] = &flagdomain.Flag{ID: "f1", EntityType: "club", EntityID: "c1", UserID: "user-1", Status: "pending"}
	h := testHandlers(nil, flagService(store))
	router := withFlagRoute(h)

	req := asUser(httptest.NewRequest(http.MethodPatch, "/flags/f1", strings.NewReader(`{"status":"pending"}`)), middleware.User{ID: "creator-1", Role: "student"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	// pending can be queried but not assigned.
	if strings.Contains(envelope.Details, "pending") {
		t.Fatalf("review outcomes must not list pending, got %q", envelope.Details)
	}
	if !strings.Contains(envelope.Details, "resolved") {
		t.Fatalf("expected review outcomes in details, got %q", envelope.Details)
	}
}

func TestAdminFlagsInvalidStatus(t *testing.T) {
	h := testHandlers(nil, flagService(newFakeFlagStore()))
	router := withFlagRoute(h)

	req := asUser(httptest.NewRequest(http.MethodGet, "/admin/flags?status=bogus", nil), middleware.User{ID: "admin-1", Role: "admin"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	if !strings.Contains(envelope.Details, "pending") {
		t.Fatalf("expected valid statuses in details, got %q", envelope.Details)
	}
}
