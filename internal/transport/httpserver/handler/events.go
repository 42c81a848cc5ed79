package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	eventdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/event"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createEventRequest struct {
	ClubID      string    `json:"club_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	IsFree      bool      `json:"is_free"`
	Price       float64   `json:"price"`
}

type updateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	IsFree      bool      `json:"is_free"`
	Price       float64   `json:"price"`
}

type eventResponse struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id"`
	CreatedBy   string    `json:"created_by"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	IsFree      bool      `json:"is_free"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// eventDetailResponse decorates the detail view with the registration count.
type eventDetailResponse struct {
	eventResponse
	RegistrationCount int64 `json:"registration_count"`
}

type registrationResponse struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

type registrantResponse struct {
	UserID       string    `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Email        *string   `json:"email,omitempty"`
	Name         *string   `json:"name,omitempty"`
}

func toEventResponse(e eventdomain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		ClubID:      e.ClubID,
		CreatedBy:   e.CreatedBy,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		IsFree:      e.IsFree,
		Price:       e.Price,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := parsePage(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	isFree, err := parseBoolParam(query.Get("is_free"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid is_free")
		return
	}

	items, total, err := h.Events.ListEvents(r.Context(), eventdomain.ListFilter{
		ClubID:   strings.TrimSpace(query.Get("club_id")),
		Category: strings.TrimSpace(query.Get("category")),
		IsFree:   isFree,
		SortBy:   strings.TrimSpace(query.Get("sortBy")),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		h.respondEventError(w, "events.list", err)
		return
	}

	response := make([]eventResponse, 0, len(items))
	for _, e := range items {
		response = append(response, toEventResponse(e))
	}
	writeList(w, response, len(response), page, total)
}

func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ClubID) == "" {
		writeError(w, http.StatusBadRequest, "club_id is required")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.StartsAt.IsZero() {
		writeError(w, http.StatusBadRequest, "starts_at is required")
		return
	}

	created, err := h.Events.CreateEvent(r.Context(), user.ID, eventdomain.CreateEventInput{
		ClubID:      req.ClubID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		IsFree:      req.IsFree,
		Price:       req.Price,
	})
	if err != nil {
		h.respondEventError(w, "events.create", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(*created))
}

func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.Events.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondEventError(w, "events.get", err)
		return
	}

	count, err := h.Events.RegistrationCount(r.Context(), e.ID)
	if err != nil {
		h.respondEventError(w, "events.get", err)
		return
	}
	writeJSON(w, http.StatusOK, eventDetailResponse{eventResponse: toEventResponse(*e), RegistrationCount: count})
}

func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	updated, err := h.Events.UpdateEvent(r.Context(), user.ID, chi.URLParam(r, "id"), eventdomain.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		IsFree:      req.IsFree,
		Price:       req.Price,
	})
	if err != nil {
		h.respondEventError(w, "events.update", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(*updated))
}

func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Events.DeleteEvent(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.respondEventError(w, "events.delete", err, "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	reg, err := h.Events.Register(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondEventError(w, "events.register", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, registrationResponse{
		EventID: reg.EventID,
		UserID:  reg.UserID,
	})
}

func (h *Handlers) UnregisterFromEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Events.Unregister(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.respondEventError(w, "events.unregister", err, "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	items, err := h.Events.Registrations(r.Context(), user.ID, user.IsAdmin(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondEventError(w, "events.registrations", err, "user_id", user.ID)
		return
	}

	response := make([]registrantResponse, 0, len(items))
	for _, reg := range items {
		response = append(response, registrantResponse{
			UserID:       reg.UserID,
			RegisteredAt: reg.RegisteredAt,
			Email:        reg.Email,
			Name:         reg.Name,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": response})
}

func (h *Handlers) respondEventError(w http.ResponseWriter, op string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, eventdomain.ErrEventNotFound),
		errors.Is(err, eventdomain.ErrRegistrationNotFound),
		errors.Is(err, clubdomain.ErrClubNotFound):
		h.log.BusinessError(op+": not found", err, kv...)
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, eventdomain.ErrAlreadyRegistered):
		h.log.BusinessError(op+": conflict", err, kv...)
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, eventdomain.ErrNotCreator),
		errors.Is(err, eventdomain.ErrNotClubManager):
		h.log.BusinessError(op+": forbidden", err, kv...)
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, eventdomain.ErrClubPending):
		h.log.BusinessError(op+": club pending", err, kv...)
		writeErrorDetails(w, http.StatusForbidden, err.Error(), "the club has not been approved yet")
	case errors.Is(err, eventdomain.ErrClubRejected):
		h.log.BusinessError(op+": club rejected", err, kv...)
		writeErrorDetails(w, http.StatusForbidden, err.Error(), "the club has been rejected")
	case errors.Is(err, eventdomain.ErrInvalidSortOption),
		errors.Is(err, eventdomain.ErrPriceRequired):
		h.log.BusinessError(op+": invalid request", err, kv...)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.InternalError(op+" failed", err, kv...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
