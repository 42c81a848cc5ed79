package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	announcementdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/announcement"
	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type announcementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type announcementResponse struct {
	ID        string    `json:"id"`
	ClubID    string    `json:"club_id"`
	CreatedBy string    `json:"created_by"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAnnouncementResponse(a announcementdomain.Announcement) announcementResponse {
	return announcementResponse{
		ID:        a.ID,
		ClubID:    a.ClubID,
		CreatedBy: a.CreatedBy,
		Title:     a.Title,
		Body:      a.Body,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (h *Handlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req announcementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := h.Announcements.Create(r.Context(), user.ID, chi.URLParam(r, "id"), req.Title, req.Body)
	if err != nil {
		h.respondAnnouncementError(w, "announcements.create", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, toAnnouncementResponse(*created))
}

func (h *Handlers) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.Announcements.ListByClub(r.Context(), chi.URLParam(r, "id"), page.Limit, page.Offset)
	if err != nil {
		h.respondAnnouncementError(w, "announcements.list", err)
		return
	}

	response := make([]announcementResponse, 0, len(items))
	for _, a := range items {
		response = append(response, toAnnouncementResponse(a))
	}
	writeList(w, response, len(response), page, total)
}

func (h *Handlers) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req announcementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	updated, err := h.Announcements.Update(r.Context(), user.ID, chi.URLParam(r, "id"), chi.URLParam(r, "announcement_id"), announcementdomain.UpdateInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		h.respondAnnouncementError(w, "announcements.update", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toAnnouncementResponse(*updated))
}

func (h *Handlers) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Announcements.Delete(r.Context(), user.ID, chi.URLParam(r, "id"), chi.URLParam(r, "announcement_id")); err != nil {
		h.respondAnnouncementError(w, "announcements.delete", err, "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) respondAnnouncementError(w http.ResponseWriter, op string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, announcementdomain.ErrAnnouncementNotFound),
		errors.Is(err, clubdomain.ErrClubNotFound):
		h.log.BusinessError(op+": not found", err, kv...)
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, announcementdomain.ErrNotAuthor),
		errors.Is(err, announcementdomain.ErrNotClubManager):
		h.log.BusinessError(op+": forbidden", err, kv...)
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, announcementdomain.ErrClubPending):
		h.log.BusinessError(op+": club pending", err, kv...)
		writeErrorDetails(w, http.StatusForbidden, err.Error(), "the club has not been approved yet")
	case errors.Is(err, announcementdomain.ErrClubRejected):
		h.log.BusinessError(op+": club rejected", err, kv...)
		writeErrorDetails(w, http.StatusForbidden, err.Error(), "the club has been rejected")
	default:
		h.log.InternalError(op+" failed", err, kv...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
