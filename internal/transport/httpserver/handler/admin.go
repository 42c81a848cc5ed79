package handler

import (
	"net/http"
	"strings"
	"time"

	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	moderationdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/moderation"
)

type moderationLogResponse struct {
	ID         string    `json:"id"`
	AdminID    string    `json:"admin_id"`
	AdminEmail *string   `json:"admin_email,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toModerationLogResponse(entry moderationdomain.LogEntryWithEmail) moderationLogResponse {
	return moderationLogResponse{
		ID:         entry.ID,
		AdminID:    entry.AdminID,
		AdminEmail: entry.AdminEmail,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt,
	}
}

// AdminListFlags is the platform flag queue. status filters; empty means all.
func (h *Handlers) AdminListFlags(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := parsePage(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.Flags.ListByStatus(r.Context(), strings.TrimSpace(query.Get("status")), page.Limit, page.Offset)
	if err != nil {
		h.respondFlagError(w, "admin.flags", err)
		return
	}

	response := make([]flagResponse, 0, len(items))
	for _, f := range items {
		response = append(response, toFlagResponse(f))
	}
	writeList(w, response, len(response), page, total)
}

func (h *Handlers) AdminListLogs(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.Moderation.ListLogs(r.Context(), page.Limit, page.Offset)
	if err != nil {
		h.log.InternalError("admin.logs failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]moderationLogResponse, 0, len(items))
	for _, entry := range items {
		response = append(response, toModerationLogResponse(entry))
	}
	writeList(w, response, len(response), page, total)
}

func (h *Handlers) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Moderation.Stats(r.Context())
	if err != nil {
		h.log.InternalError("admin.stats failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) AdminPendingClubs(w http.ResponseWriter, r *http.Request) {
	h.adminClubsByStatus(w, r, clubdomain.StatusPending)
}

func (h *Handlers) AdminRejectedClubs(w http.ResponseWriter, r *http.Request) {
	h.adminClubsByStatus(w, r, clubdomain.StatusRejected)
}

func (h *Handlers) adminClubsByStatus(w http.ResponseWriter, r *http.Request, status string) {
	page, err := parsePage(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.Clubs.ListClubsByStatus(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		h.respondClubError(w, "admin.clubs."+status, err)
		return
	}

	response := make([]clubResponse, 0, len(items))
	for _, c := range items {
		response = append(response, toClubResponse(c))
	}
	writeList(w, response, len(response), page, total)
}
