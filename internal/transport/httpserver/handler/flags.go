package handler

import (
	"errors"
	"net/http"
	"time"

	flagdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/flag"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type submitFlagRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

type reviewFlagRequest struct {
	Status string `json:"status"`
}

type flagResponse struct {
	ID         string     `json:"id"`
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	UserID     string     `json:"user_id"`
	Reason     string     `json:"reason"`
	Details    string     `json:"details,omitempty"`
	Status     string     `json:"status"`
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toFlagResponse(f flagdomain.Flag) flagResponse {
	return flagResponse{
		ID:         f.ID,
		EntityType: f.EntityType,
		EntityID:   f.EntityID,
		UserID:     f.UserID,
		Reason:     f.Reason,
		Details:    f.Details,
		Status:     f.Status,
		ReviewedBy: f.ReviewedBy,
		ReviewedAt: f.ReviewedAt,
		CreatedAt:  f.CreatedAt,
	}
}

func (h *Handlers) SubmitClubFlag(w http.ResponseWriter, r *http.Request) {
	h.submitFlag(w, r, flagdomain.EntityClub)
}

func (h *Handlers) SubmitEventFlag(w http.ResponseWriter, r *http.Request) {
	h.submitFlag(w, r, flagdomain.EntityEvent)
}

func (h *Handlers) submitFlag(w http.ResponseWriter, r *http.Request, entityType string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req submitFlagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	created, err := h.Flags.Submit(r.Context(), user.ID, entityType, chi.URLParam(r, "id"), req.Reason, req.Details)
	if err != nil {
		h.respondFlagError(w, "flags.submit", err, "user_id", user.ID, "entity_type", entityType)
		return
	}
	writeJSON(w, http.StatusCreated, toFlagResponse(*created))
}

// HasFlaggedClub and HasFlaggedEvent sit behind optional auth: an anonymous
// caller simply reads false.
func (h *Handlers) HasFlaggedClub(w http.ResponseWriter, r *http.Request) {
	h.hasFlagged(w, r, flagdomain.EntityClub)
}

func (h *Handlers) HasFlaggedEvent(w http.ResponseWriter, r *http.Request) {
	h.hasFlagged(w, r, flagdomain.EntityEvent)
}

func (h *Handlers) hasFlagged(w http.ResponseWriter, r *http.Request, entityType string) {
	var userID string
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		userID = user.ID
	}

	flagged := h.Flags.HasUserFlagged(r.Context(), entityType, chi.URLParam(r, "id"), userID)
	writeJSON(w, http.StatusOK, map[string]bool{"flagged": flagged})
}

func (h *Handlers) ListClubFlags(w http.ResponseWriter, r *http.Request) {
	h.listEntityFlags(w, r, flagdomain.EntityClub)
}

func (h *Handlers) ListEventFlags(w http.ResponseWriter, r *http.Request) {
	h.listEntityFlags(w, r, flagdomain.EntityEvent)
}

func (h *Handlers) listEntityFlags(w http.ResponseWriter, r *http.Request, entityType string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	page, err := parsePage(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.Flags.ListForEntity(r.Context(), user.ID, user.IsAdmin(), entityType, chi.URLParam(r, "id"), page.Limit, page.Offset)
	if err != nil {
		h.respondFlagError(w, "flags.list", err, "user_id", user.ID, "entity_type", entityType)
		return
	}

	response := make([]flagResponse, 0, len(items))
	for _, f := range items {
		response = append(response, toFlagResponse(f))
	}
	writeList(w, response, len(response), page, total)
}

// ReviewFlag advances a pending flag to reviewed, resolved or dismissed.
func (h *Handlers) ReviewFlag(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req reviewFlagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	reviewed, err := h.Flags.Review(r.Context(), user.ID, user.IsAdmin(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		// pending is a queryable status but not an assignable review outcome.
		if errors.Is(err, flagdomain.ErrInvalidStatus) {
			h.log.BusinessError("flags.review: invalid status", err, "user_id", user.ID)
			writeErrorDetails(w, http.StatusBadRequest, err.Error(), "valid statuses: reviewed, resolved, dismissed")
			return
		}
		h.respondFlagError(w, "flags.review", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toFlagResponse(*reviewed))
}

func (h *Handlers) respondFlagError(w http.ResponseWriter, op string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, flagdomain.ErrFlagNotFound),
		errors.Is(err, flagdomain.ErrEntityNotFound):
		h.log.BusinessError(op+": not found", err, kv...)
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, flagdomain.ErrAlreadyFlagged),
		errors.Is(err, flagdomain.ErrAlreadyReviewed):
		h.log.BusinessError(op+": conflict", err, kv...)
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, flagdomain.ErrNotReviewer):
		h.log.BusinessError(op+": forbidden", err, kv...)
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, flagdomain.ErrInvalidReason):
		h.log.BusinessError(op+": invalid reason", err, kv...)
		writeErrorDetails(w, http.StatusBadRequest, err.Error(), "valid reasons: Inappropriate Content, Spam, Misinformation, Other")
	case errors.Is(err, flagdomain.ErrInvalidStatus):
		h.log.BusinessError(op+": invalid status", err, kv...)
		writeErrorDetails(w, http.StatusBadRequest, err.Error(), "valid statuses: pending, reviewed, resolved, dismissed")
	case errors.Is(err, flagdomain.ErrInvalidEntityType):
		h.log.BusinessError(op+": invalid entity type", err, kv...)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.InternalError(op+" failed", err, kv...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
