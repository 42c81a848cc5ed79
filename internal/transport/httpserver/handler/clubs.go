package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type clubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type rejectClubRequest struct {
	Reason string `json:"reason"`
}

type clubResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	CreatedBy       string     `json:"created_by"`
	ApprovalStatus  string     `json:"approval_status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toClubResponse(c clubdomain.Club) clubResponse {
	return clubResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Category:        c.Category,
		CreatedBy:       c.CreatedBy,
		ApprovalStatus:  c.ApprovalStatus,
		ApprovedBy:      c.ApprovedBy,
		ApprovedAt:      c.ApprovedAt,
		RejectionReason: c.RejectionReason,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (h *Handlers) CreateClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req clubRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.Clubs.CreateClub(r.Context(), user.ID, user.IsAdmin(), clubdomain.CreateClubInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		h.respondClubError(w, "clubs.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toClubResponse(*created))
}

func (h *Handlers) ListClubs(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	query := r.URL.Query()
	page, err := parsePage(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.Clubs.ListClubs(r.Context(), user.IsAdmin(), clubdomain.ListFilter{
		Search: strings.TrimSpace(query.Get("search")),
		Status: strings.TrimSpace(query.Get("status")),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		h.respondClubError(w, "clubs.list", err, "user_id", user.ID)
		return
	}

	response := make([]clubResponse, 0, len(items))
	for _, c := range items {
		response = append(response, toClubResponse(c))
	}
	writeList(w, response, len(response), page, total)
}

func (h *Handlers) GetClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	c, err := h.Clubs.GetClub(r.Context(), chi.URLParam(r, "id"), user.ID, user.IsAdmin())
	if err != nil {
		h.respondClubError(w, "clubs.get", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toClubResponse(*c))
}

func (h *Handlers) UpdateClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req clubRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.Clubs.UpdateClub(r.Context(), user.ID, chi.URLParam(r, "id"), clubdomain.UpdateClubInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		h.respondClubError(w, "clubs.update", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toClubResponse(*updated))
}

func (h *Handlers) DeleteClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Clubs.DeleteClub(r.Context(), user.ID, user.IsAdmin(), chi.URLParam(r, "id")); err != nil {
		h.respondClubError(w, "clubs.delete", err, "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApproveClub and RejectClub are platform-admin decisions even though the
// routes sit in the authenticated group.
func (h *Handlers) ApproveClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	c, err := h.Clubs.Approve(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondClubError(w, "clubs.approve", err, "admin_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toClubResponse(*c))
}

func (h *Handlers) RejectClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req rejectClubRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		writeError(w, http.StatusBadRequest, "rejection reason is required")
		return
	}

	c, err := h.Clubs.Reject(r.Context(), user.ID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.respondClubError(w, "clubs.reject", err, "admin_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toClubResponse(*c))
}

func (h *Handlers) MyAdminClubs(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	items, err := h.Clubs.MyAdminClubs(r.Context(), user.ID)
	if err != nil {
		h.respondClubError(w, "clubs.my_admin", err, "user_id", user.ID)
		return
	}

	response := make([]clubResponse, 0, len(items))
	for _, c := range items {
		response = append(response, toClubResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": response})
}

// respondClubError maps club domain errors onto the wire. Anything unmapped
// is an internal error.
func (h *Handlers) respondClubError(w http.ResponseWriter, op string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, clubdomain.ErrClubNotFound),
		errors.Is(err, clubdomain.ErrMembershipNotFound):
		h.log.BusinessError(op+": not found", err, kv...)
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, clubdomain.ErrClubNameTaken),
		errors.Is(err, clubdomain.ErrAlreadyMember),
		errors.Is(err, clubdomain.ErrClubNotPending),
		errors.Is(err, clubdomain.ErrMembershipNotPending):
		h.log.BusinessError(op+": conflict", err, kv...)
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, clubdomain.ErrNotCreator),
		errors.Is(err, clubdomain.ErrNotManager):
		h.log.BusinessError(op+": forbidden", err, kv...)
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, clubdomain.ErrClubPending):
		h.log.BusinessError(op+": club pending", err, kv...)
		writeErrorDetails(w, http.StatusForbidden, err.Error(), "the club has not been approved yet")
	case errors.Is(err, clubdomain.ErrClubRejected):
		h.log.BusinessError(op+": club rejected", err, kv...)
		writeErrorDetails(w, http.StatusForbidden, err.Error(), "the club has been rejected")
	case errors.Is(err, clubdomain.ErrCreatorCannotLeave),
		errors.Is(err, clubdomain.ErrInvalidStatus):
		h.log.BusinessError(op+": invalid request", err, kv...)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.InternalError(op+" failed", err, kv...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
