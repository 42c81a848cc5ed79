package handler

import (
	"net/http"
	"time"

	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type decideMembershipRequest struct {
	Status string `json:"status"`
}

type memberRoleRequest struct {
	Role string `json:"role"`
}

type membershipResponse struct {
	ClubID string `json:"club_id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
	Email    *string   `json:"email,omitempty"`
	Name     *string   `json:"name,omitempty"`
}

func toMemberResponses(items []clubdomain.MemberProfile) []memberResponse {
	response := make([]memberResponse, 0, len(items))
	for _, m := range items {
		response = append(response, memberResponse{
			UserID:   m.UserID,
			Role:     m.Role,
			Status:   m.Status,
			JoinedAt: m.JoinedAt,
			Email:    m.Email,
			Name:     m.Name,
		})
	}
	return response
}

// JoinClub files a pending membership request against an approved club.
func (h *Handlers) JoinClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	m, err := h.Clubs.Join(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondClubError(w, "memberships.join", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, membershipResponse{
		ClubID: m.ClubID,
		UserID: m.UserID,
		Role:   m.Role,
		Status: m.Status,
	})
}

func (h *Handlers) LeaveClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Clubs.Leave(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.respondClubError(w, "memberships.leave", err, "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	items, err := h.Clubs.ListMembers(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondClubError(w, "memberships.list", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": toMemberResponses(items)})
}

func (h *Handlers) PendingMemberships(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	items, err := h.Clubs.PendingMemberships(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondClubError(w, "memberships.pending", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": toMemberResponses(items)})
}

// DecideMembership approves or rejects a pending join request. Club managers
// only; the service enforces it.
func (h *Handlers) DecideMembership(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req decideMembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	clubID := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "user_id")
	if err := h.Clubs.DecideMembership(r.Context(), user.ID, clubID, memberID, req.Status); err != nil {
		h.respondClubError(w, "memberships.decide", err, "user_id", user.ID, "club_id", clubID)
		return
	}
	writeJSON(w, http.StatusOK, membershipResponse{
		ClubID: clubID,
		UserID: memberID,
		Status: req.Status,
	})
}

func (h *Handlers) SetMemberRole(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req memberRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	clubID := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "user_id")
	if err := h.Clubs.SetMemberRole(r.Context(), user.ID, clubID, memberID, req.Role); err != nil {
		h.respondClubError(w, "memberships.role", err, "user_id", user.ID, "club_id", clubID)
		return
	}
	writeJSON(w, http.StatusOK, membershipResponse{
		ClubID: clubID,
		UserID: memberID,
		Role:   req.Role,
		Status: clubdomain.StatusApproved,
	})
}
