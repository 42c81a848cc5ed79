package httpserver

import (
	"net/http"
	"time"

	"github.com/ellarushing/asu-connect-sub003/internal/config"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/handler"
	authmw "github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/middleware"
	"github.com/ellarushing/asu-connect-sub003/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSyncer, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// Existence checks work without a token; a token just personalizes
		// the answer.
		r.Group(func(r chi.Router) {
			r.Use(auth.Optional)

			r.Get("/clubs/{id}/flag", handlers.HasFlaggedClub)
			r.Get("/events/{id}/flag", handlers.HasFlaggedEvent)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/clubs", handlers.ListClubs)
			r.Post("/clubs", handlers.CreateClub)
			r.Get("/clubs/my-admin-clubs", handlers.MyAdminClubs)
			r.Get("/clubs/{id}", handlers.GetClub)
			r.Put("/clubs/{id}", handlers.UpdateClub)
			r.Delete("/clubs/{id}", handlers.DeleteClub)
			r.Post("/clubs/{id}/approve", handlers.ApproveClub)
			r.Post("/clubs/{id}/reject", handlers.RejectClub)

			r.Get("/clubs/{id}/membership", handlers.ListMembers)
			r.Post("/clubs/{id}/membership", handlers.JoinClub)
			r.Delete("/clubs/{id}/membership", handlers.LeaveClub)
			r.Get("/clubs/{id}/membership/pending", handlers.PendingMemberships)
			r.Patch("/clubs/{id}/membership/{user_id}", handlers.DecideMembership)
			r.Patch("/clubs/{id}/membership/{user_id}/role", handlers.SetMemberRole)

			r.Get("/clubs/{id}/announcements", handlers.ListAnnouncements)
			r.Post("/clubs/{id}/announcements", handlers.CreateAnnouncement)
			r.Put("/clubs/{id}/announcements/{announcement_id}", handlers.UpdateAnnouncement)
			r.Delete("/clubs/{id}/announcements/{announcement_id}", handlers.DeleteAnnouncement)

			r.Post("/clubs/{id}/flag", handlers.SubmitClubFlag)
			r.Get("/clubs/{id}/flags", handlers.ListClubFlags)

			r.Get("/events", handlers.ListEvents)
			r.Post("/events", handlers.CreateEvent)
			r.Get("/events/{id}", handlers.GetEvent)
			r.Put("/events/{id}", handlers.UpdateEvent)
			r.Delete("/events/{id}", handlers.DeleteEvent)
			r.Post("/events/{id}/register", handlers.RegisterForEvent)
			r.Delete("/events/{id}/register", handlers.UnregisterFromEvent)
			r.Get("/events/{id}/registrations", handlers.ListRegistrations)

			r.Post("/events/{id}/flag", handlers.SubmitEventFlag)
			r.Get("/events/{id}/flags", handlers.ListEventFlags)

			r.Patch("/flags/{id}", handlers.ReviewFlag)

			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireAdmin)

				r.Get("/flags", handlers.AdminListFlags)
				r.Get("/logs", handlers.AdminListLogs)
				r.Get("/stats", handlers.AdminStats)
				r.Get("/clubs/pending", handlers.AdminPendingClubs)
				r.Get("/clubs/rejected", handlers.AdminRejectedClubs)
			})
		})
	})

	return r
}
