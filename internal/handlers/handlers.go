package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	httpmw "github.com/ojusave/murder-mystery-sub000/internal/http/middleware"
	"github.com/ojusave/murder-mystery-sub000/internal/service"
)

type Handlers struct {
	guests         service.GuestService
	characters     service.CharacterService
	faqs           service.FAQService
	auth           service.AuthService
	reminders      *service.ReminderService
	jwtSecret      string
	reminderSecret string
	rateLimit      func(http.Handler) http.Handler
}

func New(
	guests service.GuestService,
	characters service.CharacterService,
	faqs service.FAQService,
	auth service.AuthService,
	reminders *service.ReminderService,
	jwtSecret, reminderSecret string,
	rateLimit func(http.Handler) http.Handler,
) *Handlers {
	return &Handlers{
		guests:         guests,
		characters:     characters,
		faqs:           faqs,
		auth:           auth,
		reminders:      reminders,
		jwtSecret:      jwtSecret,
		reminderSecret: reminderSecret,
		rateLimit:      rateLimit,
	}
}

// Routes mounts the public, admin and internal surfaces.
func (h *Handlers) Routes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Get("/faqs", h.ListFAQs)

	r.Route("/rsvp", func(r chi.Router) {
		if h.rateLimit != nil {
			r.With(h.rateLimit).Post("/", h.CreateGuest)
		} else {
			r.Post("/", h.CreateGuest)
		}
		r.Get("/{token}", h.GetGuestByToken)
		r.Patch("/{token}", h.UpdateGuestByToken)
		r.Post("/{token}/cancel", h.CancelGuest)
		r.Get("/{token}/events", h.GuestTimeline)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(httpmw.RequireAdmin(h.jwtSecret))

		r.Route("/guests", func(r chi.Router) {
			r.Get("/", h.ListGuests)
			r.Get("/{id}", h.GetGuest)
			r.Patch("/{id}", h.UpdateGuest)
			r.Patch("/{id}/status", h.UpdateGuestStatus)
			r.Delete("/{id}", h.DeleteGuest)
			r.Get("/{id}/events", h.ListGuestEvents)
			r.Get("/{id}/character", h.GetGuestCharacter)
			r.Post("/{id}/character", h.AssignCharacter)
		})

		r.Route("/characters", func(r chi.Router) {
			r.Post("/", h.CreateCharacter)
			r.Get("/", h.ListCharacters)
			r.Get("/unassigned", h.ListUnassignedCharacters)
			r.Get("/{id}", h.GetCharacter)
			r.Patch("/{id}", h.UpdateCharacter)
			r.Post("/{id}/unassign", h.UnassignCharacter)
			r.Delete("/{id}", h.DeleteCharacter)
		})

		r.Route("/faqs", func(r chi.Router) {
			r.Get("/", h.ListAllFAQs)
			r.Post("/", h.CreateFAQ)
			r.Patch("/{id}", h.UpdateFAQ)
			r.Delete("/{id}", h.DeleteFAQ)
		})

		r.Post("/bulk-email", h.BulkEmail)
	})

	r.Route("/internal", func(r chi.Router) {
		r.Use(httpmw.RequireReminderSecret(h.reminderSecret))
		r.Post("/reminders/run", h.RunReminders)
	})
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			offset = v
		}
	}
	return limit, offset
}
