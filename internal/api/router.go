package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jannatulferdou/cybersheild/internal/caseservice"
	"github.com/jannatulferdou/cybersheild/internal/contact"
	"github.com/jannatulferdou/cybersheild/internal/resources"
)

// NewRouter creates a chi router with all API routes mounted.
// adminEnabled controls whether the admin group enforces Bearer auth.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(
	svc *caseservice.Service,
	relay *contact.Relay,
	dir *resources.Directory,
	evidence *EvidenceHandler,
	adminEnabled bool,
	adminToken string,
	sseHandler http.Handler,
) chi.Router {
	h := NewHandler(svc, relay, dir)

	r := chi.NewRouter()

	// Report intake and case tracking.
	r.Post("/reports", h.SubmitReport)
	r.Get("/cases", h.ListCases)
	r.Get("/cases/{id}", h.GetCase)
	r.Post("/cases/{id}/escalate", h.EscalateCase)
	r.Get("/cases/{id}/export", h.ExportCase)

	// Evidence upload.
	r.Post("/evidence", evidence.Upload)

	// Contact relay.
	r.Post("/contact", h.Contact)

	// Safety-resource directory.
	r.Get("/resources/hotlines", h.Hotlines)
	r.Get("/resources/platforms", h.Platforms)

	// Administrative transitions (In Progress, Resolved).
	r.Group(func(admin chi.Router) {
		admin.Use(AdminAuth(adminEnabled, adminToken))
		admin.Patch("/admin/cases/{id}/status", h.UpdateStatus)
	})

	// Case event stream.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
