// Package pages provides the static marketing pages. Content lives in
// the templates; there is no store behind these.
package pages

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
)

// Handler provides static page handlers.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new pages Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// PageVM is the view model for static pages.
type PageVM struct {
	viewdata.BaseVM
}

// ServicesRouter returns a router for the services page.
func (h *Handler) ServicesRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showPage("services", "Services"))
	return r
}

// ProjectsRouter returns a router for the projects page.
func (h *Handler) ProjectsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showPage("projects", "Projects"))
	return r
}

// TechnologyRouter returns a router for the technology page.
func (h *Handler) TechnologyRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showPage("technology", "Technology"))
	return r
}

// ContactRouter returns a router for the contact page.
func (h *Handler) ContactRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showPage("contact", "Contact"))
	return r
}

// PodcastsRouter returns a router for the podcasts page.
func (h *Handler) PodcastsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showPage("podcasts", "Podcasts"))
	return r
}

// StyleguideRouter returns a router for the styleguide page.
func (h *Handler) StyleguideRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showPage("styleguide", "Styleguide"))
	return r
}

// showPage returns a handler that renders one static page template.
func (h *Handler) showPage(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vm := PageVM{BaseVM: viewdata.New(r)}
		vm.Title = title
		templates.Render(w, r, "pages/"+name, vm)
	}
}
