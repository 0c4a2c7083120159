// Package home provides the landing page.
package home

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	poststore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/post"
	servicestore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/service"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// recentInsightCount is how many published posts the landing page shows.
const recentInsightCount = 3

// Handler provides home page handlers.
type Handler struct {
	postStore    *poststore.Store
	serviceStore *servicestore.Store
	logger       *zap.Logger
}

// NewHandler creates a new home Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		postStore:    poststore.New(db),
		serviceStore: servicestore.New(db),
		logger:       logger,
	}
}

// Routes returns a chi.Router with home routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.index)
	return r
}

// insightCard is one recent article on the landing page.
type insightCard struct {
	Slug        string
	Title       string
	Excerpt     string
	Category    string
	ImageURL    string
	PublishedAt string
}

// HomeVM is the view model for the landing page.
type HomeVM struct {
	viewdata.BaseVM
	Insights []insightCard
	Services []models.ServiceDetail
}

// index renders the landing page. Content sections are best-effort: a
// store failure logs and leaves the section empty rather than failing
// the whole page.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	vm := HomeVM{BaseVM: viewdata.New(r)}
	vm.Title = "Home"

	posts, err := h.postStore.ListPublished(r.Context())
	if err != nil {
		h.logger.Warn("failed to load recent insights for home page", zap.Error(err))
	}
	if len(posts) > recentInsightCount {
		posts = posts[:recentInsightCount]
	}
	for i := range posts {
		p := &posts[i]
		vm.Insights = append(vm.Insights, insightCard{
			Slug:        p.Slug,
			Title:       p.Title,
			Excerpt:     p.Excerpt,
			Category:    p.Category,
			ImageURL:    p.ImageURL,
			PublishedAt: formatPublished(p.PublishedAt),
		})
	}

	services, err := h.serviceStore.List(r.Context())
	if err != nil {
		h.logger.Warn("failed to load services for home page", zap.Error(err))
	}
	vm.Services = services

	templates.Render(w, r, "home/index", vm)
}

func formatPublished(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("January 2, 2006")
}
