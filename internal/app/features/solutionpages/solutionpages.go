// Package solutionpages provides the public solution pages: the listing
// and the per-service detail.
package solutionpages

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	servicestore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/service"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/htmlsanitize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// Handler provides public solution page handlers.
type Handler struct {
	serviceStore *servicestore.Store
	errPages     *errorsfeature.Handler
	errLog       *errorsfeature.ErrorLogger
	logger       *zap.Logger
}

// NewHandler creates a new solutionpages Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		serviceStore: servicestore.New(db),
		errPages:     errorsfeature.NewHandler(),
		errLog:       errLog,
		logger:       logger,
	}
}

// Routes returns a chi.Router with public solution routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{slug}", h.show)
	return r
}

// ListVM is the view model for the solutions listing.
type ListVM struct {
	viewdata.BaseVM
	Services []models.ServiceDetail
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	services, err := h.serviceStore.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list services", err)
		h.errPages.InternalError(w, r)
		return
	}

	vm := ListVM{
		BaseVM:   viewdata.New(r),
		Services: services,
	}
	vm.Title = "Solutions"

	templates.Render(w, r, "solutionpages/list", vm)
}

// DetailVM is the view model for one solution page.
type DetailVM struct {
	viewdata.BaseVM
	PageTitle    string
	Description  string
	HeroImage    string
	Overview     template.HTML
	Features     []models.ServiceFeature
	Technologies []models.ServiceTechnology
	Gallery      []string
	Icons        []string
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	svc, err := h.serviceStore.GetBySlug(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.errLog.Log(r, "failed to get service by slug", err)
		}
		h.errPages.NotFound(w, r)
		return
	}

	vm := DetailVM{
		BaseVM:       viewdata.New(r),
		PageTitle:    svc.Title,
		Description:  svc.Description,
		HeroImage:    svc.HeroImage,
		Overview:     htmlsanitize.SanitizeToHTML(svc.Overview),
		Features:     svc.Features,
		Technologies: svc.Technologies,
		Gallery:      svc.GalleryImages,
		Icons:        svc.ServiceIcons,
	}
	vm.Title = svc.Title

	templates.Render(w, r, "solutionpages/show", vm)
}
