// Package solutions provides the admin workflow for solution pages. The
// editing surface mirrors insights minus the publish/draft lifecycle; a
// saved solution page is live.
package solutions

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	servicestore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/service"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/htmlsanitize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/inputval"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/preview"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/slug"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/webhooks"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

const maxUploadSize = 32 << 20

// maxListRows bounds the indexed sub-editors so a hostile form cannot post
// an unbounded number of rows.
const maxListRows = 50

// Handler provides solution page handlers.
type Handler struct {
	serviceStore *servicestore.Store
	broker       *preview.Broker
	hooks        *webhooks.Client
	extractURL   string
	errLog       *errorsfeature.ErrorLogger
	logger       *zap.Logger
}

// NewHandler creates a new solutions Handler.
func NewHandler(
	db *mongo.Database,
	broker *preview.Broker,
	hooks *webhooks.Client,
	extractURL string,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		serviceStore: servicestore.New(db),
		broker:       broker,
		hooks:        hooks,
		extractURL:   extractURL,
		errLog:       errLog,
		logger:       logger,
	}
}

// Routes returns a chi.Router with solution routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRole("admin"))

	r.Get("/", h.list)
	r.Get("/new", h.showNew)
	r.Post("/", h.create)
	r.Post("/import", h.importPDF)
	r.Post("/preview", h.publishPreview)
	r.Get("/preview/stream", h.previewStream)
	r.Get("/{id}/edit", h.showEdit)
	r.Get("/{id}/manage_modal", h.manageModal)
	r.Post("/{id}", h.update)
	r.Post("/{id}/delete", h.delete)

	return r
}

// serviceRow represents a solution page in the management table.
type serviceRow struct {
	ID        string
	PageTitle string
	Slug      string
	Features  int
	CreatedAt string
}

// ListVM is the view model for the solutions management table.
type ListVM struct {
	viewdata.BaseVM
	Items   []serviceRow
	Success string
	Error   string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	services, err := h.serviceStore.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list solution pages", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]serviceRow, 0, len(services))
	for _, s := range services {
		rows = append(rows, serviceRow{
			ID:        s.ID,
			PageTitle: s.Title,
			Slug:      s.Slug,
			Features:  len(s.Features),
			CreatedAt: s.CreatedAt.Format("Jan 2, 2006"),
		})
	}

	vm := ListVM{
		BaseVM: viewdata.New(r),
		Items:  rows,
	}
	vm.Title = "Solutions"

	switch r.URL.Query().Get("success") {
	case "created":
		vm.Success = "Solution page created successfully"
	case "updated":
		vm.Success = "Solution page updated successfully"
	case "deleted":
		vm.Success = "Solution page deleted"
	}
	if r.URL.Query().Get("error") == "delete_failed" {
		vm.Error = "Failed to delete solution page"
	}

	templates.Render(w, r, "solutions/list", vm)
}

// serviceInput carries the validated fields of the solution form.
type serviceInput struct {
	Title       string `validate:"required,min=3,max=200" label:"Title"`
	Slug        string `validate:"required,slug" label:"Slug"`
	Description string `validate:"required,min=10" label:"Description"`
}

// parseServiceForm reassembles the posted form, including the indexed
// ordered-list sub-editors (feature_title_0..N and friends), into the
// store's field set.
func parseServiceForm(r *http.Request) (serviceInput, servicestore.Fields) {
	title := strings.TrimSpace(r.FormValue("title"))
	slugValue := strings.TrimSpace(r.FormValue("slug"))
	if slugValue == "" {
		slugValue = slug.Generate(title)
	}

	in := serviceInput{
		Title:       title,
		Slug:        slugValue,
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	fields := servicestore.Fields{
		Slug:            in.Slug,
		Title:           in.Title,
		Description:     in.Description,
		HeroImage:       strings.TrimSpace(r.FormValue("hero_image")),
		Overview:        htmlsanitize.Sanitize(r.FormValue("overview")),
		Features:        parseFeatureRows(r),
		Technologies:    parseTechnologyRows(r),
		GalleryImages:   splitLines(r.FormValue("gallery_images")),
		ServiceIcons:    splitLines(r.FormValue("service_icons")),
		FeaturedImages:  splitLines(r.FormValue("featured_images")),
		ThumbnailImage:  strings.TrimSpace(r.FormValue("thumbnail_image")),
		BackgroundImage: strings.TrimSpace(r.FormValue("background_image")),
	}
	return in, fields
}

func parseFeatureRows(r *http.Request) []models.ServiceFeature {
	var features []models.ServiceFeature
	for i := 0; i < maxListRows; i++ {
		title := strings.TrimSpace(r.FormValue(fmt.Sprintf("feature_title_%d", i)))
		desc := strings.TrimSpace(r.FormValue(fmt.Sprintf("feature_description_%d", i)))
		icon := strings.TrimSpace(r.FormValue(fmt.Sprintf("feature_icon_%d", i)))
		if title == "" && desc == "" && icon == "" {
			continue
		}
		features = append(features, models.ServiceFeature{
			Title:       title,
			Description: desc,
			IconURL:     icon,
		})
	}
	return features
}

func parseTechnologyRows(r *http.Request) []models.ServiceTechnology {
	var techs []models.ServiceTechnology
	for i := 0; i < maxListRows; i++ {
		name := strings.TrimSpace(r.FormValue(fmt.Sprintf("tech_name_%d", i)))
		icon := strings.TrimSpace(r.FormValue(fmt.Sprintf("tech_icon_%d", i)))
		if name == "" && icon == "" {
			continue
		}
		techs = append(techs, models.ServiceTechnology{
			Name:    name,
			IconURL: icon,
		})
	}
	return techs
}

func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FormVM is the view model for the solution form, shared by new and edit.
type FormVM struct {
	viewdata.BaseVM
	ID              string
	PageTitle       string
	Slug            string
	Description     string
	HeroImage       string
	Overview        string
	Features        []models.ServiceFeature
	Technologies    []models.ServiceTechnology
	GalleryImages   string
	ServiceIcons    string
	FeaturedImages  string
	ThumbnailImage  string
	BackgroundImage string
	Error           string
}

func formVM(r *http.Request, f servicestore.Fields, id, errMsg string) FormVM {
	vm := FormVM{
		BaseVM:          viewdata.New(r),
		ID:              id,
		PageTitle:       f.Title,
		Slug:            f.Slug,
		Description:     f.Description,
		HeroImage:       f.HeroImage,
		Overview:        f.Overview,
		Features:        f.Features,
		Technologies:    f.Technologies,
		GalleryImages:   strings.Join(f.GalleryImages, "\n"),
		ServiceIcons:    strings.Join(f.ServiceIcons, "\n"),
		FeaturedImages:  strings.Join(f.FeaturedImages, "\n"),
		ThumbnailImage:  f.ThumbnailImage,
		BackgroundImage: f.BackgroundImage,
		Error:           errMsg,
	}
	vm.BackURL = "/admin/solutions"
	return vm
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	vm := formVM(r, servicestore.Fields{}, "", "")
	vm.Title = "New Solution"
	templates.Render(w, r, "solutions/new", vm)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	in, fields := parseServiceForm(r)

	renderError := func(msg string) {
		vm := formVM(r, fields, "", msg)
		vm.Title = "New Solution"
		templates.Render(w, r, "solutions/new", vm)
	}

	if result := inputval.Validate(in); result.HasErrors() {
		renderError(result.First())
		return
	}

	exists, err := h.serviceStore.SlugExists(r.Context(), fields.Slug, "")
	if err != nil {
		h.errLog.Log(r, "failed to check slug", err)
		renderError("Failed to create solution page")
		return
	}
	if exists {
		renderError("A solution page with this slug already exists")
		return
	}

	if _, err := h.serviceStore.Create(r.Context(), fields); err != nil {
		h.errLog.Log(r, "failed to create solution page", err)
		renderError("Failed to create solution page")
		return
	}

	http.Redirect(w, r, "/admin/solutions?success=created", http.StatusSeeOther)
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	detail, err := h.serviceStore.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	fields := servicestore.Fields{
		Slug:            detail.Slug,
		Title:           detail.Title,
		Description:     detail.Description,
		HeroImage:       detail.HeroImage,
		Overview:        detail.Overview,
		Features:        detail.Features,
		Technologies:    detail.Technologies,
		GalleryImages:   detail.GalleryImages,
		ServiceIcons:    detail.ServiceIcons,
		FeaturedImages:  detail.FeaturedImages,
		ThumbnailImage:  detail.ThumbnailImage,
		BackgroundImage: detail.BackgroundImage,
	}

	vm := formVM(r, fields, detail.ID, "")
	vm.Title = "Edit Solution"
	templates.Render(w, r, "solutions/edit", vm)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.serviceStore.GetByID(r.Context(), id); err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	in, fields := parseServiceForm(r)

	renderError := func(msg string) {
		vm := formVM(r, fields, id, msg)
		vm.Title = "Edit Solution"
		templates.Render(w, r, "solutions/edit", vm)
	}

	if result := inputval.Validate(in); result.HasErrors() {
		renderError(result.First())
		return
	}

	exists, err := h.serviceStore.SlugExists(r.Context(), fields.Slug, id)
	if err != nil {
		h.errLog.Log(r, "failed to check slug", err)
		renderError("Failed to update solution page")
		return
	}
	if exists {
		renderError("A solution page with this slug already exists")
		return
	}

	if err := h.serviceStore.Update(r.Context(), id, fields); err != nil {
		h.errLog.Log(r, "failed to update solution page", err)
		renderError("Failed to update solution page")
		return
	}

	http.Redirect(w, r, "/admin/solutions?success=updated", http.StatusSeeOther)
}

// ManageModalVM is the view model for the delete confirmation modal.
type ManageModalVM struct {
	ID        string
	PageTitle string
	BackURL   string
	CSRFToken string
}

func (h *Handler) manageModal(w http.ResponseWriter, r *http.Request) {
	detail, err := h.serviceStore.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	vm := ManageModalVM{
		ID:        detail.ID,
		PageTitle: detail.Title,
		BackURL:   "/admin/solutions",
		CSRFToken: csrf.Token(r),
	}
	templates.RenderSnippet(w, "solutions/manage_modal", vm)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.serviceStore.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errLog.Log(r, "failed to delete solution page", err)
		http.Redirect(w, r, "/admin/solutions?error=delete_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/solutions?success=deleted", http.StatusSeeOther)
}
