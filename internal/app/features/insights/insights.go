// Package insights provides the admin workflow for blog posts: authoring,
// editing, publishing, PDF import, live preview, and image upload.
package insights

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	poststore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/post"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/blobstore"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/htmlsanitize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/inputval"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/preview"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/slug"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/webhooks"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

const maxUploadSize = 32 << 20

// Handler provides insight handlers.
type Handler struct {
	postStore  *poststore.Store
	blobs      blobstore.Store
	broker     *preview.Broker
	hooks      *webhooks.Client
	extractURL string
	podcastURL string
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new insights Handler.
func NewHandler(
	db *mongo.Database,
	blobs blobstore.Store,
	broker *preview.Broker,
	hooks *webhooks.Client,
	extractURL, podcastURL string,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		postStore:  poststore.New(db),
		blobs:      blobs,
		broker:     broker,
		hooks:      hooks,
		extractURL: extractURL,
		podcastURL: podcastURL,
		errLog:     errLog,
		logger:     logger,
	}
}

// Routes returns a chi.Router with insight routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRole("admin"))

	r.Get("/", h.list)
	r.Get("/new", h.showNew)
	r.Post("/", h.create)
	r.Post("/import", h.importPDF)
	r.Post("/preview", h.publishPreview)
	r.Get("/preview/stream", h.previewStream)
	r.Post("/upload-image", h.uploadImage)
	r.Get("/{id}/edit", h.showEdit)
	r.Get("/{id}/manage_modal", h.manageModal)
	r.Post("/{id}", h.update)
	r.Post("/{id}/delete", h.delete)
	r.Post("/{id}/publish", h.publish)
	r.Post("/{id}/unpublish", h.unpublish)

	return r
}

// postRow represents a post in the management table.
type postRow struct {
	ID        string
	PostTitle string
	Slug      string
	Author    string
	Category  string
	Status    string
	CreatedAt string
}

// ListVM is the view model for the insights management table.
type ListVM struct {
	viewdata.BaseVM
	Items   []postRow
	Success string
	Error   string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postStore.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list posts", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]postRow, 0, len(posts))
	for _, p := range posts {
		status := "Published"
		if p.IsDraft() {
			status = "Draft"
		}
		rows = append(rows, postRow{
			ID:        p.ID.Hex(),
			PostTitle: p.Title,
			Slug:      p.Slug,
			Author:    p.Author,
			Category:  p.Category,
			Status:    status,
			CreatedAt: p.CreatedAt.Format("Jan 2, 2006"),
		})
	}

	vm := ListVM{
		BaseVM: viewdata.New(r),
		Items:  rows,
	}
	vm.Title = "Insights"

	switch r.URL.Query().Get("success") {
	case "created":
		vm.Success = "Insight created successfully"
	case "updated":
		vm.Success = "Insight updated successfully"
	case "deleted":
		vm.Success = "Insight deleted"
	case "published":
		vm.Success = "Insight published"
	case "unpublished":
		vm.Success = "Insight reverted to draft"
	}
	switch r.URL.Query().Get("error") {
	case "delete_failed":
		vm.Error = "Failed to delete insight"
	case "publish_failed":
		vm.Error = "Failed to update publish status"
	}

	templates.Render(w, r, "insights/list", vm)
}

// postInput carries the validated fields of the authoring form.
type postInput struct {
	Title    string `validate:"required,min=5,max=200" label:"Title"`
	Slug     string `validate:"required,slug" label:"Slug"`
	Author   string `validate:"required" label:"Author"`
	Excerpt  string `validate:"required,min=10" label:"Excerpt"`
	Content  string `validate:"required" label:"Content"`
	Category string `validate:"required,category" label:"Category"`
}

// postForm holds everything the authoring form submits, validated and not.
type postForm struct {
	postInput
	Tags        []string
	ReadTime    string
	ImageURL    string
	VideoURL    string
	Gallery     []string
	Publish     bool
	PublishedAt string
}

func parsePostForm(r *http.Request) postForm {
	content := htmlsanitize.Sanitize(r.FormValue("content"))
	if htmlsanitize.IsEmpty(content) {
		content = ""
	}

	title := strings.TrimSpace(r.FormValue("title"))
	slugValue := strings.TrimSpace(r.FormValue("slug"))
	if slugValue == "" {
		slugValue = slug.Generate(title)
	}

	return postForm{
		postInput: postInput{
			Title:    title,
			Slug:     slugValue,
			Author:   strings.TrimSpace(r.FormValue("author")),
			Excerpt:  strings.TrimSpace(r.FormValue("excerpt")),
			Content:  content,
			Category: strings.TrimSpace(r.FormValue("category")),
		},
		Tags:        splitList(r.FormValue("tags"), ","),
		ReadTime:    strings.TrimSpace(r.FormValue("read_time")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		VideoURL:    strings.TrimSpace(r.FormValue("video_url")),
		Gallery:     splitList(r.FormValue("gallery"), "\n"),
		Publish:     r.FormValue("publish") == "on",
		PublishedAt: strings.TrimSpace(r.FormValue("published_at")),
	}
}

// publishedAt resolves the form's publish state to a timestamp. Unchecked
// means draft; checked honors the chosen date, defaulting to now. A date
// that does not parse is an error, not a silent publish-now.
func (f postForm) publishedAt() (*time.Time, error) {
	if !f.Publish {
		return nil, nil
	}
	if f.PublishedAt == "" {
		now := time.Now().UTC()
		return &now, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", f.PublishedAt, time.Local)
	if err != nil {
		return nil, err
	}
	utc := t.UTC()
	return &utc, nil
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FormVM is the view model for the authoring form, shared by new and edit.
type FormVM struct {
	viewdata.BaseVM
	ID          string
	PostTitle   string
	Slug        string
	Author      string
	Excerpt     string
	Content     string
	Category    string
	Categories  []string
	Tags        string
	ReadTime    string
	ImageURL    string
	VideoURL    string
	Gallery     string
	Publish     bool
	PublishedAt string
	Error       string
}

func formVM(r *http.Request, f postForm, id, errMsg string) FormVM {
	vm := FormVM{
		BaseVM:      viewdata.New(r),
		ID:          id,
		PostTitle:   f.Title,
		Slug:        f.Slug,
		Author:      f.Author,
		Excerpt:     f.Excerpt,
		Content:     f.Content,
		Category:    f.Category,
		Categories:  models.AllCategories(),
		Tags:        strings.Join(f.Tags, ", "),
		ReadTime:    f.ReadTime,
		ImageURL:    f.ImageURL,
		VideoURL:    f.VideoURL,
		Gallery:     strings.Join(f.Gallery, "\n"),
		Publish:     f.Publish,
		PublishedAt: f.PublishedAt,
		Error:       errMsg,
	}
	vm.BackURL = "/admin/insights"
	return vm
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	vm := formVM(r, postForm{}, "", "")
	vm.Title = "New Insight"
	templates.Render(w, r, "insights/new", vm)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	f := parsePostForm(r)

	renderError := func(msg string) {
		vm := formVM(r, f, "", msg)
		vm.Title = "New Insight"
		templates.Render(w, r, "insights/new", vm)
	}

	if result := inputval.Validate(f.postInput); result.HasErrors() {
		renderError(result.First())
		return
	}

	publishedAt, err := f.publishedAt()
	if err != nil {
		renderError("Publish date must be a valid date and time")
		return
	}

	exists, err := h.postStore.SlugExists(r.Context(), f.Slug, nil)
	if err != nil {
		h.errLog.Log(r, "failed to check slug", err)
		renderError("Failed to create insight")
		return
	}
	if exists {
		renderError("An insight with this slug already exists")
		return
	}

	created, err := h.postStore.Create(r.Context(), poststore.CreateInput{
		Slug:        f.Slug,
		Title:       f.Title,
		Author:      f.Author,
		Excerpt:     f.Excerpt,
		Content:     f.Content,
		Category:    f.Category,
		Tags:        f.Tags,
		ReadTime:    f.ReadTime,
		ImageURL:    f.ImageURL,
		VideoURL:    f.VideoURL,
		Gallery:     f.Gallery,
		PublishedAt: publishedAt,
	})
	if err != nil {
		h.errLog.Log(r, "failed to create post", err)
		renderError("Failed to create insight")
		return
	}

	h.notifyPodcast(created)
	http.Redirect(w, r, "/admin/insights?success=created", http.StatusSeeOther)
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.postStore.GetByID(r.Context(), objID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f := postForm{
		postInput: postInput{
			Title:    post.Title,
			Slug:     post.Slug,
			Author:   post.Author,
			Excerpt:  post.Excerpt,
			Content:  post.Content,
			Category: post.Category,
		},
		Tags:     post.Tags,
		ReadTime: post.ReadTime,
		ImageURL: post.ImageURL,
		VideoURL: post.VideoURL,
		Gallery:  post.Gallery,
		Publish:  !post.IsDraft(),
	}
	if post.PublishedAt != nil {
		f.PublishedAt = post.PublishedAt.Local().Format("2006-01-02T15:04")
	}

	vm := formVM(r, f, post.ID.Hex(), "")
	vm.Title = "Edit Insight"
	templates.Render(w, r, "insights/edit", vm)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	f := parsePostForm(r)

	renderError := func(msg string) {
		vm := formVM(r, f, id, msg)
		vm.Title = "Edit Insight"
		templates.Render(w, r, "insights/edit", vm)
	}

	if result := inputval.Validate(f.postInput); result.HasErrors() {
		renderError(result.First())
		return
	}

	publishedAt, err := f.publishedAt()
	if err != nil {
		renderError("Publish date must be a valid date and time")
		return
	}

	existing, err := h.postStore.GetByID(r.Context(), objID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	exists, err := h.postStore.SlugExists(r.Context(), f.Slug, &objID)
	if err != nil {
		h.errLog.Log(r, "failed to check slug", err)
		renderError("Failed to update insight")
		return
	}
	if exists {
		renderError("An insight with this slug already exists")
		return
	}

	err = h.postStore.Update(r.Context(), objID, poststore.UpdateInput{
		Slug:     &f.Slug,
		Title:    &f.Title,
		Author:   &f.Author,
		Excerpt:  &f.Excerpt,
		Content:  &f.Content,
		Category: &f.Category,
		Tags:     &f.Tags,
		ReadTime: &f.ReadTime,
		ImageURL: &f.ImageURL,
		VideoURL: &f.VideoURL,
		Gallery:  &f.Gallery,
	})
	if err != nil {
		h.errLog.Log(r, "failed to update post", err)
		renderError("Failed to update insight")
		return
	}

	if err := h.postStore.SetPublished(r.Context(), objID, publishedAt); err != nil {
		h.errLog.Log(r, "failed to update publish status", err)
		renderError("Failed to update insight")
		return
	}

	if existing.IsDraft() && f.Publish {
		if updated, err := h.postStore.GetByID(r.Context(), objID); err == nil {
			h.notifyPodcast(updated)
		}
	}

	http.Redirect(w, r, "/admin/insights?success=updated", http.StatusSeeOther)
}

// ManageModalVM is the view model for the delete confirmation modal.
type ManageModalVM struct {
	ID        string
	PostTitle string
	Status    string
	IsDraft   bool
	BackURL   string
	CSRFToken string
}

func (h *Handler) manageModal(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.postStore.GetByID(r.Context(), objID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	status := "Published"
	if post.IsDraft() {
		status = "Draft"
	}

	vm := ManageModalVM{
		ID:        post.ID.Hex(),
		PostTitle: post.Title,
		Status:    status,
		IsDraft:   post.IsDraft(),
		BackURL:   "/admin/insights",
		CSRFToken: csrf.Token(r),
	}
	templates.RenderSnippet(w, "insights/manage_modal", vm)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.postStore.Delete(r.Context(), objID); err != nil {
		h.errLog.Log(r, "failed to delete post", err)
		http.Redirect(w, r, "/admin/insights?error=delete_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/insights?success=deleted", http.StatusSeeOther)
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	now := time.Now().UTC()
	if err := h.postStore.SetPublished(r.Context(), objID, &now); err != nil {
		h.errLog.Log(r, "failed to publish post", err)
		http.Redirect(w, r, "/admin/insights?error=publish_failed", http.StatusSeeOther)
		return
	}

	if post, err := h.postStore.GetByID(r.Context(), objID); err == nil {
		h.notifyPodcast(post)
	}

	http.Redirect(w, r, "/admin/insights?success=published", http.StatusSeeOther)
}

func (h *Handler) unpublish(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.postStore.SetPublished(r.Context(), objID, nil); err != nil {
		h.errLog.Log(r, "failed to unpublish post", err)
		http.Redirect(w, r, "/admin/insights?error=publish_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/insights?success=unpublished", http.StatusSeeOther)
}

// notifyPodcast fires the transcription webhook for published podcast posts.
func (h *Handler) notifyPodcast(post *models.BlogPost) {
	if h.podcastURL == "" || post.Category != models.CategoryPodcasts || post.IsDraft() {
		return
	}
	h.hooks.Notify(h.podcastURL, map[string]string{
		"title":   post.Title,
		"excerpt": post.Excerpt,
		"content": post.Content,
	})
}
