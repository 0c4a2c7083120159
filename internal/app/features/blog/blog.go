// Package blog provides the public insight pages: the published-only
// listing and the article detail.
package blog

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	poststore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/post"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/htmlsanitize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// Handler provides public blog handlers.
type Handler struct {
	postStore *poststore.Store
	errPages  *errorsfeature.Handler
	errLog    *errorsfeature.ErrorLogger
	logger    *zap.Logger
}

// NewHandler creates a new blog Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		postStore: poststore.New(db),
		errPages:  errorsfeature.NewHandler(),
		errLog:    errLog,
		logger:    logger,
	}
}

// Routes returns a chi.Router with public blog routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{slug}", h.show)
	return r
}

// postCard is one article in the listing.
type postCard struct {
	Slug        string
	Title       string
	Author      string
	Excerpt     string
	Category    string
	Tags        []string
	ReadTime    string
	ImageURL    string
	PublishedAt string
}

// ListVM is the view model for the blog listing.
type ListVM struct {
	viewdata.BaseVM
	Posts      []postCard
	Query      string
	Category   string
	Categories []string
}

// list shows published posts, most recent first. Search and category
// filtering happen over the fetched set, so the page and the ?q= /
// ?category= parameters always agree on the same slice.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postStore.ListPublished(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list published posts", err)
		h.errPages.InternalError(w, r)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	vm := ListVM{
		BaseVM:     viewdata.New(r),
		Query:      query,
		Category:   category,
		Categories: models.AllCategories(),
	}
	vm.Title = "Insights"

	for i := range posts {
		p := &posts[i]
		if category != "" && p.Category != category {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		vm.Posts = append(vm.Posts, postCard{
			Slug:        p.Slug,
			Title:       p.Title,
			Author:      p.Author,
			Excerpt:     p.Excerpt,
			Category:    p.Category,
			Tags:        p.Tags,
			ReadTime:    p.ReadTime,
			ImageURL:    p.ImageURL,
			PublishedAt: formatPublished(p.PublishedAt),
		})
	}

	templates.Render(w, r, "blog/list", vm)
}

// PostVM is the view model for the article detail page.
type PostVM struct {
	viewdata.BaseVM
	PostTitle   string
	Author      string
	Excerpt     string
	Content     template.HTML
	Category    string
	Tags        []string
	ReadTime    string
	ImageURL    string
	VideoURL    string
	Gallery     []string
	PublishedAt string
}

// show renders one article by slug. Unknown slugs and drafts get the
// not-found page, never an empty article shell.
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.postStore.GetBySlug(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.errLog.Log(r, "failed to get post by slug", err)
		}
		h.errPages.NotFound(w, r)
		return
	}
	if post.IsDraft() {
		h.errPages.NotFound(w, r)
		return
	}

	vm := PostVM{
		BaseVM:      viewdata.New(r),
		PostTitle:   post.Title,
		Author:      post.Author,
		Excerpt:     post.Excerpt,
		Content:     htmlsanitize.SanitizeToHTML(post.Content),
		Category:    post.Category,
		Tags:        post.Tags,
		ReadTime:    post.ReadTime,
		ImageURL:    post.ImageURL,
		VideoURL:    post.VideoURL,
		Gallery:     post.Gallery,
		PublishedAt: formatPublished(post.PublishedAt),
	}
	vm.Title = post.Title

	templates.Render(w, r, "blog/show", vm)
}

// matchesQuery does a case-insensitive substring match over title,
// excerpt, body, author, and tags.
func matchesQuery(p *models.BlogPost, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Excerpt), q) ||
		strings.Contains(strings.ToLower(p.Content), q) ||
		strings.Contains(strings.ToLower(p.Author), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func formatPublished(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("January 2, 2006")
}
