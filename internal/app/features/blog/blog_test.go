package blog

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	poststore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/post"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *poststore.Store) {
	t.Helper()
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return h, poststore.New(db)
}

func seedPost(t *testing.T, store *poststore.Store, title, slug, category string, publishedAt *time.Time) {
	t.Helper()
	seedPostBody(t, store, title, slug, category, "<p>Full article body.</p>", publishedAt)
}

func seedPostBody(t *testing.T, store *poststore.Store, title, slug, category, content string, publishedAt *time.Time) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, poststore.CreateInput{
		Slug:        slug,
		Title:       title,
		Author:      "Jane Doe",
		Excerpt:     "A short summary of the article.",
		Content:     content,
		Category:    category,
		Tags:        []string{"xr"},
		PublishedAt: publishedAt,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func published(daysAgo int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, -daysAgo)
	return &t
}

func get(h *Handler, target string) *testutil.ResponseRecorder {
	req := testutil.NewRequest(http.MethodGet, target)
	req = testutil.WithCSRFToken(req)
	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec.ResponseRecorder, req)
	return rec
}

func TestList_PublishedOnlyNewestFirst(t *testing.T) {
	h, store := newTestHandler(t)
	seedPost(t, store, "Older Article", "older-article", "tech-trends", published(5))
	seedPost(t, store, "Newer Article", "newer-article", "tech-trends", published(1))
	seedPost(t, store, "Hidden Draft", "hidden-draft", "tech-trends", nil)

	rec := get(h, "/")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Newer Article")
	rec.AssertContains(t, "Older Article")

	body := rec.Body.String()
	if strings.Index(body, "Newer Article") > strings.Index(body, "Older Article") {
		t.Error("newer article not listed first")
	}
	if strings.Contains(body, "Hidden Draft") {
		t.Error("draft appeared in public listing")
	}
}

func TestList_CategoryAndSearchFilters(t *testing.T) {
	h, store := newTestHandler(t)
	seedPost(t, store, "Virtual Wards Study", "virtual-wards", "case-studies", published(2))
	seedPost(t, store, "Engine Benchmarks", "engine-benchmarks", "tech-trends", published(1))

	rec := get(h, "/?category=case-studies")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Virtual Wards Study")
	if strings.Contains(rec.Body.String(), "Engine Benchmarks") {
		t.Error("category filter leaked other categories")
	}

	rec = get(h, "/?q=benchmarks")
	rec.AssertContains(t, "Engine Benchmarks")
	if strings.Contains(rec.Body.String(), "Virtual Wards Study") {
		t.Error("search filter leaked non-matching posts")
	}
}

func TestList_SearchMatchesArticleBody(t *testing.T) {
	h, store := newTestHandler(t)
	seedPostBody(t, store, "Quiet Title", "quiet-title", "tech-trends",
		"<p>A deep dive into volumetric capture pipelines.</p>", published(3))
	seedPost(t, store, "Engine Benchmarks", "engine-benchmarks", "tech-trends", published(1))

	// The term appears only in the body, not in any listed field.
	rec := get(h, "/?q=volumetric")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Quiet Title")
	if strings.Contains(rec.Body.String(), "Engine Benchmarks") {
		t.Error("search filter leaked non-matching posts")
	}
}

func TestShow_RendersArticle(t *testing.T) {
	h, store := newTestHandler(t)
	seedPost(t, store, "Virtual Wards Study", "virtual-wards", "case-studies", published(2))

	rec := get(h, "/virtual-wards")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Virtual Wards Study")
	rec.AssertContains(t, "Full article body.")
}

func TestShow_UnknownSlugIsNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(h, "/no-such-article")
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Page Not Found")
}

func TestShow_DraftIsNotFound(t *testing.T) {
	h, store := newTestHandler(t)
	seedPost(t, store, "Hidden Draft", "hidden-draft", "tech-trends", nil)

	rec := get(h, "/hidden-draft")
	rec.AssertStatus(t, http.StatusNotFound)
}
