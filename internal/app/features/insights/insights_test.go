package insights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	poststore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/post"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/blobstore"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/preview"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/webhooks"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

// testHandler wires an insights Handler against a per-test database, a
// temp-dir blob store, and the given webhook URLs.
func testHandler(t *testing.T, db *mongo.Database, extractURL, podcastURL string) *Handler {
	t.Helper()
	testutil.MustBootTemplates(t)

	blobs, err := blobstore.NewLocal(blobstore.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:8080/media",
	})
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	broker := preview.NewBroker(zap.NewNop())
	t.Cleanup(broker.Shutdown)

	return NewHandler(db, blobs, broker, webhooks.New(zap.NewNop()),
		extractURL, podcastURL, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
}

// testRouter mirrors Routes minus the session middleware; tests inject the
// user directly into the request context.
func testRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
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

func submitForm(h *Handler, target string, form url.Values) *testutil.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithCSRFToken(req)

	rec := testutil.NewRecorder()
	testRouter(h).ServeHTTP(rec.ResponseRecorder, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"title":    {"Future of Care"},
		"author":   {"Jane Doe"},
		"excerpt":  {"How immersive technology is reshaping patient experiences."},
		"content":  {"<p>Long-form body content.</p>"},
		"category": {"tech-trends"},
		"tags":     {"health, xr"},
	}
}

func TestCreate_GeneratesSlugAndDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	rec := submitForm(h, "/", validForm())
	rec.AssertRedirect(t, "/admin/insights?success=created")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	post, err := poststore.New(db).GetBySlug(ctx, "future-of-care")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if !post.IsDraft() {
		t.Error("publish unchecked but post is not a draft")
	}
	if len(post.Tags) != 2 || post.Tags[0] != "health" {
		t.Errorf("Tags = %v", post.Tags)
	}
}

func TestCreate_PublishDateRoundTrips(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	form := validForm()
	form.Set("publish", "on")
	form.Set("published_at", "2026-03-01T09:30")

	rec := submitForm(h, "/", form)
	rec.AssertRedirect(t, "/admin/insights?success=created")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	post, err := poststore.New(db).GetBySlug(ctx, "future-of-care")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if post.PublishedAt == nil {
		t.Fatal("publish checked but PublishedAt is nil")
	}
	want := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local).UTC()
	if !post.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", post.PublishedAt, want)
	}
}

func TestCreate_MalformedPublishDateBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	form := validForm()
	form.Set("publish", "on")
	form.Set("published_at", "not-a-date")

	rec := submitForm(h, "/", form)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Publish date must be a valid date and time")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	count, _ := poststore.New(db).Count(ctx)
	if count != 0 {
		t.Errorf("post created despite malformed publish date, count = %d", count)
	}
}

func TestCreate_ShortTitleBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	form := validForm()
	form.Set("title", "Hi")
	form.Set("slug", "hi-there")

	rec := submitForm(h, "/", form)
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	count, err := poststore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("post created despite short title, count = %d", count)
	}
}

func TestCreate_EmptyContentBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	form := validForm()
	// An "empty" editor still serializes wrapper markup.
	form.Set("content", "<p><br></p>")

	rec := submitForm(h, "/", form)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Content")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	count, _ := poststore.New(db).Count(ctx)
	if count != 0 {
		t.Errorf("post created despite empty content, count = %d", count)
	}
}

func TestCreate_DuplicateSlugBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	rec := submitForm(h, "/", validForm())
	rec.AssertRedirect(t, "/admin/insights?success=created")

	rec = submitForm(h, "/", validForm())
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "already exists")
}

func TestUpdate_FullRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")
	store := poststore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	created, err := store.Create(ctx, poststore.CreateInput{
		Title: "Original Title", Slug: "original-title", Author: "Jane Doe",
		Excerpt: "The original excerpt text.", Content: "<p>Original.</p>",
		Category: "tech-trends",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	form := validForm()
	form.Set("title", "Updated Title")
	form.Set("slug", "updated-title")
	form.Set("publish", "on")

	rec := submitForm(h, "/"+created.ID.Hex(), form)
	rec.AssertRedirect(t, "/admin/insights?success=updated")

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Updated Title" || got.Slug != "updated-title" {
		t.Errorf("post = %q / %q", got.Title, got.Slug)
	}
	if got.IsDraft() {
		t.Error("publish checked but post is still a draft")
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")
	store := poststore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	created, err := store.Create(ctx, poststore.CreateInput{
		Title: "Doomed Post", Slug: "doomed-post", Author: "Jane Doe",
		Excerpt: "This one will not survive.", Content: "<p>Bye.</p>",
		Category: "our-work",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rec := submitForm(h, "/"+created.ID.Hex()+"/delete", url.Values{})
	rec.AssertRedirect(t, "/admin/insights?success=deleted")

	if count, _ := store.Count(ctx); count != 0 {
		t.Errorf("post still present after delete, count = %d", count)
	}
}

func TestList_ShowsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")
	store := poststore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	now := time.Now().UTC()
	if _, err := store.Create(ctx, poststore.CreateInput{
		Title: "Published Post", Slug: "published-post", Author: "Jane Doe",
		Excerpt: "A published article for the table.", Content: "<p>x</p>",
		Category: "tech-trends", PublishedAt: &now,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, poststore.CreateInput{
		Title: "Draft Post", Slug: "draft-post", Author: "Jane Doe",
		Excerpt: "A draft article for the table.", Content: "<p>x</p>",
		Category: "tech-trends",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := testutil.NewAuthenticatedRequestWithCSRF(http.MethodGet, "/", testutil.AdminUser())
	rec := testutil.NewRecorder()
	testRouter(h).ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Published Post")
	rec.AssertContains(t, "Draft Post")
	rec.AssertContains(t, "Draft")
	rec.AssertContains(t, "Published")
}

func TestPublishAndUnpublish(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")
	store := poststore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	created, err := store.Create(ctx, poststore.CreateInput{
		Title: "Toggle Post", Slug: "toggle-post", Author: "Jane Doe",
		Excerpt: "A post to publish and retract.", Content: "<p>x</p>",
		Category: "tech-trends",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rec := submitForm(h, "/"+created.ID.Hex()+"/publish", url.Values{})
	rec.AssertRedirect(t, "/admin/insights?success=published")

	got, _ := store.GetByID(ctx, created.ID)
	if got.IsDraft() {
		t.Fatal("post still draft after publish")
	}

	rec = submitForm(h, "/"+created.ID.Hex()+"/unpublish", url.Values{})
	rec.AssertRedirect(t, "/admin/insights?success=unpublished")

	got, _ = store.GetByID(ctx, created.ID)
	if !got.IsDraft() {
		t.Error("post still published after unpublish")
	}
}

func TestPreview_PublishReachesSubscriber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	events, cleanup := h.broker.Subscribe(previewChannel("abc"))
	defer cleanup()

	body := `{"id":"abc","data":"{\"title\":\"Typing...\"}"}`
	req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := testutil.NewRecorder()
	testRouter(h).ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	snap, err := preview.WaitForSnapshot(waitCtx, events)
	if err != nil {
		t.Fatalf("WaitForSnapshot() error = %v", err)
	}
	if snap.Channel != "insight:abc" || snap.Kind != "insight" {
		t.Errorf("snapshot = %+v", snap)
	}
}
