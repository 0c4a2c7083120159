package home

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	poststore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/post"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

func TestIndex_ShowsRecentPublishedInsights(t *testing.T) {
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, zap.NewNop())
	store := poststore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i, title := range []string{"First", "Second", "Third", "Fourth"} {
		publishedAt := time.Now().UTC().AddDate(0, 0, -i)
		if _, err := store.Create(ctx, poststore.CreateInput{
			Slug:        "post-" + strings.ToLower(title),
			Title:       title + " Insight",
			Author:      "Jane Doe",
			Excerpt:     "A short summary of the article.",
			Content:     "<p>Body.</p>",
			Category:    "tech-trends",
			PublishedAt: &publishedAt,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	// Drafts stay off the landing page.
	if _, err := store.Create(ctx, poststore.CreateInput{
		Slug: "draft-post", Title: "Draft Insight", Author: "Jane Doe",
		Excerpt: "A short summary.", Content: "<p>Body.</p>", Category: "tech-trends",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := testutil.WithCSRFToken(testutil.NewRequest(http.MethodGet, "/"))
	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "First Insight")
	rec.AssertContains(t, "Third Insight")

	body := rec.Body.String()
	if strings.Contains(body, "Fourth Insight") {
		t.Error("landing page shows more than the three most recent insights")
	}
	if strings.Contains(body, "Draft Insight") {
		t.Error("draft appeared on the landing page")
	}
}
