package pages

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

func TestStaticPagesRender(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := NewHandler(zap.NewNop())

	cases := []struct {
		name    string
		router  http.Handler
		content string
	}{
		{"services", h.ServicesRouter(), "XR Development"},
		{"projects", h.ProjectsRouter(), "Projects"},
		{"technology", h.TechnologyRouter(), "WebXR"},
		{"contact", h.ContactRouter(), "Contact"},
		{"podcasts", h.PodcastsRouter(), "Podcasts"},
		{"styleguide", h.StyleguideRouter(), "Flash messages"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.WithCSRFToken(testutil.NewRequest(http.MethodGet, "/"))
			rec := testutil.NewRecorder()
			tc.router.ServeHTTP(rec.ResponseRecorder, req)

			rec.AssertStatus(t, http.StatusOK)
			rec.AssertContains(t, tc.content)
		})
	}
}
