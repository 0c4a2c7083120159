// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	blogfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/blog"
	chatfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/chat"
	dashboardfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/dashboard"
	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	homefeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/home"
	iconsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/icons"
	insightsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/insights"
	loginfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/login"
	logoutfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/logout"
	pagesfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/pages"
	solutionpagesfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/solutionpages"
	solutionsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/solutions"
	appresources "github.com/JamesMorphed/immersive-agency-sub000/internal/app/resources"
	userstore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/user"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/preview"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/webhooks"
)

// previewBroker is kept at package level so Shutdown can close the open
// SSE connections.
var previewBroker *preview.Broker

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.New(deps.MongoDatabase))

	// Boot the template engine once at startup. Dev mode enables template
	// reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	hooks := webhooks.New(logger)

	previewBroker = preview.NewBroker(logger)

	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection for all form routes. The chat API is exempt: it is
	// used by anonymous visitors with no session to bind a token to.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("immersive_csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	}
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)
	r.Use(func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == "/api/chat" {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	})

	// Embedded static assets.
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Uploaded media (local storage only; S3 objects are served by S3/CDN).
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Public site.
	homeHandler := homefeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	blogHandler := blogfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/blog", blogfeature.Routes(blogHandler))

	solutionpagesHandler := solutionpagesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/solutions", solutionpagesfeature.Routes(solutionpagesHandler))

	pagesHandler := pagesfeature.NewHandler(logger)
	r.Mount("/services", pagesHandler.ServicesRouter())
	r.Mount("/projects", pagesHandler.ProjectsRouter())
	r.Mount("/technology", pagesHandler.TechnologyRouter())
	r.Mount("/contact", pagesHandler.ContactRouter())
	r.Mount("/podcasts", pagesHandler.PodcastsRouter())
	r.Mount("/styleguide", pagesHandler.StyleguideRouter())

	// Chat assistant API (CSRF-exempt above).
	chatHandler := chatfeature.NewHandler(hooks, appCfg.ChatWebhookURL, errLog, logger)
	r.Mount("/api/chat", chatfeature.Routes(chatHandler))

	// Authentication.
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages.
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)

	// Admin area.
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Route("/admin", func(ar chi.Router) {
		ar.With(sessionMgr.RequireRole("admin")).Mount("/", dashboardfeature.Routes(dashboardHandler))

		insightsHandler := insightsfeature.NewHandler(
			deps.MongoDatabase,
			deps.MediaStorage,
			previewBroker,
			hooks,
			appCfg.ExtractWebhookURL,
			appCfg.PodcastWebhookURL,
			errLog,
			logger,
		)
		ar.Mount("/insights", insightsfeature.Routes(insightsHandler, sessionMgr))

		solutionsHandler := solutionsfeature.NewHandler(
			deps.MongoDatabase,
			previewBroker,
			hooks,
			appCfg.ExtractWebhookURL,
			errLog,
			logger,
		)
		ar.Mount("/solutions", solutionsfeature.Routes(solutionsHandler, sessionMgr))

		iconsHandler := iconsfeature.NewHandler(deps.MongoDatabase, deps.MediaStorage, errLog, logger)
		ar.Mount("/icons", iconsfeature.Routes(iconsHandler, sessionMgr))
	})

	return r, nil
}
