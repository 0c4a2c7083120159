// Package dashboard provides the admin landing page.
package dashboard

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	iconstore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/icon"
	poststore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/post"
	servicestore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/service"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
)

// Handler provides dashboard handlers.
type Handler struct {
	postStore    *poststore.Store
	serviceStore *servicestore.Store
	iconStore    *iconstore.Store
	errLog       *errorsfeature.ErrorLogger
	logger       *zap.Logger
}

// NewHandler creates a new dashboard Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		postStore:    poststore.New(db),
		serviceStore: servicestore.New(db),
		iconStore:    iconstore.New(db),
		errLog:       errLog,
		logger:       logger,
	}
}

// DashboardVM is the view model for the admin dashboard.
type DashboardVM struct {
	viewdata.BaseVM
	PostCount    int64
	ServiceCount int64
	IconCount    int64
}

// Routes returns a chi.Router with dashboard routes mounted. The caller
// applies the auth middleware.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showDashboard)
	return r
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vm := DashboardVM{BaseVM: viewdata.New(r)}
	vm.Title = "Dashboard"

	var err error
	if vm.PostCount, err = h.postStore.Count(ctx); err != nil {
		h.errLog.Log(r, "failed to count posts", err)
	}
	if vm.ServiceCount, err = h.serviceStore.Count(ctx); err != nil {
		h.errLog.Log(r, "failed to count services", err)
	}
	if vm.IconCount, err = h.iconStore.Count(ctx); err != nil {
		h.errLog.Log(r, "failed to count icon assets", err)
	}

	templates.Render(w, r, "dashboard/index", vm)
}
