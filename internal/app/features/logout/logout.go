package logout

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
)

// Handler provides logout handlers.
type Handler struct {
	sessionMgr *auth.SessionManager
	logger     *zap.Logger
}

// NewHandler creates a new logout Handler.
func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		sessionMgr: sessionMgr,
		logger:     logger,
	}
}

// Routes returns a chi.Router with logout routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.handleLogout)
	r.Get("/", h.handleLogout) // simple logout links
	return r
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r); ok {
		h.logger.Info("user signed out", zap.String("user_id", user.ID))
	}

	h.sessionMgr.DestroySession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
