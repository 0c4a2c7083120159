package login

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	userstore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/user"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/authutil"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/normalize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// Handler provides login handlers.
type Handler struct {
	userStore  *userstore.Store
	sessionMgr *auth.SessionManager
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new login Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		userStore:  userstore.New(db),
		sessionMgr: sessionMgr,
		errLog:     errLog,
		logger:     logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

// Routes returns a chi.Router with login routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showLogin)
	r.Post("/", h.handleLogin)
	return r
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in: straight to the dashboard.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	vm := LoginVM{
		BaseVM:    viewdata.New(r),
		ReturnURL: r.URL.Query().Get("return"),
	}
	vm.Title = "Sign In"
	templates.Render(w, r, "login/index", vm)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	returnURL := strings.TrimSpace(r.FormValue("return"))

	renderError := func(msg string) {
		vm := LoginVM{
			BaseVM:    viewdata.New(r),
			Error:     msg,
			Email:     email,
			ReturnURL: returnURL,
		}
		vm.Title = "Sign In"
		templates.Render(w, r, "login/index", vm)
	}

	if email == "" || password == "" {
		renderError("Email and password are required.")
		return
	}

	u, err := h.userStore.GetByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.errLog.Log(r, "failed to look up user for login", err)
		}
		// Same message for unknown account and wrong password.
		renderError("Invalid email or password.")
		return
	}

	if u.Status != models.StatusActive || !authutil.CheckPassword(password, u.PasswordHash) {
		renderError("Invalid email or password.")
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, u.ID, u.Email, u.Role, ""); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		renderError("Sign in failed. Please try again.")
		return
	}

	h.logger.Info("user signed in", zap.String("user_id", u.ID.Hex()))
	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/admin"), http.StatusSeeOther)
}
