// Package chat proxies the public chat widget to the assistant webhook.
//
// The endpoint is a JSON API used by anonymous visitors, so it sits
// outside CSRF protection. The webhook URL and the visitor's session id
// never reach the page; the handler is the only party talking upstream.
package chat

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/jsonutil"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/webhooks"
)

// maxMessageLen caps a single chat message.
const maxMessageLen = 4000

// Handler provides the chat proxy handler.
type Handler struct {
	hooks      *webhooks.Client
	webhookURL string
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new chat Handler.
func NewHandler(hooks *webhooks.Client, webhookURL string, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		hooks:      hooks,
		webhookURL: webhookURL,
		errLog:     errLog,
		logger:     logger,
	}
}

// Routes returns a chi.Router with chat routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.send)
	return r
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	if h.webhookURL == "" {
		jsonutil.Error(w, http.StatusServiceUnavailable, "chat is not configured")
		return
	}

	var req chatRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		jsonutil.BadRequest(w, "message is required")
		return
	}
	if len(message) > maxMessageLen {
		jsonutil.BadRequest(w, "message is too long")
		return
	}

	body, err := h.hooks.PostJSON(r.Context(), h.webhookURL, map[string]string{
		"message":   message,
		"sessionId": req.SessionID,
	})
	if err != nil {
		h.errLog.Log(r, "chat webhook call failed", err)
		jsonutil.BadGateway(w, "assistant is unavailable")
		return
	}

	reply, err := webhooks.ParseChatReply(body)
	if err != nil {
		h.errLog.Log(r, "chat webhook returned unusable payload", err)
		jsonutil.BadGateway(w, "assistant is unavailable")
		return
	}

	jsonutil.OK(w, map[string]string{"output": reply})
}
