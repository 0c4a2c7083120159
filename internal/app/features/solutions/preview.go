package solutions

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/jsonutil"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/preview"
)

const maxSnapshotSize = 1 << 20

func previewChannel(id string) string {
	if id == "" {
		id = "draft"
	}
	return "solution:" + id
}

// publishPreview pushes the form's current field snapshot to the broker.
func (h *Handler) publishPreview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotSize))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid snapshot")
		return
	}

	var req struct {
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &req); err != nil || len(req.Data) == 0 {
		jsonutil.BadRequest(w, "Invalid snapshot")
		return
	}

	err = h.broker.Publish(preview.Snapshot{
		Channel: previewChannel(req.ID),
		Kind:    "solution",
		Data:    req.Data,
	})
	if err != nil {
		jsonutil.InternalError(w, "Preview is unavailable")
		return
	}

	jsonutil.OK(w, map[string]bool{"ok": true})
}

// previewStream holds an SSE subscription open for the preview panel.
func (h *Handler) previewStream(w http.ResponseWriter, r *http.Request) {
	h.broker.ServeSSE(w, r, previewChannel(r.URL.Query().Get("id")))
}
