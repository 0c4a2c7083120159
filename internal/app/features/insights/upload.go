package insights

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/blobstore"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/jsonutil"
)

// uploadImage stores an editor or hero image and returns its public URL.
// On failure the form's image field is left untouched; only an error is
// returned.
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonutil.BadRequest(w, "File too large (max 32MB)")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonutil.BadRequest(w, "Please select an image to upload")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		jsonutil.BadRequest(w, "Only image files can be uploaded")
		return
	}

	path := imagePath(header.Filename, time.Now().UTC())
	opts := &blobstore.PutOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000",
	}
	if err := h.blobs.Put(r.Context(), path, file, opts); err != nil {
		h.errLog.Log(r, "failed to store image", err)
		jsonutil.InternalError(w, "Image upload failed")
		return
	}

	jsonutil.OK(w, map[string]string{"url": h.blobs.URL(path)})
}

// imagePath derives a randomized storage key preserving the original
// extension, grouped by year/month for easier bucket housekeeping.
func imagePath(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("insights/%d/%02d/%s%s", now.Year(), int(now.Month()), name, ext)
}
