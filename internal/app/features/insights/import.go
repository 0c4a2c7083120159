package insights

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/htmlsanitize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/jsonutil"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/markdownconv"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/webhooks"
)

// importPDF sends an uploaded PDF to the extraction webhook and returns the
// recognized fields as a JSON map. Only non-empty fields are included, so
// the form merges partial extractions without clobbering entered values.
func (h *Handler) importPDF(w http.ResponseWriter, r *http.Request) {
	if h.extractURL == "" {
		jsonutil.Error(w, http.StatusServiceUnavailable, "PDF import is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonutil.BadRequest(w, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "Please select a PDF file")
		return
	}
	defer file.Close()

	// Reject non-PDFs before any network call.
	if !isPDF(header.Header.Get("Content-Type"), header.Filename) {
		jsonutil.BadRequest(w, "Only PDF files can be imported")
		return
	}

	extra := map[string]string{}
	if user, ok := auth.CurrentUser(r); ok {
		extra["user_email"] = user.Email
	}

	body, err := h.hooks.PostMultipartFile(r.Context(), h.extractURL, "file", header.Filename, file, extra)
	if err != nil {
		h.errLog.Log(r, "extraction webhook call failed", err)
		jsonutil.BadGateway(w, "Document extraction failed")
		return
	}

	ex, err := webhooks.ParseExtraction(body)
	if err != nil {
		h.errLog.Log(r, "failed to parse extraction response", err)
		jsonutil.BadGateway(w, "Document extraction returned an unusable response")
		return
	}

	jsonutil.OK(w, extractionFields(ex))
}

// extractionFields flattens an extraction into the insight form's field map.
// Extracted content arrives as markdown and is converted to sanitized HTML.
func extractionFields(ex *webhooks.Extraction) map[string]any {
	fields := make(map[string]any)
	put := func(key, val string) {
		if strings.TrimSpace(val) != "" {
			fields[key] = val
		}
	}

	put("title", ex.Title)
	put("slug", ex.Slug)
	put("read_time", ex.ReadTime)
	put("excerpt", ex.Excerpt)
	put("author", ex.Author)
	put("category", ex.Category)
	if len(ex.Tags) > 0 {
		fields["tags"] = ex.Tags
	}

	if strings.TrimSpace(ex.Content) != "" {
		if markdownconv.LooksLikeMarkdown(ex.Content) {
			if html, err := markdownconv.ToHTML(ex.Content); err == nil {
				fields["content"] = html
			}
		} else {
			fields["content"] = htmlsanitize.Sanitize(ex.Content)
		}
	}

	return fields
}

func isPDF(contentType, filename string) bool {
	if strings.EqualFold(strings.TrimSpace(contentType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
