package solutions

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/htmlsanitize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/jsonutil"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/markdownconv"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/webhooks"
)

// importPDF sends an uploaded PDF to the extraction webhook and returns the
// recognized solution fields as a JSON map. The form posts feature_rows, the
// number of feature rows the operator has already created; extracted
// features only overwrite those existing slots, index-aligned, and anything
// beyond that count is discarded so operator-curated structure is never
// silently expanded.
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

	if !isPDF(header.Header.Get("Content-Type"), header.Filename) {
		jsonutil.BadRequest(w, "Only PDF files can be imported")
		return
	}

	featureRows, _ := strconv.Atoi(r.FormValue("feature_rows"))

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

	jsonutil.OK(w, extractionFields(ex, featureRows))
}

// extractionFields flattens an extraction into the solution form's field
// map. Overview arrives as markdown and is converted to sanitized HTML.
// Features are truncated to the operator's existing row count; with no
// existing rows they are dropped entirely.
func extractionFields(ex *webhooks.Extraction, featureRows int) map[string]any {
	fields := make(map[string]any)
	put := func(key, val string) {
		if strings.TrimSpace(val) != "" {
			fields[key] = val
		}
	}

	put("title", ex.Title)
	put("slug", ex.Slug)
	put("description", ex.Excerpt)
	if len(ex.Technologies) > 0 {
		fields["technologies"] = ex.Technologies
	}

	if strings.TrimSpace(ex.Overview) != "" {
		if markdownconv.LooksLikeMarkdown(ex.Overview) {
			if html, err := markdownconv.ToHTML(ex.Overview); err == nil {
				fields["overview"] = html
			}
		} else {
			fields["overview"] = htmlsanitize.Sanitize(ex.Overview)
		}
	}

	if featureRows > 0 && len(ex.Features) > 0 {
		features := ex.Features
		if len(features) > featureRows {
			features = features[:featureRows]
		}
		fields["features"] = features
	}

	return fields
}

func isPDF(contentType, filename string) bool {
	if strings.EqualFold(strings.TrimSpace(contentType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
