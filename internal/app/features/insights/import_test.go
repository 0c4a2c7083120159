package insights

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

// multipartPDF builds a multipart body with one file field.
func multipartPDF(t *testing.T, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 fake body")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func postImport(h *Handler, body *bytes.Buffer, contentType string) *testutil.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithUser(req, testutil.AdminUser())

	rec := testutil.NewRecorder()
	testRouter(h).ServeHTTP(rec.ResponseRecorder, req)
	return rec
}

func TestImport_FencedResponseParsed(t *testing.T) {
	inner := `{"title":"Extracted Title","slug":"extracted-title","excerpt":"Pulled from the PDF.","content":"# Heading\n\nSome **bold** text.","tags":["ai","health"]}`
	innerJSON, _ := json.Marshal("```json\n" + inner + "\n```")

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"output":` + string(innerJSON) + `}]`))
	}))
	defer upstream.Close()

	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, upstream.URL, "")

	body, contentType := multipartPDF(t, "report.pdf", "application/pdf")
	rec := postImport(h, body, contentType)
	rec.AssertStatus(t, http.StatusOK)

	var fields map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if fields["title"] != "Extracted Title" {
		t.Errorf("title = %v", fields["title"])
	}
	if fields["slug"] != "extracted-title" {
		t.Errorf("slug = %v", fields["slug"])
	}

	// Markdown content converted to sanitized HTML.
	content, _ := fields["content"].(string)
	if !strings.Contains(content, "<h1") || !strings.Contains(content, "<strong>bold</strong>") {
		t.Errorf("content not converted to HTML: %q", content)
	}

	// Absent fields are omitted so the form leaves them untouched.
	if _, present := fields["author"]; present {
		t.Error("absent author field included in response")
	}
}

func TestImport_RejectsNonPDFBeforeNetworkCall(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer upstream.Close()

	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, upstream.URL, "")

	body, contentType := multipartPDF(t, "photo.png", "image/png")
	rec := postImport(h, body, contentType)

	rec.AssertStatus(t, http.StatusBadRequest)
	if calls.Load() != 0 {
		t.Errorf("webhook called %d times for a non-PDF upload", calls.Load())
	}
}

func TestImport_UpstreamFailureIsSingleError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, upstream.URL, "")

	body, contentType := multipartPDF(t, "report.pdf", "application/pdf")
	rec := postImport(h, body, contentType)

	rec.AssertStatus(t, http.StatusBadGateway)
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("error response has no message")
	}
}

func TestImport_MissingOutputIsError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"done"}`))
	}))
	defer upstream.Close()

	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, upstream.URL, "")

	body, contentType := multipartPDF(t, "report.pdf", "application/pdf")
	rec := postImport(h, body, contentType)
	rec.AssertStatus(t, http.StatusBadGateway)
}

func TestUploadImage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="image"; filename="hero.png"`}
	hdr["Content-Type"] = []string{"image/png"}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	part.Write([]byte("not-really-a-png"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, testutil.AdminUser())

	rec := testutil.NewRecorder()
	testRouter(h).ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.Contains(resp["url"], "/media/insights/") {
		t.Errorf("url = %q, want a /media/insights/ path", resp["url"])
	}
	if !strings.HasSuffix(resp["url"], ".png") {
		t.Errorf("url = %q does not preserve the extension", resp["url"])
	}
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := testHandler(t, db, "", "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="image"; filename="report.pdf"`}
	hdr["Content-Type"] = []string{"application/pdf"}
	part, _ := mw.CreatePart(hdr)
	part.Write([]byte("%PDF"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, testutil.AdminUser())

	rec := testutil.NewRecorder()
	testRouter(h).ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
