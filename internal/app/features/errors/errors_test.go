package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

func TestForbidden_Returns403(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/forbidden", nil)
	req = testutil.WithCSRFToken(req)
	rec := httptest.NewRecorder()

	h.Forbidden(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestNotFound_Returns404(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/notfound", nil)
	req = testutil.WithCSRFToken(req)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestInternalError_Returns500(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/error", nil)
	req = testutil.WithCSRFToken(req)
	rec := httptest.NewRecorder()

	h.InternalError(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestErrorLogger_Log(t *testing.T) {
	errLog := NewErrorLogger(zap.NewNop())
	if errLog == nil {
		t.Fatal("NewErrorLogger() returned nil")
	}

	// Should not panic
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	errLog.Log(req, "test error", nil)
	errLog.LogWithFields(req, "test error", nil, zap.String("extra", "field"))
}
