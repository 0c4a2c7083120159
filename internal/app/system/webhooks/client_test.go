package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestClient_PostJSON(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"output": "ok"}`))
	}))
	defer srv.Close()

	c := New(zap.NewNop())
	resp, err := c.PostJSON(context.Background(), srv.URL, map[string]string{"message": "hi", "sessionId": "abc"})
	if err != nil {
		t.Fatalf("PostJSON() error: %v", err)
	}
	if gotBody["message"] != "hi" {
		t.Errorf("server received message %q", gotBody["message"])
	}
	if !strings.Contains(string(resp), "ok") {
		t.Errorf("response = %s", resp)
	}
}

func TestClient_PostJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(zap.NewNop())
	if _, err := c.PostJSON(context.Background(), srv.URL, map[string]string{}); err == nil {
		t.Error("PostJSON() on 502 returned nil error")
	}
}

func TestClient_PostMultipartFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()

		if header.Filename != "report.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "%PDF-fake" {
			t.Errorf("file content = %q", data)
		}
		if got := r.FormValue("user_email"); got != "ops@example.com" {
			t.Errorf("user_email = %q", got)
		}
		w.Write([]byte(`{"output": "{}"}`))
	}))
	defer srv.Close()

	c := New(zap.NewNop())
	_, err := c.PostMultipartFile(context.Background(), srv.URL, "file", "report.pdf",
		strings.NewReader("%PDF-fake"), map[string]string{"user_email": "ops@example.com"})
	if err != nil {
		t.Fatalf("PostMultipartFile() error: %v", err)
	}
}
