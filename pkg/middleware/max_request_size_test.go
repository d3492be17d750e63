package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMaxRequestSize_RejectsDeclaredOversizeBody(t *testing.T) {
	handler := MaxRequestSize(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for an oversize body")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/holds", strings.NewReader(strings.Repeat("a", 64)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", rec.Code)
	}
}

func TestMaxRequestSize_CapsUndeclaredBody(t *testing.T) {
	var readErr error
	handler := MaxRequestSize(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	// No declared Content-Length, so the cap has to bite on read.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/holds", strings.NewReader(strings.Repeat("a", 64)))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var maxBytesErr *http.MaxBytesError
	if !errors.As(readErr, &maxBytesErr) {
		t.Errorf("expected MaxBytesError from the capped body, got %v", readErr)
	}
}

func TestMaxRequestSize_PassesBodyWithinLimit(t *testing.T) {
	var got []byte
	handler := MaxRequestSize(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		got, err = io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("unexpected read error: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/holds", strings.NewReader(`{"session_id":"abc"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if string(got) != `{"session_id":"abc"}` {
		t.Errorf("body mangled in flight: %q", got)
	}
}
