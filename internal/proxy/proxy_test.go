package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentdash/backend/internal/backend"
)

// ---------------------------------------------------------------------------
// Stub backend
// ---------------------------------------------------------------------------

type stubDoer struct {
	method string
	path   string
	token  string
	body   string

	resp *backend.Response
	err  error
}

func (s *stubDoer) Do(_ context.Context, method, path, token string, body io.Reader) (*backend.Response, error) {
	s.method = method
	s.path = path
	s.token = token
	if body != nil {
		data, _ := io.ReadAll(body)
		s.body = string(data)
	}
	return s.resp, s.err
}

func jsonResponse(status int, body string) *backend.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return &backend.Response{Status: status, Header: h, Body: []byte(body)}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestProxyForwardsRequest(t *testing.T) {
	stub := &stubDoer{resp: jsonResponse(http.StatusOK, `{"ok":true}`)}
	h := New(stub, "/api/v1", false, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns?page=2", strings.NewReader(`{"name":"Summer"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if stub.method != http.MethodPost {
		t.Errorf("method = %q", stub.method)
	}
	if stub.path != "/campaigns?page=2" {
		t.Errorf("path = %q, want /campaigns?page=2", stub.path)
	}
	if stub.body != `{"name":"Summer"}` {
		t.Errorf("body = %q", stub.body)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestProxyPreservesUpstreamStatus(t *testing.T) {
	stub := &stubDoer{resp: jsonResponse(http.StatusUnprocessableEntity, `{"error":"bad audience"}`)}
	h := New(stub, "/api/v1", false, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audiences", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bad audience") {
		t.Errorf("upstream body not preserved: %s", rec.Body.String())
	}
}

func TestProxyAliasesID(t *testing.T) {
	stub := &stubDoer{resp: jsonResponse(http.StatusOK, `[{"_id":"u1","email":"a@b.c"}]`)}
	h := New(stub, "/api/v1", true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `"id":"u1"`) || strings.Contains(body, `"_id"`) {
		t.Errorf("aliasing not applied: %s", body)
	}
}

func TestProxyTransportErrorIs502(t *testing.T) {
	stub := &stubDoer{err: errors.New("connection refused")}
	h := New(stub, "/api/v1", false, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/phone-numbers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
