// Package proxy forwards dashboard routes that need no transformation beyond
// bearer forwarding and optional _id→id aliasing straight to the backend.
package proxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agentdash/backend/internal/backend"
	"github.com/agentdash/backend/internal/middleware"
)

// Doer is the subset of the backend client the proxy needs.
type Doer interface {
	Do(ctx context.Context, method, path, token string, body io.Reader) (*backend.Response, error)
}

// Handler relays requests under a mount prefix to the backend, returning the
// upstream status and body verbatim.
type Handler struct {
	client  Doer
	strip   string
	aliasID bool
	log     *slog.Logger
}

// New returns a pass-through handler. stripPrefix is the local mount point
// removed before forwarding (e.g. "/api/v1" so /api/v1/campaigns hits the
// backend's /campaigns). When aliasID is set, JSON responses have their "_id"
// field rewritten to "id".
func New(client Doer, stripPrefix string, aliasID bool, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{client: client, strip: stripPrefix, aliasID: aliasID, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, h.strip)
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}

	var body io.Reader
	if r.ContentLength != 0 {
		body = r.Body
	}

	resp, err := h.client.Do(r.Context(), r.Method, path, middleware.TokenFromCtx(r.Context()), body)
	if err != nil {
		h.log.Error("proxy request failed", "method", r.Method, "path", path, "error", err)
		http.Error(w, `{"error":"backend unavailable"}`, http.StatusBadGateway)
		return
	}

	out := resp.Body
	if h.aliasID && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		out = AliasID(out)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(out)
}
