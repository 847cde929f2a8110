package router

import (
	"net/http"

	"github.com/agentdash/backend/internal/agents"
	"github.com/agentdash/backend/internal/middleware"
)

// Pass-through resources forwarded to the backend with _id→id aliasing.
var proxiedResources = []string{"audiences", "campaigns", "phone-numbers", "users"}

// New returns an http.Handler that serves the dashboard API under /api/v1.
// Every route except login requires a bearer credential; login is how the
// client obtains one.
func New(agentsHandler *agents.Handler, resourceProxy, loginProxy http.Handler) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth
	base := "/api/v1"

	mux.Handle("GET "+base+"/agents", auth(http.HandlerFunc(agentsHandler.List)))
	mux.Handle("POST "+base+"/agents", auth(http.HandlerFunc(agentsHandler.Create)))
	mux.Handle("GET "+base+"/agents/{agentID}", auth(http.HandlerFunc(agentsHandler.Get)))
	mux.Handle("PUT "+base+"/agents/{agentID}", auth(http.HandlerFunc(agentsHandler.Update)))
	mux.Handle("DELETE "+base+"/agents/{agentID}", auth(http.HandlerFunc(agentsHandler.Delete)))

	for _, res := range proxiedResources {
		mux.Handle(base+"/"+res, auth(resourceProxy))
		mux.Handle(base+"/"+res+"/", auth(resourceProxy))
	}

	mux.Handle("POST "+base+"/auth/login", loginProxy)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}
