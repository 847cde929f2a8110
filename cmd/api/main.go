package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/agentdash/backend/internal/agents"
	"github.com/agentdash/backend/internal/backend"
	"github.com/agentdash/backend/internal/middleware"
	"github.com/agentdash/backend/internal/proxy"
	"github.com/agentdash/backend/internal/router"
	"github.com/agentdash/backend/internal/schema"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://localhost:9000"
	}

	timeout := 15 * time.Second
	if raw := os.Getenv("REQUEST_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	client := backend.NewClient(backendURL, timeout)
	slog.Info("Backend client configured", "url", backendURL, "timeout", timeout)

	schemaDir := os.Getenv("SCHEMA_DIR")
	if schemaDir == "" {
		schemaDir = "schemas"
	}
	validator, err := schema.NewValidator(schemaDir)
	if err != nil {
		slog.Warn("Schema validator init failed (write validation disabled)", "error", err)
		validator = nil
	}
	if validator != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := validator.Watch(ctx, logger); err != nil {
				slog.Error("Schema watcher stopped", "error", err)
			}
		}()
	}

	agentsSvc := agents.NewService(client)
	agentsHandler := agents.NewHandler(agentsSvc, validator, logger)

	resourceProxy := proxy.New(client, "/api/v1", true, logger)
	loginProxy := proxy.New(client, "/api/v1", false, logger)

	apiRouter := router.New(agentsHandler, resourceProxy, loginProxy)
	handler := middleware.RequestID(middleware.AccessLog(logger)(apiRouter))

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Fallback for local development
	}
	serverAddr := "0.0.0.0:" + port

	slog.Info("Starting HTTP server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
