package agents

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/agentdash/backend/internal/backend"
	"github.com/agentdash/backend/internal/middleware"
	"github.com/agentdash/backend/internal/models"
	"github.com/agentdash/backend/internal/schema"
)

type Handler struct {
	svc       Service
	validator *schema.Validator
	log       *slog.Logger
}

// NewHandler serves the /api/v1/agents endpoints. validator may be nil, in
// which case write payloads are forwarded unvalidated.
func NewHandler(svc Service, validator *schema.Validator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, validator: validator, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps resolution and backend failures onto HTTP replies. Upstream
// errors keep their original status and body so callers can diagnose them;
// only transport-level failures collapse to 502.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, `{"error":"agent not found"}`, http.StatusNotFound)
	case errors.Is(err, ErrMissingAgentType):
		http.Error(w, `{"error":"agent type could not be determined from identifier"}`, http.StatusBadRequest)
	case errors.As(err, &apiErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.Status)
		_, _ = w.Write(apiErr.Body)
	default:
		h.log.Error("backend request failed", "error", err)
		http.Error(w, `{"error":"backend unavailable"}`, http.StatusBadGateway)
	}
}

// orgID comes from the org_id query parameter, falling back to the token's
// org_id claim.
func orgID(r *http.Request) string {
	if org := r.URL.Query().Get("org_id"); org != "" {
		return org
	}
	return middleware.OrgFromCtx(r.Context())
}

// List handles GET /api/v1/agents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	org := orgID(r)
	if org == "" {
		http.Error(w, `{"error":"org_id is required"}`, http.StatusBadRequest)
		return
	}
	agents, err := h.svc.ListByOrg(r.Context(), middleware.TokenFromCtx(r.Context()), org)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if agents == nil {
		agents = []models.Agent{}
	}
	writeJSON(w, http.StatusOK, agents)
}

// Get handles GET /api/v1/agents/{agentID}. The path value may be a composite
// identifier, a bare agent_id, or a bare agent_type.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	org := orgID(r)
	if org == "" {
		http.Error(w, `{"error":"org_id is required"}`, http.StatusBadRequest)
		return
	}
	agent, err := h.svc.Lookup(r.Context(), middleware.TokenFromCtx(r.Context()), org, r.PathValue("agentID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// Create handles POST /api/v1/agents.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		http.Error(w, `{"error":"request body required"}`, http.StatusBadRequest)
		return
	}
	if err := h.validate(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	agent, err := h.svc.Create(r.Context(), middleware.TokenFromCtx(r.Context()), body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

// Update handles PUT /api/v1/agents/{agentID}. The backend is addressed by
// the agent-type embedded in the identifier, never by one asserted in the
// body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		http.Error(w, `{"error":"request body required"}`, http.StatusBadRequest)
		return
	}
	if err := h.validate(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	agent, err := h.svc.Update(r.Context(), middleware.TokenFromCtx(r.Context()), r.PathValue("agentID"), body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// Delete handles DELETE /api/v1/agents/{agentID}. An agent_type query
// parameter serves as fallback for identifiers that decode to nothing.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromCtx(r.Context())
	if err := h.svc.Delete(r.Context(), token, r.PathValue("agentID"), r.URL.Query().Get("agent_type")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) validate(body []byte) error {
	if h.validator == nil {
		return nil
	}
	return h.validator.Validate("agent", body)
}
