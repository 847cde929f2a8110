package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/agentdash/backend/internal/models"
)

// BackendClient is the subset of the backend client the service needs.
type BackendClient interface {
	JSON(ctx context.Context, method, path, token string, body, out any) error
}

// Service resolves and mutates agents through the backend.
type Service interface {
	ListByOrg(ctx context.Context, token, orgID string) ([]models.Agent, error)
	Lookup(ctx context.Context, token, orgID, key string) (*models.Agent, error)
	Create(ctx context.Context, token string, body json.RawMessage) (*models.Agent, error)
	Update(ctx context.Context, token, identifier string, body json.RawMessage) (*models.Agent, error)
	Delete(ctx context.Context, token, identifier, fallbackType string) error
}

// service is stateless: every lookup runs against a freshly fetched snapshot
// of the org's agents, with no caching between requests.
type service struct {
	backend BackendClient
}

func NewService(backend BackendClient) *service {
	return &service{backend: backend}
}

// Ensure service implements Service at compile time.
var _ Service = (*service)(nil)

// ListByOrg fetches the full agent collection for one organization. Records
// are normalized (id/_id unified) during decoding.
func (s *service) ListByOrg(ctx context.Context, token, orgID string) ([]models.Agent, error) {
	var agents []models.Agent
	if err := s.backend.JSON(ctx, http.MethodGet, "/agents/org/"+url.PathEscape(orgID), token, nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// Lookup resolves a composite identifier, agent_id, or agent_type to a single
// agent within the org. Returns ErrNotFound when no strategy matches.
func (s *service) Lookup(ctx context.Context, token, orgID, key string) (*models.Agent, error) {
	records, err := s.ListByOrg(ctx, token, orgID)
	if err != nil {
		return nil, err
	}
	return Resolve(records, key)
}

// Create forwards a new agent definition to the backend and returns the
// stored record.
func (s *service) Create(ctx context.Context, token string, body json.RawMessage) (*models.Agent, error) {
	var created models.Agent
	if err := s.backend.JSON(ctx, http.MethodPost, "/agents", token, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update routes a PUT to the backend by the agent-type embedded in the
// identifier. The body's agent_type is only a fallback for identifiers that
// decode to nothing: the backend indexes agents by type, so trusting a new
// caller-supplied type would address the wrong resource or mint a duplicate.
func (s *service) Update(ctx context.Context, token, identifier string, body json.RawMessage) (*models.Agent, error) {
	typ, err := AgentTypeForMutation(identifier, gjson.GetBytes(body, "agent_type").String())
	if err != nil {
		return nil, err
	}
	var updated models.Agent
	if err := s.backend.JSON(ctx, http.MethodPut, "/agents/"+url.PathEscape(typ), token, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete routes a DELETE by the identifier's embedded agent-type.
// fallbackType applies only when the identifier yields no type.
func (s *service) Delete(ctx context.Context, token, identifier, fallbackType string) error {
	typ, err := AgentTypeForMutation(identifier, fallbackType)
	if err != nil {
		return err
	}
	return s.backend.JSON(ctx, http.MethodDelete, "/agents/"+url.PathEscape(typ), token, nil, nil)
}
