package agents

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/agentdash/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Stub backend client
// ---------------------------------------------------------------------------

type backendCall struct {
	method string
	path   string
	token  string
}

type stubBackend struct {
	calls  []backendCall
	agents []models.Agent
	err    error
}

func (s *stubBackend) JSON(_ context.Context, method, path, token string, body, out any) error {
	s.calls = append(s.calls, backendCall{method: method, path: path, token: token})
	if s.err != nil {
		return s.err
	}
	switch v := out.(type) {
	case *[]models.Agent:
		*v = s.agents
	case *models.Agent:
		*v = models.Agent{ID: "stored", AgentType: "sales"}
	}
	return nil
}

func (s *stubBackend) lastCall(t *testing.T) backendCall {
	t.Helper()
	if len(s.calls) == 0 {
		t.Fatal("expected a backend call")
	}
	return s.calls[len(s.calls)-1]
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestServiceListByOrg(t *testing.T) {
	stub := &stubBackend{agents: []models.Agent{{ID: "a", AgentType: "sales"}}}
	svc := NewService(stub)

	got, err := svc.ListByOrg(context.Background(), "tok", "org1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("unexpected agents: %+v", got)
	}
	call := stub.lastCall(t)
	if call.method != http.MethodGet || call.path != "/agents/org/org1" {
		t.Errorf("called %s %s, want GET /agents/org/org1", call.method, call.path)
	}
	if call.token != "tok" {
		t.Errorf("token %q not forwarded", call.token)
	}
}

func TestServiceLookup(t *testing.T) {
	stub := &stubBackend{agents: []models.Agent{
		{ID: "a", AgentType: "sales"},
		{ID: "b", AgentType: "Billing-Bot"},
	}}
	svc := NewService(stub)

	got, err := svc.Lookup(context.Background(), "tok", "org1", "org1-billing-bot-1700000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "b" {
		t.Errorf("resolved ID %q, want %q", got.ID, "b")
	}
}

func TestServiceLookup_NotFound(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub)
	if _, err := svc.Lookup(context.Background(), "tok", "org1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestServiceUpdate_DecodedTypeBeatsBody(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub)

	body := json.RawMessage(`{"agent_type":"hijacked","config":{}}`)
	if _, err := svc.Update(context.Background(), "tok", "org1-sales-bot-1700000000", body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := stub.lastCall(t)
	if call.method != http.MethodPut || call.path != "/agents/sales-bot" {
		t.Errorf("called %s %s, want PUT /agents/sales-bot", call.method, call.path)
	}
}

func TestServiceUpdate_BodyTypeAsFallback(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub)

	body := json.RawMessage(`{"agent_type":"support"}`)
	if _, err := svc.Update(context.Background(), "tok", "standalone", body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call := stub.lastCall(t); call.path != "/agents/support" {
		t.Errorf("called %s, want /agents/support", call.path)
	}
}

func TestServiceUpdate_MissingAgentType(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub)

	if _, err := svc.Update(context.Background(), "tok", "standalone", json.RawMessage(`{}`)); !errors.Is(err, ErrMissingAgentType) {
		t.Fatalf("err = %v, want ErrMissingAgentType", err)
	}
	if len(stub.calls) != 0 {
		t.Errorf("expected no backend call, got %d", len(stub.calls))
	}
}

func TestServiceDelete(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub)

	if err := svc.Delete(context.Background(), "tok", "o1-x", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := stub.lastCall(t)
	if call.method != http.MethodDelete || call.path != "/agents/x" {
		t.Errorf("called %s %s, want DELETE /agents/x", call.method, call.path)
	}
}

func TestServiceDelete_MissingAgentType(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub)
	if err := svc.Delete(context.Background(), "tok", "", ""); !errors.Is(err, ErrMissingAgentType) {
		t.Fatalf("err = %v, want ErrMissingAgentType", err)
	}
}
