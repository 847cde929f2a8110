package agents

import (
	"errors"
	"strings"

	"github.com/agentdash/backend/internal/models"
)

// ErrNotFound is returned when no resolution strategy matches the lookup key.
// Distinct from ErrMissingAgentType: a well-formed identifier may still
// correspond to no existing record.
var ErrNotFound = errors.New("agent not found")

// Resolve finds the agent addressed by lookupKey within a normalized snapshot
// of one organization's agents. The key may be a composite identifier, a bare
// agent_id, or a bare agent_type; strategies are tried in order and the first
// hit wins:
//
//  1. exact primary-key match (case-sensitive)
//  2. case-insensitive agent_id match
//  3. case-insensitive match of the agent-type decoded from the key
//  4. case-insensitive literal agent-type match
//
// Within a strategy the first occurrence in input order wins. Agent-types are
// expected to be unique per org but the backend does not enforce that, so
// duplicates are tolerated rather than rejected.
func Resolve(records []models.Agent, lookupKey string) (*models.Agent, error) {
	for i := range records {
		if records[i].ID == lookupKey {
			return &records[i], nil
		}
	}
	for i := range records {
		if records[i].AgentID != "" && strings.EqualFold(records[i].AgentID, lookupKey) {
			return &records[i], nil
		}
	}
	if typ, ok := DecodeAgentType(lookupKey); ok && typ != "" {
		for i := range records {
			if strings.EqualFold(records[i].AgentType, typ) {
				return &records[i], nil
			}
		}
	}
	for i := range records {
		if strings.EqualFold(records[i].AgentType, lookupKey) {
			return &records[i], nil
		}
	}
	return nil, ErrNotFound
}
