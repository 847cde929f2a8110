package models

import (
	"encoding/json"
	"time"
)

// Agent is a single agent record as served by the backend. The backend store
// is schema-less and returns the storage-assigned primary key under either
// "id" or "_id" depending on which code path wrote the record; UnmarshalJSON
// unifies the two so the rest of the codebase only ever sees ID.
type Agent struct {
	ID        string          `json:"id"`
	OrgID     string          `json:"org_id,omitempty"`
	AgentID   string          `json:"agent_id,omitempty"`
	AgentType string          `json:"agent_type"`
	Config    json.RawMessage `json:"config,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// UnmarshalJSON decodes an agent record, preferring "id" over "_id" for the
// primary key. Decoding an already-normalized record is a no-op, so the
// adapter is idempotent.
func (a *Agent) UnmarshalJSON(data []byte) error {
	type alias Agent
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.MongoID
	}
	return nil
}
