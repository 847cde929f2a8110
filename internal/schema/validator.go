// Package schema validates write payloads against JSON schemas loaded from a
// schema directory, one *.json file per resource.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type Validator struct {
	dir string

	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every *.json file in schemaDir. The resource name is
// the filename without extension and optional version suffix: "agent.v1.json"
// validates the "agent" resource.
func NewValidator(schemaDir string) (*Validator, error) {
	v := &Validator{dir: schemaDir}
	if err := v.Reload(); err != nil {
		return nil, err
	}
	return v, nil
}

// Reload recompiles all schemas from the directory. Concurrent Validate calls
// see either the old or the new set, never a partial one.
func (v *Validator) Reload() error {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return fmt.Errorf("read schema dir %q: %w", v.dir, err)
	}
	schemas := make(map[string]*jsonschema.Schema)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		resource := strings.TrimSuffix(e.Name(), ".json")
		resource = strings.TrimSuffix(resource, ".v1")
		path := filepath.Join(v.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %q: %w", path, err)
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(e.Name(), bytes.NewReader(data)); err != nil {
			return fmt.Errorf("add %q: %w", path, err)
		}
		compiled, err := compiler.Compile(e.Name())
		if err != nil {
			return fmt.Errorf("compile %q: %w", path, err)
		}
		schemas[resource] = compiled
	}
	v.mu.Lock()
	v.schemas = schemas
	v.mu.Unlock()
	return nil
}

// Validate checks payload against the resource's schema. Resources without a
// schema pass: validation here is a light gate, not the source of truth.
func (v *Validator) Validate(resource string, payload []byte) error {
	v.mu.RLock()
	s := v.schemas[resource]
	v.mu.RUnlock()
	if s == nil {
		return nil
	}
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%s payload invalid: %w", resource, err)
	}
	return nil
}
