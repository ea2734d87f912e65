package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	StoreMilvus        = "milvus"
	StoreQdrant        = "qdrant"
	StorePgvector      = "pgvector"
	StoreElasticsearch = "elasticsearch"
	StoreMemory        = "memory"
	StoreAPI           = "api"

	DefaultTopK        = 10
	DefaultConcurrency = 4
)

var validStoreTypes = map[string]bool{
	StoreMilvus:        true,
	StoreQdrant:        true,
	StorePgvector:      true,
	StoreElasticsearch: true,
	StoreMemory:        true,
	StoreAPI:           true,
}

func LoadFromFile(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*EvalSpec, error) {
	var s EvalSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks store and job references and fills in defaults.
func (s *EvalSpec) Validate() error {
	if len(s.Jobs) == 0 {
		return fmt.Errorf("spec has no jobs")
	}
	if len(s.Stores) == 0 {
		return fmt.Errorf("spec has no stores")
	}

	for name, st := range s.Stores {
		if st.Type == "" {
			return fmt.Errorf("store %q has no type", name)
		}
		if !validStoreTypes[st.Type] {
			return fmt.Errorf("store %q has invalid type %q", name, st.Type)
		}
		if st.Connection == "" && st.Type != StoreMemory {
			return fmt.Errorf("store %q has no connection", name)
		}
	}

	for i := range s.Jobs {
		j := &s.Jobs[i]
		if j.Name == "" {
			return fmt.Errorf("job at index %d has no name", i)
		}
		if j.Qrels == "" {
			return fmt.Errorf("job %q has no qrels", j.Name)
		}
		if len(j.Stores) == 0 {
			return fmt.Errorf("job %q has no stores", j.Name)
		}
		for _, ref := range j.Stores {
			if _, ok := s.Stores[ref]; !ok {
				return fmt.Errorf("job %q references unknown store %q", j.Name, ref)
			}
		}
		if j.TopK <= 0 {
			j.TopK = DefaultTopK
		}
	}

	if s.Runs.Warmup < 0 {
		s.Runs.Warmup = 0
	}
	if s.Runs.Concurrency <= 0 {
		s.Runs.Concurrency = DefaultConcurrency
	}
	return nil
}
