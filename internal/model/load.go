package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes an onEnter action from a flat attribute map. The
// type attribute selects the effect; everything else passes through verbatim
// so hosts can carry effect-specific attributes the engine does not know.
func (a *OnEnterAction) UnmarshalYAML(value *yaml.Node) error {
	raw := map[string]string{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	a.Type = raw["type"]
	delete(raw, "type")
	a.Attrs = raw
	return nil
}

// MarshalYAML re-emits the flat attribute map.
func (a OnEnterAction) MarshalYAML() (any, error) {
	out := map[string]string{}
	for k, v := range a.Attrs {
		out[k] = v
	}
	if a.Type != "" {
		out["type"] = a.Type
	}
	return out, nil
}

// Load parses a model document. A document that fails to parse or validate
// returns an error; callers treat that load attempt as fatal and fall back
// to an empty model.
func Load(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model document: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads and parses a model document from disk.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model document: %w", err)
	}
	return Load(data)
}

// Validate checks the model invariants: non-empty slide ids, unique slide
// ids, and task ids unique within their slide.
func (m *Model) Validate() error {
	seen := map[string]struct{}{}
	for i, s := range m.Slides {
		if s.ID == "" {
			return fmt.Errorf("slide %d: missing id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate slide id %q", s.ID)
		}
		seen[s.ID] = struct{}{}

		taskSeen := map[string]struct{}{}
		for j, t := range s.Tasks {
			if t.ID == "" {
				return fmt.Errorf("slide %q: task %d: missing id", s.ID, j)
			}
			if _, dup := taskSeen[t.ID]; dup {
				return fmt.Errorf("slide %q: duplicate task id %q", s.ID, t.ID)
			}
			taskSeen[t.ID] = struct{}{}
		}
	}
	return nil
}
