package registry

import (
	"fmt"
	"sort"

	"dealership-chat-router/internal/model"
)

// Registry is the static catalog of available agents. Read-only after New,
// so concurrent reads need no locking.
type Registry struct {
	agents     []AgentProfile
	byID       map[string]AgentProfile
	defaultID  string
	labelUnion []string
}

// New validates the profile set and builds the registry.
// The default agent is the destination for low-confidence and degraded
// decisions and must be one of the registered profiles.
func New(profiles []AgentProfile, defaultAgentID string) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, ErrEmptyRegistry
	}

	byID := make(map[string]AgentProfile, len(profiles))
	for _, p := range profiles {
		if p.ID == model.AgentHumanEscalation {
			return nil, fmt.Errorf("%w: %q", ErrReservedAgentID, p.ID)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAgentID, p.ID)
		}
		byID[p.ID] = p
	}

	if _, ok := byID[defaultAgentID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrDefaultAgentUnknown, defaultAgentID)
	}

	agents := make([]AgentProfile, len(profiles))
	copy(agents, profiles)
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Priority != agents[j].Priority {
			return agents[i].Priority < agents[j].Priority
		}
		return agents[i].ID < agents[j].ID
	})

	var labels []string
	seen := make(map[string]struct{})
	for _, a := range agents {
		for _, l := range a.IntentLabels {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			labels = append(labels, l)
		}
	}

	return &Registry{
		agents:     agents,
		byID:       byID,
		defaultID:  defaultAgentID,
		labelUnion: labels,
	}, nil
}

// List returns all profiles in priority order.
func (r *Registry) List() []AgentProfile {
	out := make([]AgentProfile, len(r.agents))
	copy(out, r.agents)
	return out
}

// Get looks up a profile by agent id.
func (r *Registry) Get(id string) (AgentProfile, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Default returns the configured fallback agent.
func (r *Registry) Default() AgentProfile {
	return r.byID[r.defaultID]
}

// Labels returns the union of all intent labels, the candidate set passed to
// the classifier.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.labelUnion))
	copy(out, r.labelUnion)
	return out
}

// IDs returns all registered agent ids in priority order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a.ID)
	}
	return out
}
