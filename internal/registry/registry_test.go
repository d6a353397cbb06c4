package registry_test

import (
	"errors"
	"testing"

	"dealership-chat-router/internal/model"
	"dealership-chat-router/internal/registry"
)

func testProfiles() []registry.AgentProfile {
	return []registry.AgentProfile{
		{ID: "sales-agent", DisplayName: "Sales", IntentLabels: []string{"purchase", "test-drive"}, Priority: 5},
		{ID: "inventory-agent", DisplayName: "Inventory", IntentLabels: []string{"vehicle-search"}, Priority: 1},
		{ID: "general-agent", DisplayName: "General", IntentLabels: []string{"greeting"}, Priority: 10},
	}
}

func TestNew(t *testing.T) {
	t.Run("Valid Registry", func(t *testing.T) {
		reg, err := registry.New(testProfiles(), "general-agent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := len(reg.List()); got != 3 {
			t.Errorf("expected 3 agents, got %d", got)
		}
		if reg.Default().ID != "general-agent" {
			t.Errorf("expected general-agent default, got %s", reg.Default().ID)
		}
	})

	t.Run("Empty Registry", func(t *testing.T) {
		_, err := registry.New(nil, "general-agent")
		if !errors.Is(err, registry.ErrEmptyRegistry) {
			t.Errorf("expected ErrEmptyRegistry, got %v", err)
		}
	})

	t.Run("Duplicate ID", func(t *testing.T) {
		profiles := append(testProfiles(), registry.AgentProfile{ID: "sales-agent", Priority: 7})
		_, err := registry.New(profiles, "general-agent")
		if !errors.Is(err, registry.ErrDuplicateAgentID) {
			t.Errorf("expected ErrDuplicateAgentID, got %v", err)
		}
	})

	t.Run("Unknown Default", func(t *testing.T) {
		_, err := registry.New(testProfiles(), "missing-agent")
		if !errors.Is(err, registry.ErrDefaultAgentUnknown) {
			t.Errorf("expected ErrDefaultAgentUnknown, got %v", err)
		}
	})

	t.Run("Reserved Escalation ID", func(t *testing.T) {
		profiles := append(testProfiles(), registry.AgentProfile{ID: model.AgentHumanEscalation, Priority: 99})
		_, err := registry.New(profiles, "general-agent")
		if !errors.Is(err, registry.ErrReservedAgentID) {
			t.Errorf("expected ErrReservedAgentID, got %v", err)
		}
	})
}

func TestListOrder(t *testing.T) {
	reg, err := registry.New(testProfiles(), "general-agent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Priority asc: inventory(1), sales(5), general(10)
	want := []string{"inventory-agent", "sales-agent", "general-agent"}
	got := reg.IDs()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestLabels(t *testing.T) {
	reg, err := registry.New(testProfiles(), "general-agent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	labels := reg.Labels()
	seen := make(map[string]bool)
	for _, l := range labels {
		if seen[l] {
			t.Errorf("duplicate label %q", l)
		}
		seen[l] = true
	}
	for _, want := range []string{"vehicle-search", "purchase", "test-drive", "greeting"} {
		if !seen[want] {
			t.Errorf("missing label %q", want)
		}
	}
}

func TestGet(t *testing.T) {
	reg, err := registry.New(testProfiles(), "general-agent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := reg.Get("inventory-agent"); !ok {
		t.Errorf("expected inventory-agent to be registered")
	}
	if _, ok := reg.Get("unknown-agent"); ok {
		t.Errorf("expected unknown-agent lookup to fail")
	}
}
