package ecs

import (
	"slices"

	"github.com/google/uuid"
)

// SavedEntity is the persistence hand-off for one entity. Behavior subscriptions are not
// part of it: code that restores an entity starts its behaviors again.
type SavedEntity struct {
	ID         uuid.UUID `yaml:"id"`
	Name       string    `yaml:"name"`
	Active     bool      `yaml:"active"`
	Priority   Priority  `yaml:"priority"`
	Tags       []string  `yaml:"tags,omitempty"`
	Components []any     `yaml:"components"`
}

// ComponentsForSaving returns the component values that should be persisted, in
// insertion order. Entities built with WithSaveFilter leave out what the filter rejects.
func (e *Entity) ComponentsForSaving() []any {
	out := make([]any, 0, len(e.components))
	for _, s := range e.components {
		v := s.value()
		if e.saveFilter != nil && !e.saveFilter(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Save captures the entity for persistence.
func (e *Entity) Save() SavedEntity {
	return SavedEntity{
		ID:         e.uuid,
		Name:       e.name,
		Active:     e.active,
		Priority:   e.priority,
		Tags:       slices.Clone(e.tags),
		Components: e.ComponentsForSaving(),
	}
}

// Snapshot saves every active entity in registration order.
func (r *Runner) Snapshot() []SavedEntity {
	out := make([]SavedEntity, 0, r.active.len())
	for _, e := range r.active.items {
		out = append(out, e.Save())
	}
	return out
}

// Restore rebuilds a saved entity in r. Transient kinds are dropped as in
// NewEntityFromComponents; opts are applied after the saved settings.
func Restore(r *Runner, saved SavedEntity, opts ...EntityOption) (*Entity, error) {
	base := []EntityOption{
		WithID(saved.ID),
		WithPriority(saved.Priority),
		WithTags(saved.Tags...),
	}
	if saved.Name != "" {
		base = append(base, WithName(saved.Name))
	}
	if !saved.Active {
		base = append(base, Inactive())
	}
	return NewEntityFromComponents(r, saved.Components, append(base, opts...)...)
}
