package ecs

import "reflect"

// ComponentRegistry holds per-kind metadata for a runner: the debug names printed by
// Entity.String and the set of transient kinds that are dropped when an entity is
// rebuilt from saved components. Each Runner owns one registry; several runners may
// share a registry when they use the same component kinds.
type ComponentRegistry struct {
	kinds map[reflect.Type]kindInfo
}

type kindInfo struct {
	name      string
	transient bool
}

// ComponentOption configures a component kind at registration.
type ComponentOption func(*kindInfo)

// Named overrides the debug name of a kind.
func Named(name string) ComponentOption {
	return func(k *kindInfo) {
		k.name = name
	}
}

// Transient marks a kind as derived data (bounds, visibility and the like) that is
// recomputed rather than restored from saved components.
func Transient() ComponentOption {
	return func(k *kindInfo) {
		k.transient = true
	}
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		kinds: make(map[reflect.Type]kindInfo),
	}
}

// RegisterComponent records metadata for component kind T.
// Registration is optional; unregistered kinds print their Go type name.
func RegisterComponent[T any](r *ComponentRegistry, opts ...ComponentOption) {
	t := reflect.TypeFor[T]()
	if t.Implements(behaviorType) {
		panic("behavior kind " + t.String() + " cannot be registered as a component")
	}

	info := kindInfo{name: typeName(t)}
	for _, opt := range opts {
		opt(&info)
	}
	r.kinds[t] = info
}

// RegisterBehaviorName records the debug name used for behavior kind B.
func RegisterBehaviorName[B Behavior](r *ComponentRegistry, name string) {
	r.kinds[reflect.TypeFor[B]()] = kindInfo{name: name}
}

func (r *ComponentRegistry) nameOf(t reflect.Type) string {
	if info, ok := r.kinds[t]; ok {
		return info.name
	}
	return typeName(t)
}

func (r *ComponentRegistry) isTransient(t reflect.Type) bool {
	return r.kinds[t].transient
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + typeName(t.Elem())
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
