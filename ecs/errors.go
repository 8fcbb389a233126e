package ecs

import (
	"errors"
	"reflect"
)

var (
	// ErrNoActiveRunner is returned when an entity is created or mutated without a live runner.
	ErrNoActiveRunner = errors.New("ecs: no active runner")

	// ErrComponentNotFound is matched by every ComponentNotFoundError.
	ErrComponentNotFound = errors.New("ecs: component not found")

	// ErrNullComponent is returned when a nil value is added or set as a component.
	ErrNullComponent = errors.New("ecs: component is nil")

	// ErrBehaviorAsComponent is returned when a behavior instance is added as data.
	ErrBehaviorAsComponent = errors.New("ecs: behavior cannot be added as a component")

	// ErrDuplicateComponent is returned by Add when the entity already holds the kind. Use Set instead.
	ErrDuplicateComponent = errors.New("ecs: component kind already present")

	// ErrDuplicateBehavior is returned by RegisterBehavior when the kind already has a singleton.
	ErrDuplicateBehavior = errors.New("ecs: behavior kind already registered")

	// ErrMutationDuringUpdate is returned by structural mutations issued while the runner
	// is inside its update pass.
	ErrMutationDuringUpdate = errors.New("ecs: structural mutation during update")
)

// ComponentNotFoundError reports the kind that Get or Ref could not find.
type ComponentNotFoundError struct {
	Kind reflect.Type
	Name string
}

func (e *ComponentNotFoundError) Error() string {
	return "ecs: component not found: " + e.Name
}

func (e *ComponentNotFoundError) Unwrap() error {
	return ErrComponentNotFound
}
