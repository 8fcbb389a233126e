package ecs

import (
	"reflect"
	"slices"
)

// Get returns the component of kind T. For an interface T it returns the first component,
// in insertion order, that implements T. A missing kind yields a *ComponentNotFoundError.
func Get[T any](e *Entity) (T, error) {
	t := reflect.TypeFor[T]()
	i := e.findKind(t)
	if i < 0 {
		var zero T
		return zero, e.notFound(t)
	}
	return e.components[i].value().(T), nil
}

// GetOrDefault returns the component of kind T, or def when the entity has none.
func GetOrDefault[T any](e *Entity, def T) T {
	i := e.findKind(reflect.TypeFor[T]())
	if i < 0 {
		return def
	}
	return e.components[i].value().(T)
}

// Contains reports whether the entity holds a component of kind T.
func Contains[T any](e *Entity) bool {
	return e.findKind(reflect.TypeFor[T]()) >= 0
}

// Ref returns a pointer to the stored component of concrete kind T. Writing through it
// is not a structural change, so behaviors may use it during an update pass. The pointer
// stays valid until the component is replaced with Set or removed.
func Ref[T any](e *Entity) (*T, error) {
	t := reflect.TypeFor[T]()
	i, ok := e.index[t]
	if !ok {
		return nil, e.notFound(t)
	}
	return e.components[i].ptr.Interface().(*T), nil
}

// Add appends component and returns the entity for chaining. It fails when the runner is
// updating, when component is nil or a Behavior, or when a component of the same kind is
// already present. A failed Add leaves the entity unchanged.
func Add[T any](e *Entity, component T) (*Entity, error) {
	if err := e.runner.checkMutable("add"); err != nil {
		return e, err
	}
	if err := e.validate(component, reflect.TypeFor[T]()); err != nil {
		return e, err
	}
	e.appendComponent(reflect.ValueOf(component))
	return e, nil
}

// Set replaces the component of kind T, or appends it when absent.
func Set[T any](e *Entity, component T) error {
	if err := e.runner.checkMutable("set"); err != nil {
		return err
	}
	if isNil(component) {
		return ErrNullComponent
	}
	if _, ok := any(component).(Behavior); ok {
		return ErrBehaviorAsComponent
	}

	value := reflect.ValueOf(component)
	if i, ok := e.index[value.Type()]; ok {
		e.replaceAt(i, value)
		return nil
	}
	if i := e.findKind(reflect.TypeFor[T]()); i >= 0 {
		delete(e.index, e.components[i].kind)
		e.replaceAt(i, value)
		return nil
	}
	e.appendComponent(value)
	return nil
}

// replaceAt stores value in a fresh box so pointers from Ref to the old value are not
// rewritten behind the caller's back.
func (e *Entity) replaceAt(i int, value reflect.Value) {
	box := reflect.New(value.Type())
	box.Elem().Set(value)
	e.components[i] = slot{kind: value.Type(), ptr: box}
	e.index[value.Type()] = i
}

// Remove drops every component matching kind T. Removing an absent kind is a no-op.
func Remove[T any](e *Entity) error {
	if err := e.runner.checkMutable("remove"); err != nil {
		return err
	}
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Interface {
		if _, ok := e.index[t]; !ok {
			return nil
		}
		e.removeWhere(func(s slot) bool { return s.kind == t })
		return nil
	}
	e.removeWhere(func(s slot) bool { return s.kind.Implements(t) })
	return nil
}

// Start subscribes the entity to behavior kind B, creating the singleton on first use.
// Starting an already running behavior is a no-op.
func Start[B Behavior](e *Entity) error {
	if err := e.runner.checkMutable("start"); err != nil {
		return err
	}
	list, err := behaviorFor[B](e.runner)
	if err != nil {
		return err
	}
	if slices.Contains(e.behaviors, list) {
		return nil
	}
	e.runner.subscribe(list, e)
	return nil
}

// Stop unsubscribes the entity from behavior kind B. Stopping a behavior that is not
// running is a no-op.
func Stop[B Behavior](e *Entity) error {
	if err := e.runner.checkMutable("stop"); err != nil {
		return err
	}
	t := reflect.TypeFor[B]()
	for _, list := range e.behaviors {
		if list.kind == t {
			e.runner.unsubscribe(list, e)
			return nil
		}
	}
	return nil
}

// Running reports whether the entity is subscribed to behavior kind B.
func Running[B Behavior](e *Entity) bool {
	t := reflect.TypeFor[B]()
	for _, list := range e.behaviors {
		if list.kind == t {
			return true
		}
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
