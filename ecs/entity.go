package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// EntityId is the runner-local handle used to key the runner's indices.
// Ids are never reused within a runner.
type EntityId uint64

// slot holds one component boxed behind a pointer so Ref can hand out stable addresses.
type slot struct {
	kind reflect.Type
	ptr  reflect.Value
}

func (s slot) value() any {
	return s.ptr.Elem().Interface()
}

// Entity is a bag of uniquely-typed components plus the tags, active flag, priority and
// behavior subscriptions the runner schedules it by. Entities are created through
// NewEntity and registered with their runner for their whole lifetime.
type Entity struct {
	runner *Runner
	id     EntityId
	uuid   uuid.UUID
	name   string

	components []slot
	index      map[reflect.Type]int

	tags      []string
	behaviors []*subscriberList

	active   bool
	priority Priority

	saveFilter func(component any) bool
}

// EntityOption configures an entity at construction.
type EntityOption func(*entityConfig)

type entityConfig struct {
	name       string
	id         uuid.UUID
	priority   Priority
	tags       []string
	inactive   bool
	saveFilter func(any) bool
}

// WithName sets the kind name printed by String.
func WithName(name string) EntityOption {
	return func(c *entityConfig) {
		c.name = name
	}
}

// WithID sets the persistence identity instead of generating one.
func WithID(id uuid.UUID) EntityOption {
	return func(c *entityConfig) {
		c.id = id
	}
}

// WithPriority sets the initial priority.
func WithPriority(p Priority) EntityOption {
	return func(c *entityConfig) {
		c.priority = p
	}
}

// WithTags adds initial tags.
func WithTags(tags ...string) EntityOption {
	return func(c *entityConfig) {
		c.tags = append(c.tags, tags...)
	}
}

// Inactive creates the entity outside the runner's active set.
func Inactive() EntityOption {
	return func(c *entityConfig) {
		c.inactive = true
	}
}

// WithSaveFilter restricts ComponentsForSaving to components for which keep returns true.
// Specialized entities use it to leave out derived state.
func WithSaveFilter(keep func(component any) bool) EntityOption {
	return func(c *entityConfig) {
		c.saveFilter = keep
	}
}

// NewEntity creates an empty entity and registers it as active with r.
func NewEntity(r *Runner, opts ...EntityOption) (*Entity, error) {
	return newEntity(r, nil, opts)
}

// NewEntityFromComponents creates an entity holding components, skipping kinds the
// registry marks as transient.
func NewEntityFromComponents(r *Runner, components []any, opts ...EntityOption) (*Entity, error) {
	return newEntity(r, components, opts)
}

func newEntity(r *Runner, components []any, opts []EntityOption) (*Entity, error) {
	if r == nil || r.closed {
		return nil, ErrNoActiveRunner
	}

	cfg := entityConfig{
		name:     "Entity",
		priority: Normal,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == uuid.Nil {
		cfg.id = uuid.New()
	}

	e := &Entity{
		runner:     r,
		uuid:       cfg.id,
		name:       cfg.name,
		index:      make(map[reflect.Type]int, len(components)),
		active:     !cfg.inactive,
		priority:   cfg.priority,
		saveFilter: cfg.saveFilter,
	}

	for _, component := range components {
		if component != nil && r.registry.isTransient(reflect.TypeOf(component)) {
			continue
		}
		if err := e.validate(component, nil); err != nil {
			return nil, err
		}
		e.appendComponent(reflect.ValueOf(component))
	}
	for _, tag := range cfg.tags {
		if !slices.Contains(e.tags, tag) {
			e.tags = append(e.tags, tag)
		}
	}

	e.id = r.newEntityId()
	if e.active {
		r.add(e)
	}
	return e, nil
}

// Id returns the runner-local handle.
func (e *Entity) Id() EntityId {
	return e.id
}

// ID returns the persistence identity.
func (e *Entity) ID() uuid.UUID {
	return e.uuid
}

func (e *Entity) Name() string {
	return e.name
}

func (e *Entity) Runner() *Runner {
	return e.runner
}

func (e *Entity) IsActive() bool {
	return e.active
}

// SetActive moves the entity in or out of the runner's active set and tag index.
// Components and behavior subscriptions are kept; inactive subscribers are skipped by
// the update pass until reactivated.
func (e *Entity) SetActive(active bool) error {
	if e.active == active {
		return nil
	}
	if e.runner.closed {
		return ErrNoActiveRunner
	}
	e.active = active
	if active {
		e.runner.add(e)
	} else {
		e.runner.remove(e)
	}
	return nil
}

func (e *Entity) Priority() Priority {
	return e.priority
}

// SetPriority changes the priority and moves the entity within every subscriber list it
// belongs to. Membership is unchanged.
func (e *Entity) SetPriority(p Priority) error {
	if e.priority == p {
		return nil
	}
	if err := e.runner.checkMutable("priority"); err != nil {
		return err
	}
	e.priority = p
	e.runner.changePriority(e)
	return nil
}

// AddTag adds tag once. Only active entities appear in the runner's tag index.
func (e *Entity) AddTag(tag string) error {
	if e.runner.closed {
		return ErrNoActiveRunner
	}
	if slices.Contains(e.tags, tag) {
		return nil
	}
	e.tags = append(e.tags, tag)
	if e.active {
		e.runner.addTag(e, tag)
	}
	return nil
}

func (e *Entity) RemoveTag(tag string) error {
	if e.runner.closed {
		return ErrNoActiveRunner
	}
	e.runner.removeTag(e, tag)
	e.tags = slices.DeleteFunc(e.tags, func(t string) bool {
		return t == tag
	})
	return nil
}

func (e *Entity) ClearTags() error {
	if e.runner.closed {
		return ErrNoActiveRunner
	}
	for _, tag := range e.tags {
		e.runner.removeTag(e, tag)
	}
	e.tags = e.tags[:0]
	return nil
}

func (e *Entity) ContainsTag(tag string) bool {
	return slices.Contains(e.tags, tag)
}

// Tags returns a copy of the tags in insertion order.
func (e *Entity) Tags() []string {
	return slices.Clone(e.tags)
}

func (e *Entity) NumComponents() int {
	return len(e.components)
}

// Components returns the component values in insertion order.
func (e *Entity) Components() []any {
	out := make([]any, len(e.components))
	for i, s := range e.components {
		out[i] = s.value()
	}
	return out
}

// String renders the entity for logs, e.g.
//
//	<Inactive> Earth Tags=planet: Position={5 0}, *Sprite [Move, Bounce]
func (e *Entity) String() string {
	var b strings.Builder
	if !e.active {
		b.WriteString("<Inactive> ")
	}
	b.WriteString(e.name)

	if len(e.tags) > 0 {
		b.WriteString(" Tags=")
		b.WriteString(strings.Join(e.tags, ", "))
	}

	if len(e.components) > 0 {
		b.WriteString(": ")
		for i, s := range e.components {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.runner.registry.nameOf(s.kind))
			if showsValue(s.kind) {
				fmt.Fprintf(&b, "=%v", s.value())
			}
		}
	}

	if len(e.behaviors) > 0 {
		b.WriteString(" [")
		for i, list := range e.behaviors {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(list.name)
		}
		b.WriteString("]")
	}
	return b.String()
}

func showsValue(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	}
	return true
}

func (e *Entity) validate(component any, static reflect.Type) error {
	if isNil(component) {
		return ErrNullComponent
	}
	if _, ok := component.(Behavior); ok {
		return ErrBehaviorAsComponent
	}

	kind := reflect.TypeOf(component)
	if _, ok := e.index[kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, e.runner.registry.nameOf(kind))
	}
	if static != nil && static.Kind() == reflect.Interface && e.findKind(static) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, e.runner.registry.nameOf(static))
	}
	return nil
}

func (e *Entity) appendComponent(value reflect.Value) {
	box := reflect.New(value.Type())
	box.Elem().Set(value)
	e.index[value.Type()] = len(e.components)
	e.components = append(e.components, slot{kind: value.Type(), ptr: box})
}

// findKind returns the slot of the first component matching t: an exact kind, or for an
// interface t the first component implementing it. It returns -1 when nothing matches.
func (e *Entity) findKind(t reflect.Type) int {
	if i, ok := e.index[t]; ok {
		return i
	}
	if t.Kind() != reflect.Interface {
		return -1
	}
	for i, s := range e.components {
		if s.kind.Implements(t) {
			return i
		}
	}
	return -1
}

func (e *Entity) removeWhere(match func(slot) bool) {
	e.components = slices.DeleteFunc(e.components, match)
	clear(e.index)
	for i, s := range e.components {
		e.index[s.kind] = i
	}
}

func (e *Entity) notFound(t reflect.Type) error {
	return &ComponentNotFoundError{Kind: t, Name: e.runner.registry.nameOf(t)}
}
