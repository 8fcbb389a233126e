package ecs_test

import (
	"slices"

	"github.com/plus3/behave/ecs"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int
	Max     int
}

type Name string

type Score int32

// Derived markers that are recomputed instead of restored.
type Bounds struct {
	W, H float32
}

type Visibility bool

type Sprite struct {
	Image string
}

type Shape interface {
	Area() float32
}

type Circle struct {
	R float32
}

func (c Circle) Area() float32 { return 3 * c.R * c.R }

type Square struct {
	Side float32
}

func (s Square) Area() float32 { return s.Side * s.Side }

// Mover integrates Velocity into Position and records every subscriber list it sees.
type Mover struct {
	Calls [][]*ecs.Entity
}

func (m *Mover) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	m.Calls = append(m.Calls, slices.Clone(entities))
	for _, e := range entities {
		pos, err := ecs.Ref[Position](e)
		if err != nil {
			continue
		}
		vel := ecs.GetOrDefault(e, Velocity{})
		pos.X += vel.DX * float32(frame.DeltaTime)
		pos.Y += vel.DY * float32(frame.DeltaTime)
	}
}

// Healer is a second behavior kind used for ordering tests.
type Healer struct {
	Calls int
}

func (h *Healer) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	h.Calls++
	for _, e := range entities {
		if hp, err := ecs.Ref[Health](e); err == nil && hp.Current < hp.Max {
			hp.Current++
		}
	}
}

// probe runs fn against every entity it processes and keeps the errors.
type probe struct {
	fn   func(frame *ecs.UpdateFrame, e *ecs.Entity) error
	errs []error
}

func (p *probe) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	for _, e := range entities {
		p.errs = append(p.errs, p.fn(frame, e))
	}
}

// journal appends its label to a shared log whenever it runs.
type journal struct {
	label    string
	priority ecs.Priority
	log      *[]string
}

func (j *journal) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	*j.log = append(*j.log, j.label)
}

func (j *journal) Priority() ecs.Priority {
	return j.priority
}

// Distinct journal kinds so each gets its own singleton.
type (
	journalA struct{ journal }
	journalB struct{ journal }
	journalC struct{ journal }
)

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Bounds](registry, ecs.Transient())
	ecs.RegisterComponent[Visibility](registry, ecs.Transient())
	ecs.RegisterComponent[*Sprite](registry, ecs.Named("Sprite"))
	ecs.RegisterBehaviorName[*Mover](registry, "Move")
	return registry
}

func newTestRunner() *ecs.Runner {
	return ecs.NewRunner(newTestRegistry())
}

// Herald is a behavior that always runs first.
type Herald struct {
	Calls int
}

func (*Herald) Priority() ecs.Priority { return ecs.First }

func (h *Herald) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	h.Calls++
}

// Roster is a value behavior whose kind is not comparable.
type Roster struct {
	names []string
}

func (Roster) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {}
