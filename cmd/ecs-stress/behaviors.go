package main

import (
	"math/rand"

	"github.com/plus3/behave/ecs"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Lifetime struct {
	Remaining float64
}

// Bounds is derived from Position every frame and never persisted.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float32
}

const worldSize = 1000

// Integrate moves entities by their velocity.
type Integrate struct{}

func (Integrate) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	dt := float32(frame.DeltaTime)
	for _, e := range entities {
		pos, err := ecs.Ref[Position](e)
		if err != nil {
			continue
		}
		vel := ecs.GetOrDefault(e, Velocity{})
		pos.X += vel.DX * dt
		pos.Y += vel.DY * dt
	}
}

// Wrap keeps entities inside the world and refreshes their bounds. It runs after
// Integrate so bounds always describe the final position of the frame.
type Wrap struct{}

func (*Wrap) Priority() ecs.Priority { return ecs.Lower }

func (*Wrap) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	for _, e := range entities {
		pos, err := ecs.Ref[Position](e)
		if err != nil {
			continue
		}
		pos.X = wrap(pos.X)
		pos.Y = wrap(pos.Y)

		if b, err := ecs.Ref[Bounds](e); err == nil {
			*b = Bounds{MinX: pos.X - 1, MinY: pos.Y - 1, MaxX: pos.X + 1, MaxY: pos.Y + 1}
		} else {
			ecs.AddLater(frame.Commands, e, Bounds{MinX: pos.X - 1, MinY: pos.Y - 1, MaxX: pos.X + 1, MaxY: pos.Y + 1})
		}
	}
}

func wrap(v float32) float32 {
	for v < 0 {
		v += worldSize
	}
	for v >= worldSize {
		v -= worldSize
	}
	return v
}

// Age counts lifetimes down and retires expired entities through the command buffer.
type Age struct {
	Expired int
}

func (*Age) Priority() ecs.Priority { return ecs.Last }

func (a *Age) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	for _, e := range entities {
		life, err := ecs.Ref[Lifetime](e)
		if err != nil {
			continue
		}
		life.Remaining -= frame.DeltaTime
		if life.Remaining > 0 {
			continue
		}

		a.Expired++
		_ = e.AddTag("expired")
		ecs.StopLater[Integrate](frame.Commands, e)
		ecs.StopLater[*Age](frame.Commands, e)
	}
}

func registerKinds(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Bounds](registry, ecs.Transient())
	ecs.RegisterBehaviorName[*Wrap](registry, "Wrap")
	ecs.RegisterBehaviorName[*Age](registry, "Age")
}

func spawnEntity(runner *ecs.Runner, priority ecs.Priority, lifetime float64) (*ecs.Entity, error) {
	e, err := ecs.NewEntityFromComponents(runner, []any{
		Position{X: rand.Float32() * worldSize, Y: rand.Float32() * worldSize},
		Velocity{DX: rand.Float32()*20 - 10, DY: rand.Float32()*20 - 10},
		Lifetime{Remaining: lifetime * (0.5 + rand.Float64())},
	}, ecs.WithName("Particle"), ecs.WithPriority(priority), ecs.WithTags("particle"))
	if err != nil {
		return nil, err
	}

	if err := ecs.Start[Integrate](e); err != nil {
		return nil, err
	}
	if err := ecs.Start[*Wrap](e); err != nil {
		return nil, err
	}
	if err := ecs.Start[*Age](e); err != nil {
		return nil, err
	}
	return e, nil
}
