package ecs_test

import (
	"strconv"
	"testing"

	"github.com/plus3/behave/ecs"
)

func BenchmarkNewEntity(b *testing.B) {
	runner := newTestRunner()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.NewEntity(runner)
	}
}

func BenchmarkAddComponents(b *testing.B) {
	runner := newTestRunner()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e, _ := ecs.NewEntity(runner)
		ecs.Add(e, Position{X: 1.0, Y: 2.0})
		ecs.Add(e, Velocity{DX: 0.5, DY: 0.5})
		ecs.Add(e, Health{Current: 100, Max: 100})
	}
}

func BenchmarkGet(b *testing.B) {
	e, _ := ecs.NewEntity(newTestRunner())
	ecs.Add(e, Position{X: 1.0, Y: 2.0})
	ecs.Add(e, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ecs.Get[Velocity](e)
	}
}

func BenchmarkGetInterface(b *testing.B) {
	e, _ := ecs.NewEntity(newTestRunner())
	ecs.Add(e, Position{X: 1.0, Y: 2.0})
	ecs.Add[Shape](e, Circle{R: 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ecs.Get[Shape](e)
	}
}

func BenchmarkStartStop(b *testing.B) {
	runner := newTestRunner()
	entities := make([]*ecs.Entity, 1000)
	for i := range entities {
		entities[i], _ = ecs.NewEntity(runner)
		ecs.Start[*Mover](entities[i])
	}
	e, _ := ecs.NewEntity(runner, ecs.WithPriority(ecs.Higher))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.Start[*Mover](e)
		ecs.Stop[*Mover](e)
	}
}

func BenchmarkUpdate(b *testing.B) {
	for _, count := range []int{100, 10000} {
		runner := newTestRunner()
		priorities := []ecs.Priority{ecs.First, ecs.Normal, ecs.Last}
		for i := 0; i < count; i++ {
			e, _ := ecs.NewEntity(runner, ecs.WithPriority(priorities[i%len(priorities)]))
			ecs.Add(e, Position{})
			ecs.Add(e, Velocity{DX: 1, DY: 1})
			ecs.Add(e, Health{Current: 1, Max: 100})
			ecs.Start[*Healer](e)
		}

		b.Run(strconv.Itoa(count)+"_entities", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				runner.Update(1.0 / 60)
			}
		})
	}
}
