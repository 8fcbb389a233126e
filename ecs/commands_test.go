package ecs_test

import (
	"errors"
	"testing"

	"github.com/plus3/behave/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commandBehavior queues whatever queue does for each processed entity.
type commandBehavior struct {
	queue func(c *ecs.Commands, e *ecs.Entity)
}

func (b *commandBehavior) Update(frame *ecs.UpdateFrame, entities []*ecs.Entity) {
	for _, e := range entities {
		b.queue(frame.Commands, e)
	}
}

func runWithCommands(t *testing.T, queue func(c *ecs.Commands, e *ecs.Entity)) (*ecs.Runner, *ecs.Entity, error) {
	t.Helper()
	runner := newTestRunner()
	require.NoError(t, ecs.RegisterBehavior(runner, &commandBehavior{queue: queue}))

	e, err := ecs.NewEntity(runner)
	require.NoError(t, err)
	_, err = ecs.Add(e, Position{X: 1, Y: 2})
	require.NoError(t, err)
	require.NoError(t, ecs.Start[*commandBehavior](e))

	return runner, e, runner.Update(1)
}

func TestCommands(t *testing.T) {
	t.Run("add components", func(t *testing.T) {
		_, e, err := runWithCommands(t, func(c *ecs.Commands, e *ecs.Entity) {
			ecs.AddLater(c, e, Velocity{DX: 5, DY: 10})
		})
		require.NoError(t, err)

		vel, err := ecs.Get[Velocity](e)
		require.NoError(t, err)
		assert.Equal(t, Velocity{DX: 5, DY: 10}, vel)
	})

	t.Run("set components", func(t *testing.T) {
		_, e, err := runWithCommands(t, func(c *ecs.Commands, e *ecs.Entity) {
			ecs.SetLater(c, e, Position{X: 7})
		})
		require.NoError(t, err)

		pos, _ := ecs.Get[Position](e)
		assert.Equal(t, float32(7), pos.X)
	})

	t.Run("remove components", func(t *testing.T) {
		_, e, err := runWithCommands(t, func(c *ecs.Commands, e *ecs.Entity) {
			ecs.RemoveLater[Position](c, e)
		})
		require.NoError(t, err)
		assert.False(t, ecs.Contains[Position](e))
	})

	t.Run("start and stop behaviors", func(t *testing.T) {
		runner, e, err := runWithCommands(t, func(c *ecs.Commands, e *ecs.Entity) {
			ecs.StartLater[*Mover](c, e)
			ecs.StopLater[*commandBehavior](c, e)
		})
		require.NoError(t, err)

		assert.True(t, ecs.Running[*Mover](e))
		assert.False(t, ecs.Running[*commandBehavior](e))

		require.NoError(t, runner.Update(1))
		mover, _ := ecs.BehaviorOf[*Mover](runner)
		assert.Len(t, mover.Calls, 1)
	})

	t.Run("priority", func(t *testing.T) {
		_, e, err := runWithCommands(t, func(c *ecs.Commands, e *ecs.Entity) {
			c.SetPriority(e, ecs.First)
		})
		require.NoError(t, err)
		assert.Equal(t, ecs.First, e.Priority())
	})

	t.Run("deferred functions run after mutations", func(t *testing.T) {
		var seen bool
		_, e, err := runWithCommands(t, func(c *ecs.Commands, e *ecs.Entity) {
			c.Defer(func() {
				seen = ecs.Contains[Health](e)
			})
			ecs.AddLater(c, e, Health{Current: 1, Max: 1})
		})
		require.NoError(t, err)
		assert.True(t, seen)
		assert.True(t, ecs.Contains[Health](e))
	})

	t.Run("failures are joined and do not stop the queue", func(t *testing.T) {
		custom := errors.New("custom")
		_, e, err := runWithCommands(t, func(c *ecs.Commands, e *ecs.Entity) {
			ecs.AddLater(c, e, Position{})
			c.Queue(func() error { return custom })
			ecs.AddLater(c, e, Velocity{DX: 1})
		})

		assert.ErrorIs(t, err, ecs.ErrDuplicateComponent)
		assert.ErrorIs(t, err, custom)
		assert.True(t, ecs.Contains[Velocity](e))
	})

	t.Run("buffer resets after flush", func(t *testing.T) {
		c := &ecs.Commands{}
		c.Queue(func() error { return nil })
		c.Defer(func() {})
		assert.Equal(t, 2, c.Len())

		require.NoError(t, c.Flush())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("commands queued outside update apply on flush", func(t *testing.T) {
		runner := newTestRunner()
		e, _ := ecs.NewEntity(runner)
		c := &ecs.Commands{}

		ecs.AddLater(c, e, Score(1))
		assert.False(t, ecs.Contains[Score](e))

		require.NoError(t, c.Flush())
		assert.True(t, ecs.Contains[Score](e))
	})
}
