package ecs_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/plus3/behave/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentsForSaving(t *testing.T) {
	t.Run("returns components in insertion order", func(t *testing.T) {
		e, _ := ecs.NewEntity(newTestRunner())
		ecs.Add(e, Position{X: 1})
		ecs.Add(e, Bounds{W: 2})
		ecs.Add(e, Health{Current: 3})

		assert.Equal(t, []any{Position{X: 1}, Bounds{W: 2}, Health{Current: 3}}, e.ComponentsForSaving())
	})

	t.Run("save filter leaves out derived state", func(t *testing.T) {
		e, _ := ecs.NewEntity(newTestRunner(), ecs.WithSaveFilter(func(c any) bool {
			_, derived := c.(Velocity)
			return !derived
		}))
		ecs.Add(e, Position{X: 1})
		ecs.Add(e, Velocity{DX: 1})

		assert.Equal(t, []any{Position{X: 1}}, e.ComponentsForSaving())
		assert.Equal(t, 2, e.NumComponents())
	})
}

func TestSnapshotRestore(t *testing.T) {
	source := newTestRunner()

	earth, _ := ecs.NewEntity(source, ecs.WithName("Earth"), ecs.WithPriority(ecs.Higher), ecs.WithTags("planet"))
	ecs.Add(earth, Position{X: 5})
	ecs.Add(earth, Bounds{W: 1, H: 1})
	ecs.Start[*Mover](earth)

	hidden, _ := ecs.NewEntity(source)
	hidden.SetActive(false)

	snapshot := source.Snapshot()
	require.Len(t, snapshot, 1)

	saved := snapshot[0]
	assert.Equal(t, earth.ID(), saved.ID)
	assert.Equal(t, "Earth", saved.Name)
	assert.True(t, saved.Active)
	assert.Equal(t, ecs.Higher, saved.Priority)
	assert.Equal(t, []string{"planet"}, saved.Tags)

	target := newTestRunner()
	restored, err := ecs.Restore(target, saved)
	require.NoError(t, err)

	assert.Equal(t, earth.ID(), restored.ID())
	assert.Equal(t, "Earth", restored.Name())
	assert.Equal(t, ecs.Higher, restored.Priority())
	assert.Equal(t, []*ecs.Entity{restored}, target.Tagged("planet"))
	assert.False(t, ecs.Contains[Bounds](restored))
	assert.False(t, ecs.Running[*Mover](restored))

	pos, err := ecs.Get[Position](restored)
	require.NoError(t, err)
	assert.Equal(t, float32(5), pos.X)

	t.Run("inactive entities restore inactive", func(t *testing.T) {
		saved := hidden.Save()
		restored, err := ecs.Restore(newTestRunner(), saved)
		require.NoError(t, err)
		assert.False(t, restored.IsActive())
	})

	t.Run("options override saved settings", func(t *testing.T) {
		id := uuid.New()
		restored, err := ecs.Restore(newTestRunner(), saved, ecs.WithID(id), ecs.WithPriority(ecs.Last))
		require.NoError(t, err)
		assert.Equal(t, id, restored.ID())
		assert.Equal(t, ecs.Last, restored.Priority())
	})
}

func TestPriorityText(t *testing.T) {
	for _, p := range []ecs.Priority{ecs.First, ecs.Higher, ecs.Normal, ecs.Lower, ecs.Last} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var parsed ecs.Priority
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, p, parsed)
	}

	var p ecs.Priority
	assert.Error(t, p.UnmarshalText([]byte("Urgent")))
	assert.Equal(t, "Priority(9)", ecs.Priority(9).String())
}
