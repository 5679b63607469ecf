package ecs_test

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ecstour/ecs"
)

func countTags(storage *ecs.Storage) map[Tag]int {
	counts := make(map[Tag]int)
	for item := range ecs.NewView[struct{ *Tag }](storage).Values() {
		counts[*item.Tag]++
	}
	return counts
}

func TestCommands(t *testing.T) {
	registry := newTestRegistry()

	t.Run("operations are deferred until flush", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		existing := storage.Spawn(Tag("old"))

		frame := &ecs.UpdateFrame{Storage: storage, Commands: &ecs.Commands{}}
		frame.Commands.Spawn(Tag("new"))
		frame.Commands.Delete(existing)
		assert.Equal(t, 2, frame.Commands.Len())
		assert.Equal(t, map[Tag]int{"old": 1}, countTags(storage))

		frame.Commands.Flush(storage)
		assert.Equal(t, map[Tag]int{"new": 1}, countTags(storage))
		assert.Zero(t, frame.Commands.Len())
	})

	t.Run("flush applies in submission order", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		cmds := &ecs.Commands{}

		var order []string
		cmds.Defer(func() { order = append(order, "first:"+strconv.Itoa(len(countTags(storage)))) })
		cmds.Spawn(Tag("a"))
		cmds.Defer(func() { order = append(order, "second:"+strconv.Itoa(len(countTags(storage)))) })
		cmds.Flush(storage)

		assert.Equal(t, []string{"first:0", "second:1"}, order)
	})

	t.Run("delete before spawn does not remove the spawned entity", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		victim := storage.Spawn(Tag("a"))

		cmds := &ecs.Commands{}
		cmds.Delete(victim)
		cmds.Spawn(Tag("a"))
		// The spawn above reuses the freed slot, so it gets the victim's id back.
		cmds.Delete(victim)
		cmds.Flush(storage)

		assert.Equal(t, map[Tag]int{"a": 1}, countTags(storage))
	})

	t.Run("component changes on deleted entities are dropped", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		id := storage.Spawn(Position{X: 1}, Velocity{})

		cmds := &ecs.Commands{}
		cmds.Delete(id)
		cmds.AddComponent(id, Health{Current: 1})
		cmds.RemoveComponent(id, reflect.TypeFor[Velocity]())
		cmds.Flush(storage)

		assert.Equal(t, 0, storage.CollectStats().TotalEntityCount)
	})

	t.Run("add and remove components", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		a := storage.Spawn(Position{X: 1})
		b := storage.Spawn(Position{X: 2}, Velocity{DX: 1})

		cmds := &ecs.Commands{}
		cmds.AddComponent(a, Health{Current: 7, Max: 10})
		cmds.RemoveComponent(b, reflect.TypeFor[Velocity]())
		cmds.Flush(storage)

		healthy := 0
		for item := range ecs.NewView[struct {
			*Position
			*Health
		}](storage).Values() {
			healthy++
			assert.Equal(t, float32(1), item.Position.X)
		}
		assert.Equal(t, 1, healthy)

		moving := 0
		for range ecs.NewView[struct{ *Velocity }](storage).Iter() {
			moving++
		}
		assert.Zero(t, moving)
	})

	t.Run("spawn without components panics", func(t *testing.T) {
		require.Panics(t, func() { (&ecs.Commands{}).Spawn() })
	})
}
