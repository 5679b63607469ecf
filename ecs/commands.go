package ecs

import "reflect"

type commandKind uint8

const (
	commandSpawn commandKind = iota
	commandDelete
	commandAdd
	commandRemove
	commandDefer
)

type command struct {
	kind       commandKind
	entity     EntityId
	components []any
	compType   reflect.Type
	fn         func()
}

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This prevents structural changes to the ECS storage during system execution.
// Flush applies the operations in the order they were queued.
type Commands struct {
	queue []command
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues a function to run when the buffer is flushed.
func (c *Commands) Defer(fn func()) {
	c.queue = append(c.queue, command{kind: commandDefer, fn: fn})
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}
	c.queue = append(c.queue, command{kind: commandSpawn, components: components})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.queue = append(c.queue, command{kind: commandDelete, entity: entity})
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.queue = append(c.queue, command{kind: commandAdd, entity: entity, components: []any{component}})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.queue = append(c.queue, command{kind: commandRemove, entity: entity, compType: compType})
}

// Len reports how many operations are queued.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Flush applies all queued operations to storage in submission order and resets the buffer.
// Operations addressed to an entity deleted earlier in the same flush are dropped, even if
// a later spawn in the flush reuses its slot.
func (c *Commands) Flush(storage *Storage) {
	var deleted map[EntityId]struct{}
	isDeleted := func(id EntityId) bool {
		_, ok := deleted[id]
		return ok
	}

	for _, cmd := range c.queue {
		switch cmd.kind {
		case commandSpawn:
			storage.Spawn(cmd.components...)
		case commandDelete:
			if isDeleted(cmd.entity) {
				continue
			}
			if deleted == nil {
				deleted = make(map[EntityId]struct{})
			}
			deleted[cmd.entity] = struct{}{}
			storage.Delete(cmd.entity)
		case commandAdd:
			if !isDeleted(cmd.entity) {
				storage.AddComponent(cmd.entity, cmd.components[0])
			}
		case commandRemove:
			if !isDeleted(cmd.entity) {
				storage.RemoveComponent(cmd.entity, cmd.compType)
			}
		case commandDefer:
			cmd.fn()
		}
	}

	clear(c.queue)
	c.queue = c.queue[:0]
}
