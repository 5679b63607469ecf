package ecs

import "fmt"

// EntityId identifies an entity by the archetype it lives in and its slot
// within that archetype. Moving an entity between archetypes (adding or
// removing a component) gives it a new id.
type EntityId uint64

const indexBits = 32

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(archetypeId)<<indexBits | EntityId(index)
}

func (e EntityId) ArchetypeId() uint32 { return uint32(e >> indexBits) }

func (e EntityId) Index() uint32 { return uint32(e) }

func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}
