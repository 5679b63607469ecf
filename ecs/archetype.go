package ecs

import (
	"cmp"
	"iter"
	"math/bits"
	"reflect"
	"slices"
)

// Archetype stores every entity that has exactly the same set of component
// types. Entity indices are slots: stable for the entity's lifetime and reused
// after it is deleted.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	columns  []column
	columnOf map[reflect.Type]int

	occupied []uint64
	free     []uint32
	next     uint32
	live     int
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		columns:  make([]column, len(types)),
		columnOf: make(map[reflect.Type]int, len(types)),
	}
	for i, typ := range types {
		a.columns[i] = registry.newColumn(typ)
		a.columnOf[typ] = i
	}
	return a
}

// Spawn stores components in a free slot and returns the slot index.
// components must hold one value (or pointer) per archetype type.
func (a *Archetype) Spawn(components []any) uint32 {
	index := a.allocate()
	for _, comp := range components {
		col, ok := a.columnOf[componentType(comp)]
		if !ok {
			panic("component " + componentType(comp).String() + " does not belong to this archetype")
		}
		a.columns[col].set(int(index), comp)
	}
	return index
}

func (a *Archetype) allocate() uint32 {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = a.next
		a.next++
	}

	word := int(index / 64)
	for word >= len(a.occupied) {
		a.occupied = append(a.occupied, 0)
	}
	a.occupied[word] |= 1 << (index % 64)
	a.live++
	return index
}

// GetComponent returns a pointer to the component of the given type for the
// entity at entityIndex, or nil.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	col, ok := a.columnOf[compType]
	if !ok || !a.Has(entityIndex) {
		return nil
	}
	return a.columns[col].get(int(entityIndex))
}

// Has reports whether an entity currently occupies entityIndex.
func (a *Archetype) Has(entityIndex uint32) bool {
	word := int(entityIndex / 64)
	return word < len(a.occupied) && a.occupied[word]&(1<<(entityIndex%64)) != 0
}

// Delete frees the entity's slot. Other entities keep their indices.
func (a *Archetype) Delete(entityIndex uint32) bool {
	if !a.Has(entityIndex) {
		return false
	}

	for _, col := range a.columns {
		col.clear(int(entityIndex))
	}
	a.occupied[entityIndex/64] &^= 1 << (entityIndex % 64)
	a.free = append(a.free, entityIndex)
	a.live--
	return true
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	_, ok := a.columnOf[compType]
	return ok
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype.
func (a *Archetype) Len() int {
	return a.live
}

// indices yields occupied slots in ascending order.
func (a *Archetype) indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for w, word := range a.occupied {
			for word != 0 {
				bit := bits.TrailingZeros64(word)
				word &^= 1 << bit
				if !yield(uint32(w*64 + bit)) {
					return
				}
			}
		}
	}
}

// Iter returns an iterator over the IDs of the archetype's live entities.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for index := range a.indices() {
			if !yield(NewEntityId(a.id, index)) {
				return
			}
		}
	}
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// sortTypes orders component types canonically so equal sets hash equally.
func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		if c := cmp.Compare(a.String(), b.String()); c != 0 {
			return c
		}
		return cmp.Compare(typeId(a), typeId(b))
	})
}
