package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View represents a query for entities with a specific combination of components.
// The type T should be a struct with embedded pointer fields for each component type.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
// A field of type EntityId (embedded or named) is filled with the entity's ID.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr

	hasId    bool
	idOffset uintptr
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		storage:     storage,
		types:       make([]reflect.Type, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityIdType {
			v.hasId = true
			v.idOffset = field.Offset
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId")
		}

		v.types = append(v.types, fieldType.Elem())
		v.fieldOffset = append(v.fieldOffset, field.Offset)

		// Embedded fields are always required
		isOptional := false
		if !field.Anonymous {
			if tag := field.Tag.Get("ecs"); tag != "" {
				if tag != "optional" {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
				isOptional = true
			}
		}
		v.optional = append(v.optional, isOptional)
	}

	return v
}

// Fill populates the provided struct pointer with component data for the given entity.
// Returns false if the entity is missing any required components.
// Optional components are set to nil if not present.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Has(id.Index()) {
		return false
	}

	return v.fill(unsafe.Pointer(ptr), archetype, id.Index(), v.columnsFor(archetype))
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, typ := range v.types {
		if !v.optional[i] && !archetype.HasComponent(typ) {
			return false
		}
	}
	return true
}

// columnsFor maps each view field to the archetype column holding it, or nil.
func (v *View[T]) columnsFor(archetype *Archetype) []column {
	cols := make([]column, len(v.types))
	for i, typ := range v.types {
		if idx, ok := archetype.columnOf[typ]; ok {
			cols[i] = archetype.columns[idx]
		}
	}
	return cols
}

func (v *View[T]) fill(dst unsafe.Pointer, archetype *Archetype, index uint32, cols []column) bool {
	for i, col := range cols {
		field := (*unsafe.Pointer)(unsafe.Add(dst, v.fieldOffset[i]))
		if col == nil {
			if !v.optional[i] {
				return false
			}
			*field = nil
			continue
		}

		component := col.get(int(index))
		*field = (*iface)(unsafe.Pointer(&component)).data
	}

	if v.hasId {
		*(*EntityId)(unsafe.Add(dst, v.idOffset)) = NewEntityId(archetype.id, index)
	}
	return true
}

// iterArchetype yields the entities of a single archetype that satisfy the view.
func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if archetype.Len() == 0 {
			return
		}

		cols := v.columnsFor(archetype)
		var result T
		for index := range archetype.indices() {
			if !v.fill(unsafe.Pointer(&result), archetype, index, cols) {
				continue
			}
			if !yield(NewEntityId(archetype.id, index), result) {
				return
			}
		}
	}
}

// Iter returns an iterator over all entities that have all the required components for this view.
// Archetype order is unspecified; within an archetype entities are visited by index.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.archetypes {
			if !v.matchesArchetype(archetype) {
				continue
			}

			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
