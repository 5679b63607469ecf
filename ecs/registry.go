package ecs

import "reflect"

// ComponentRegistry records which component types a Storage may hold and how
// to build their columns. Each Storage has its own registry, so independent
// worlds can coexist in one process.
type ComponentRegistry struct {
	columns map[reflect.Type]func() column
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		columns: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent makes T usable as a component. Registering a type twice is harmless.
// Types may be registered after the Storage is created, as long as it happens
// before the first entity carrying them is spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.columns[reflect.TypeFor[T]()] = func() column {
		return &typedColumn[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.columns[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	build, ok := r.columns[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return build()
}
