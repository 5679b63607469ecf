package ecs

import "reflect"

// Singleton is a system field giving typed access to a resource: one value
// of type T held by the storage rather than by an entity. Timers, shared
// handles and configuration live here.
type Singleton[T any] struct {
	storage *Storage
	value   *T
}

// NewSingleton returns an accessor for T, first storing initializer (or the
// zero value) if storage has no T yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	s := new(Singleton[T])
	s.Init(storage)
	return s
}

// InsertSingleton stores value as the singleton of type T, replacing any existing value.
func InsertSingleton[T any](storage *Storage, value T) {
	storage.AddSingleton(value)
}

// Init binds the accessor to storage. The Scheduler calls it on registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.value = s.lookup()
}

// Get returns the stored value, or nil while none exists. A value inserted
// after Init is picked up on the next call.
func (s *Singleton[T]) Get() *T {
	if s.value == nil {
		s.value = s.lookup()
	}
	return s.value
}

func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) lookup() *T {
	if s.storage == nil {
		return nil
	}
	var ptr *T
	if !s.storage.ReadSingleton(&ptr) {
		return nil
	}
	return ptr
}
