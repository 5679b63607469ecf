package ecs

import (
	"encoding/binary"
	"hash/fnv"
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage owns every entity and singleton of one world. It is not safe for
// concurrent use; systems reach it through the Scheduler one at a time.
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry

	// singletons are keyed by typeId; singletonOrder keeps insertion order for stats.
	singletons     *intmap.Map[int, *singletonEntry]
	singletonOrder []reflect.Type
}

type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: intmap.New[int, *singletonEntry](16),
	}
}

// Registry returns the component registry backing this storage.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// GetArchetype returns the archetype that entities built from these component
// values would live in, or nil if none has been created yet.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.archetypes[hashTypesToUint32(extractComponentTypes(components))]
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := append([]reflect.Type(nil), types...)
	sortTypes(sorted)
	return s.archetypes[hashTypesToUint32(sorted)]
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetypeId := hashTypesToUint32(types)

	archetype, exists := s.archetypes[archetypeId]
	if !exists {
		archetype = newArchetype(archetypeId, types, s.registry)
		s.archetypes[archetypeId] = archetype
	}

	entityIndex := archetype.Spawn(components)
	return NewEntityId(archetypeId, entityIndex)
}

// Delete removes all data related to the entity ID.
// Returns false if the entity was not alive.
func (s *Storage) Delete(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}

	return archetype.Delete(id.Index())
}

// Alive reports whether the entity currently exists.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	return archetype.Has(id.Index())
}

// AddComponent moves the entity to the archetype that also contains component
// and returns its new ID.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	oldArchetype := s.archetypes[id.ArchetypeId()]
	if oldArchetype == nil || !oldArchetype.Has(id.Index()) {
		return 0
	}

	compType := componentType(component)

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	for _, typ := range oldArchetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}
	newTypes = append(newTypes, compType)
	sortTypes(newTypes)

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if typ == compType {
			components = append(components, component)
		} else {
			components = append(components, oldArchetype.GetComponent(id.Index(), typ))
		}
	}

	return s.move(id, oldArchetype, newTypes, components)
}

// RemoveComponent moves the entity to the archetype without compType and returns
// its new ID. An entity left without components is deleted and 0 is returned.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	oldArchetype := s.archetypes[id.ArchetypeId()]
	if oldArchetype == nil || !oldArchetype.Has(id.Index()) {
		return 0
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types))
	for _, typ := range oldArchetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	if len(newTypes) == 0 {
		oldArchetype.Delete(id.Index())
		return 0
	}

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		components = append(components, oldArchetype.GetComponent(id.Index(), typ))
	}

	return s.move(id, oldArchetype, newTypes, components)
}

func (s *Storage) move(id EntityId, from *Archetype, types []reflect.Type, components []any) EntityId {
	archetypeId := hashTypesToUint32(types)
	to, exists := s.archetypes[archetypeId]
	if !exists {
		to = newArchetype(archetypeId, types, s.registry)
		s.archetypes[archetypeId] = to
	}

	// Spawn before deleting: components still point into the old columns.
	newIndex := to.Spawn(components)
	from.Delete(id.Index())
	return NewEntityId(archetypeId, newIndex)
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}

	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	return archetype.HasComponent(compType)
}

// AddSingleton stores value as the singleton of its type, overwriting any
// previous value in place so existing Singleton accessors stay valid.
func (s *Storage) AddSingleton(value any) {
	typ := reflect.TypeOf(value)
	if typ == nil {
		panic("cannot add nil singleton")
	}
	rv := reflect.ValueOf(value)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
		rv = rv.Elem()
	}

	if entry := s.getSingletonEntry(typ); entry != nil {
		reflect.NewAt(typ, entry.dataPtr).Elem().Set(rv)
		return
	}

	ptr := reflect.New(typ)
	ptr.Elem().Set(rv)
	s.singletons.Put(typeId(typ), &singletonEntry{
		typ:     typ,
		dataPtr: ptr.UnsafePointer(),
	})
	s.singletonOrder = append(s.singletonOrder, typ)
}

// RemoveSingleton drops the singleton of the given type.
// Singleton accessors that already resolved it keep pointing at the old value.
func (s *Storage) RemoveSingleton(typ reflect.Type) bool {
	if s.getSingletonEntry(typ) == nil {
		return false
	}
	s.singletons.Del(typeId(typ))
	for i, t := range s.singletonOrder {
		if t == typ {
			s.singletonOrder = append(s.singletonOrder[:i], s.singletonOrder[i+1:]...)
			break
		}
	}
	return true
}

// ReadSingleton points target (a **T) at the stored singleton of type T.
// Returns false if no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	typ := rv.Elem().Type().Elem()
	entry := s.getSingletonEntry(typ)
	if entry == nil {
		return false
	}

	rv.Elem().Set(reflect.NewAt(typ, entry.dataPtr))
	return true
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	entry, ok := s.singletons.Get(typeId(typ))
	if !ok {
		return nil
	}
	return entry
}

// extractComponentTypes returns the canonical, sorted type set of components.
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		if comp == nil {
			panic("nil component")
		}
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("component " + t.String() + " must be a value type")
		}
		types[i] = t
	}
	sortTypes(types)
	return types
}

// typeId is the address of the runtime type descriptor, unique per type.
func typeId(t reflect.Type) int {
	return int(uintptr((*iface)(unsafe.Pointer(&t)).data))
}

// hashTypesToUint32 folds a sorted type set into an archetype id (FNV-1a over
// each descriptor address).
func hashTypesToUint32(types []reflect.Type) uint32 {
	h := fnv.New32a()
	buf := make([]byte, 0, 8*len(types))
	for _, t := range types {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(typeId(t)))
	}
	_, _ = h.Write(buf)
	return h.Sum32()
}

// ComponentReader is anything that can look up an entity's component by type.
// Storage satisfies it.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a pointer to the entity's component of type T, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
