package ecs

import (
	"cmp"
	"iter"
	"slices"
)

type row[T any] struct {
	id   EntityId
	data T
}

// Query is a View whose results are snapshotted once per frame. Systems
// declare Query fields; the Scheduler initializes them and calls Execute
// before each run, so entities spawned by the system's own commands show up
// on the next frame.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	// archetypes matching the view, in id order, valid while seen equals
	// the storage's archetype count.
	archetypes []*Archetype
	seen       int

	rows     []row[T]
	executed bool
}

// NewQuery creates a Query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the Query to storage, dropping any cached state.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypes = nil
	q.seen = -1
	q.rows = q.rows[:0]
	q.executed = false
}

// Execute snapshots the matching entities.
func (q *Query[T]) Execute() {
	if n := len(q.storage.archetypes); n != q.seen {
		q.archetypes = q.archetypes[:0]
		for _, a := range q.storage.archetypes {
			if q.view.matchesArchetype(a) {
				q.archetypes = append(q.archetypes, a)
			}
		}
		slices.SortFunc(q.archetypes, func(a, b *Archetype) int {
			return cmp.Compare(a.id, b.id)
		})
		q.seen = n
	}

	q.rows = q.rows[:0]
	for _, a := range q.archetypes {
		for id, data := range q.view.iterArchetype(a) {
			q.rows = append(q.rows, row[T]{id: id, data: data})
		}
	}
	q.executed = true
}

// Iter yields the entities captured by the last Execute.
// It panics if Execute has never run.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustExecute()
	return func(yield func(EntityId, T) bool) {
		for _, r := range q.rows {
			if !yield(r.id, r.data) {
				return
			}
		}
	}
}

// Values is Iter without entity ids.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustExecute()
	return func(yield func(T) bool) {
		for _, r := range q.rows {
			if !yield(r.data) {
				return
			}
		}
	}
}

// Len returns the number of entities matched at the last Execute.
func (q *Query[T]) Len() int {
	return len(q.rows)
}

func (q *Query[T]) mustExecute() {
	if !q.executed {
		panic("ecs: query used before Execute")
	}
}
