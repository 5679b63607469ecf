package ecs

import "reflect"

const pageSize = 64

// column holds the values of one component type for every slot of an
// archetype. Which slots are occupied is tracked by the archetype.
type column interface {
	set(index int, value any)
	clear(index int)
	get(index int) any
}

// typedColumn stores values in fixed-size pages so pointers handed out by get
// stay valid while the column grows.
type typedColumn[T any] struct {
	pages []*[pageSize]T
}

func (c *typedColumn[T]) set(index int, value any) {
	var v T
	switch value := value.(type) {
	case T:
		v = value
	case *T:
		v = *value
	default:
		panic("component column: value of type " + reflect.TypeOf(value).String() +
			" does not match " + reflect.TypeFor[T]().String())
	}

	page := index / pageSize
	for page >= len(c.pages) {
		c.pages = append(c.pages, new([pageSize]T))
	}
	c.pages[page][index%pageSize] = v
}

func (c *typedColumn[T]) clear(index int) {
	page := index / pageSize
	if page < len(c.pages) {
		var zero T
		c.pages[page][index%pageSize] = zero
	}
}

func (c *typedColumn[T]) get(index int) any {
	page := index / pageSize
	if index < 0 || page >= len(c.pages) {
		return nil
	}
	return &c.pages[page][index%pageSize]
}
