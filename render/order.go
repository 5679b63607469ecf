package render

import (
	"cmp"
	"slices"

	"github.com/plus3/ecstour/ecs"
)

type drawItem struct {
	id   ecs.EntityId
	body string
	size float64
}

// sortByEntity orders items by entity id so text keeps its on-screen position
// across frames regardless of archetype iteration order.
func sortByEntity(items []drawItem) {
	slices.SortFunc(items, func(a, b drawItem) int {
		return cmp.Compare(a.id, b.id)
	})
}
