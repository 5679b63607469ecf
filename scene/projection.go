package scene

import (
	"cmp"
	"iter"
	"slices"

	"github.com/plus3/ecstour/ecs"
)

// SlotView selects the scripted text entities of a scene.
type SlotView struct {
	*TextId
}

// DespawnSlot queues a despawn for every entity in texts tagged with slot and
// returns how many were queued.
func DespawnSlot(cmds *ecs.Commands, texts iter.Seq2[ecs.EntityId, SlotView], slot uint) int {
	n := 0
	for id, text := range texts {
		if text.Slot == slot {
			cmds.Delete(id)
			n++
		}
	}
	return n
}

// sweepSlot deletes every entity tagged with slot directly from storage.
func sweepSlot(storage *ecs.Storage, slot uint) int {
	var doomed []ecs.EntityId
	for id, text := range ecs.NewView[SlotView](storage).Iter() {
		if text.Slot == slot {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		storage.Delete(id)
	}
	return len(doomed)
}

// Line is one scripted text entity as seen by the renderer.
type Line struct {
	Entity ecs.EntityId
	Slot   uint
	Body   string
	Size   float64
}

// Lines snapshots the scripted text entities of storage ordered by entity id.
func Lines(storage *ecs.Storage) []Line {
	view := ecs.NewView[struct {
		*TextId
		*Text
		Font *TextFont `ecs:"optional"`
	}](storage)

	var lines []Line
	for id, item := range view.Iter() {
		line := Line{Entity: id, Slot: item.Slot, Body: item.Body, Size: DefaultFontSize}
		if item.Font != nil {
			line.Size = item.Font.Size
		}
		lines = append(lines, line)
	}
	slices.SortFunc(lines, func(a, b Line) int {
		return cmp.Compare(a.Entity, b.Entity)
	})
	return lines
}
