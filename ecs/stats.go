package ecs

import (
	"cmp"
	"slices"
)

// StorageStats summarizes the contents of a Storage.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes a single archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks the storage and reports entity, archetype and singleton counts.
// Archetypes without live entities are still counted.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount:     len(s.archetypes),
		ArchetypeBreakdown: make([]ArchetypeStats, 0, len(s.archetypes)),
		SingletonCount:     len(s.singletonOrder),
		SingletonTypes:     make([]string, 0, len(s.singletonOrder)),
	}

	for id, archetype := range s.archetypes {
		names := make([]string, len(archetype.types))
		for i, typ := range archetype.types {
			names[i] = typ.String()
		}

		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             id,
			ComponentTypes: names,
			EntityCount:    archetype.Len(),
		})
		stats.TotalEntityCount += archetype.Len()
	}

	slices.SortFunc(stats.ArchetypeBreakdown, func(a, b ArchetypeStats) int {
		return cmp.Compare(a.ID, b.ID)
	})

	for _, typ := range s.singletonOrder {
		stats.SingletonTypes = append(stats.SingletonTypes, typ.String())
	}

	return stats
}
