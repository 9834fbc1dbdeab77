package civilization

import (
	"math"
	"math/rand"
	"sort"

	"github.com/varkess/ecosphere/internal/grid"
)

// manageRelations drifts existing relations, fires relation-driven
// events, and establishes first contact with newly adjacent societies.
// Relation keys are walked in sorted order so RNG draws stay stable.
func (m *Manager) manageRelations(c *Civilization, rng *rand.Rand) {
	ids := make([]int, 0, len(c.Relations))
	for id := range c.Relations {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		other := m.CivByID(id)
		if other == nil || other.Extinct {
			delete(c.Relations, id)
			continue
		}

		drift := rng.Float64()*0.1 - 0.05
		if c.Government == other.Government {
			drift += 0.01
		}
		if techGap(c, other) > 2 {
			drift -= 0.01
		}
		drift -= (c.Aggression - 0.5) * 0.02

		c.Relations[id] = clampRelation(c.Relations[id] + drift)
		m.checkRelationEvents(c, other, rng)
	}

	for _, other := range m.Civs {
		if other == c || other.Extinct {
			continue
		}
		if _, known := c.Relations[other.ID]; known {
			continue
		}
		if !m.territoriesClose(c.Territory, other.Territory) {
			continue
		}

		initial := rng.Float64()*0.6 - 0.3
		if c.Government == other.Government {
			initial += 0.2
		}
		if techGap(c, other) <= 1 {
			initial += 0.1
		}
		initial += (c.Cooperation - 0.5) * 0.2
		initial -= (c.Aggression - 0.5) * 0.2

		c.Relations[other.ID] = clampRelation(initial)

		tone := "friendly"
		if initial < 0 {
			tone = "hostile"
		}
		c.addHistory(m.year, "contact", "first contact with "+other.Name+", "+tone+" relations")
	}
}

// territoriesClose reports whether any cell of a lies within the
// contact radius of a cell of b.
func (m *Manager) territoriesClose(a, b *grid.Bitmap) bool {
	r := m.cfg.ContactRadius
	for y := 0; y < m.geo.Size; y++ {
		for x := 0; x < m.geo.Size; x++ {
			if !a.At(x, y) {
				continue
			}
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					if b.At(grid.Wrap(x+dx, m.geo.Size), grid.Wrap(y+dy, m.geo.Size)) {
						return true
					}
				}
			}
		}
	}
	return false
}

// checkRelationEvents fires diplomatic events when a relation crosses
// the friendship or hostility thresholds.
func (m *Manager) checkRelationEvents(c, other *Civilization, rng *rand.Rand) {
	relation := c.Relations[other.ID]

	switch {
	case relation > 0.7 && rng.Float64() < 0.1:
		switch rng.Intn(3) {
		case 0:
			c.Relations[other.ID] = clampRelation(relation + 0.1)
			c.Stability = clamp01(c.Stability + 0.05)
			c.addHistory(m.year, "diplomacy", "alliance with "+other.Name)
		case 1:
			c.TechProgress += 0.01
			c.addHistory(m.year, "diplomacy", "trade treaty with "+other.Name)
		case 2:
			c.Creativity = clampUnitOpen(c.Creativity + 0.02)
			c.addHistory(m.year, "diplomacy", "cultural exchange with "+other.Name)
		}

	case relation < -0.7 && rng.Float64() < 0.1:
		switch rng.Intn(3) {
		case 0:
			c.Stability = clamp01(c.Stability - 0.05)
			c.addHistory(m.year, "diplomacy", "border conflict with "+other.Name)
		case 1:
			m.resolveWar(c, other, rng)
		case 2:
			c.TechProgress = math.Max(0, c.TechProgress-0.01)
			c.addHistory(m.year, "diplomacy", "embargo against "+other.Name)
		}
	}
}

func techGap(a, b *Civilization) int {
	gap := int(a.Tech) - int(b.Tech)
	if gap < 0 {
		gap = -gap
	}
	return gap
}

func clampRelation(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
