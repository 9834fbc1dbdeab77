package civilization

import (
	"fmt"
	"math"
	"math/rand"
)

// randomEvent rolls for one internal event per year. Disasters are
// rarer than cultural, political, or economic turns.
func (m *Manager) randomEvent(c *Civilization, rng *rand.Rand) {
	if rng.Float64() >= m.cfg.EventChance {
		return
	}

	weights := []float64{1, 1, 1, 0.5, 0.8}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	pick := rng.Float64() * total
	kind := 0
	for i, w := range weights {
		pick -= w
		if pick < 0 {
			kind = i
			break
		}
	}

	switch kind {
	case 0:
		m.culturalEvent(c, rng)
	case 1:
		m.politicalEvent(c, rng)
	case 2:
		m.economicEvent(c, rng)
	case 3:
		m.disasterEvent(c, rng)
	case 4:
		m.discoveryEvent(c, rng)
	}
}

func (m *Manager) culturalEvent(c *Civilization, rng *rand.Rand) {
	switch rng.Intn(5) {
	case 0:
		c.Creativity = clampUnitOpen(c.Creativity + 0.1)
		c.addHistory(m.year, "culture", "artistic golden age")
	case 1:
		c.Stability = clamp01(c.Stability - 0.1)
		c.Creativity = clampUnitOpen(c.Creativity + 0.15)
		c.addHistory(m.year, "culture", "cultural revolution")
	case 2:
		c.TechProgress += 0.05
		c.addHistory(m.year, "culture", "major philosophical movement")
	case 3:
		c.addHistory(m.year, "culture", "linguistic reform")
	case 4:
		c.Stability = clamp01(c.Stability + 0.05)
		c.addHistory(m.year, "culture", "traditional festival instituted")
	}
}

func (m *Manager) politicalEvent(c *Civilization, rng *rand.Rand) {
	switch rng.Intn(5) {
	case 0:
		old := c.Government
		c.Government = Government(rng.Intn(numGovernments))
		c.Stability = clamp01(c.Stability - 0.2)
		c.addHistory(m.year, "politics",
			fmt.Sprintf("revolution: %s to %s", old.Name(), c.Government.Name()))
	case 1:
		c.Stability = clamp01(c.Stability + 0.1)
		c.addHistory(m.year, "politics", "government reform")
	case 2:
		c.Population = int(float64(c.Population) * 0.85)
		c.Stability = clamp01(c.Stability - 0.3)
		c.addHistory(m.year, "politics", "civil war")
	case 3:
		c.Stability = clamp01(c.Stability + 0.15)
		c.addHistory(m.year, "politics", "unification")
	case 4:
		lost := 0.1 + rng.Float64()*0.2
		m.loseTerritory(c, lost, rng)
		c.Population = int(float64(c.Population) * (1 - lost))
		c.Stability = clamp01(c.Stability - 0.1)
		c.addHistory(m.year, "politics", "secession")
	}
}

func (m *Manager) economicEvent(c *Civilization, rng *rand.Rand) {
	switch rng.Intn(5) {
	case 0:
		c.TechProgress += 0.05
		c.Stability = clamp01(c.Stability + 0.05)
		c.addHistory(m.year, "economy", "economic boom")
	case 1:
		c.TechProgress = math.Max(0, c.TechProgress-0.03)
		c.Stability = clamp01(c.Stability - 0.1)
		c.addHistory(m.year, "economy", "recession")
	case 2:
		resources := []string{"minerals", "energy", "food", "rare materials"}
		c.TechProgress += 0.02
		c.addHistory(m.year, "economy", "discovery of "+resources[rng.Intn(len(resources))])
	case 3:
		c.TechProgress += 0.03
		c.addHistory(m.year, "economy", "commercial innovation")
	case 4:
		c.Population = int(float64(c.Population) * 0.9)
		c.Stability = clamp01(c.Stability - 0.15)
		c.addHistory(m.year, "economy", "famine")
	}
}

func (m *Manager) disasterEvent(c *Civilization, rng *rand.Rand) {
	severity := 0.1 + rng.Float64()*0.4

	switch rng.Intn(5) {
	case 0:
		c.Population = int(float64(c.Population) * (1 - severity*0.3))
		c.Stability = clamp01(c.Stability - severity*0.2)
		c.addHistory(m.year, "disaster", fmt.Sprintf("epidemic (severity %.2f)", severity))
	case 1:
		c.Population = int(float64(c.Population) * (1 - severity*0.2))
		m.loseTerritory(c, severity*0.1, rng)
		c.addHistory(m.year, "disaster", fmt.Sprintf("natural disaster (severity %.2f)", severity))
	case 2:
		if c.Tech >= Industrial {
			c.Population = int(float64(c.Population) * (1 - severity*0.1))
			c.Stability = clamp01(c.Stability - severity*0.15)
		}
		c.addHistory(m.year, "disaster", fmt.Sprintf("technological accident (severity %.2f)", severity))
	case 3:
		c.Stability = clamp01(c.Stability - severity*0.3)
		c.addHistory(m.year, "disaster", fmt.Sprintf("internal strife (severity %.2f)", severity))
	case 4:
		if c.Tech >= Medieval {
			c.Stability = clamp01(c.Stability - severity*0.1)
		}
		c.addHistory(m.year, "disaster", fmt.Sprintf("environmental crisis (severity %.2f)", severity))
	}
}

// discoveryEvent grants a burst of tech progress and possibly an early
// technology from the next tier.
func (m *Manager) discoveryEvent(c *Civilization, rng *rand.Rand) {
	if c.Tech >= Stellar {
		return
	}

	boost := 0.1 + rng.Float64()*0.2
	c.TechProgress += boost
	c.addHistory(m.year, "discovery", fmt.Sprintf("major scientific breakthrough (+%.2f progress)", boost))

	next := c.Tech + 1
	if rng.Float64() < 0.3 {
		candidates := tierDiscoveries[next]
		tech := candidates[rng.Intn(len(candidates))]
		if !c.Technologies[tech] {
			c.Technologies[tech] = true
			c.addHistory(m.year, "discovery", "early discovery of "+tech)
		}
	}
}

// loseTerritory removes a random fraction of the civilization's cells.
func (m *Manager) loseTerritory(c *Civilization, fraction float64, rng *rand.Rand) {
	var cells [][2]int
	for y := 0; y < m.geo.Size; y++ {
		for x := 0; x < m.geo.Size; x++ {
			if c.Territory.At(x, y) {
				cells = append(cells, [2]int{x, y})
			}
		}
	}
	n := int(float64(len(cells)) * fraction)
	if n == 0 {
		return
	}
	for _, i := range rng.Perm(len(cells))[:n] {
		cell := cells[i]
		c.Territory.Set(cell[0], cell[1], false)
	}
}
