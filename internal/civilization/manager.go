package civilization

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/varkess/ecosphere/internal/catastrophe"
	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/ecosystem"
	"github.com/varkess/ecosphere/internal/geography"
	"github.com/varkess/ecosphere/internal/grid"
)

// Manager coordinates every civilization on the planet: emergence,
// yearly updates, diplomacy, and retirement of the fallen.
type Manager struct {
	Civs        []*Civilization // Active, in creation order
	ExtinctCivs []*Civilization

	TotalCreated     int
	TotalExtinctions int

	geo *geography.Geography
	eco *ecosystem.Ecosystem
	cfg config.CivilizationParams

	nextID int
	year   int
}

// New allocates an empty manager over the given terrain and ecosystem.
func New(geo *geography.Geography, eco *ecosystem.Ecosystem, cfg config.CivilizationParams) *Manager {
	return &Manager{
		geo:    geo,
		eco:    eco,
		cfg:    cfg,
		nextID: 1,
	}
}

// CivByID returns the active civilization with the given ID, or nil.
func (m *Manager) CivByID(id int) *Civilization {
	for _, c := range m.Civs {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *Manager) hasCivilization(sp *ecosystem.Species) bool {
	for _, c := range m.Civs {
		for _, member := range c.Members {
			if member == sp {
				return true
			}
		}
	}
	return false
}

// TryEmerge rolls for a civilization emerging from a sapient species.
// The chance scales with intelligence and population. Returns the new
// civilization, or nil.
func (m *Manager) TryEmerge(sp *ecosystem.Species, rng *rand.Rand) *Civilization {
	if sp.Extinct || m.hasCivilization(sp) {
		return nil
	}
	chance := m.cfg.EmergenceChance * sp.Intelligence * float64(sp.Population) / 10000
	if rng.Float64() >= chance {
		return nil
	}
	return m.Create(sp, rng)
}

// Create founds a civilization from a species, seeding its territory
// around the species' population peak.
func (m *Manager) Create(sp *ecosystem.Species, rng *rand.Rand) *Civilization {
	c := &Civilization{
		ID:         m.nextID,
		Name:       civName(rng),
		Founder:    sp,
		Members:    []*ecosystem.Species{sp},
		Population: sp.Population / 10,

		Stability:   0.5 + rng.Float64()*0.4,
		Aggression:  0.2 + rng.Float64()*0.6,
		Cooperation: 0.3 + rng.Float64()*0.6,
		Creativity:  0.4 + rng.Float64()*0.5,

		ArtFocus: artFocuses[rng.Intn(len(artFocuses))],
		Economy:  "subsistence",

		Territory:    grid.NewBitmap(m.geo.Size),
		Relations:    make(map[int]float64),
		Technologies: make(map[string]bool),
	}
	m.nextID++

	c.Language = newLanguage(rng, c.Name)
	if rng.Float64() < 0.8 {
		c.Religion = newReligion(rng)
	}

	m.seedTerritory(c, sp)
	c.addHistory(m.year, "founding", "emergence of the "+c.Name+" civilization")

	m.Civs = append(m.Civs, c)
	m.TotalCreated++
	slog.Warn("civilization emerged", "civ", c.Name, "species", sp.Name, "population", c.Population)
	return c
}

// seedTerritory claims the land cells within the initial radius of the
// founder species' densest cell.
func (m *Manager) seedTerritory(c *Civilization, sp *ecosystem.Species) {
	cx, cy := sp.PopMap.ArgMax()
	radius := float64(m.cfg.InitialRadius)

	for y := 0; y < m.geo.Size; y++ {
		for x := 0; x < m.geo.Size; x++ {
			if grid.Dist(x, y, cx, cy, m.geo.Size) <= radius && m.geo.IsLand(x, y) {
				c.Territory.Set(x, y, true)
			}
		}
	}
}

// SimulateYear advances every civilization one year, retires collapses,
// and rolls for new emergences from sapient species.
func (m *Manager) SimulateYear(rng *rand.Rand, year int) {
	m.year = year

	for _, c := range m.Civs {
		if c.Extinct {
			continue
		}
		m.updateCiv(c, rng)
	}
	m.retireExtinct()

	m.checkEmergence(rng)

	if year%100 == 0 && len(m.Civs) > 0 {
		m.logStatus()
	}
}

func (m *Manager) updateCiv(c *Civilization, rng *rand.Rand) {
	c.Age++

	c.updatePopulation(m)
	if c.Population <= m.cfg.MinPopulation {
		c.markExtinct(m.year, "population collapse")
		return
	}

	c.advanceTechnology(m, rng)
	c.evolveSociety(m, rng)
	c.expandTerritory(m, rng)
	m.manageRelations(c, rng)
	m.randomEvent(c, rng)
}

// retireExtinct moves collapsed civilizations to the extinct list and
// applies the founder-species penalty.
func (m *Manager) retireExtinct() {
	active := m.Civs[:0]
	for _, c := range m.Civs {
		if !c.Extinct {
			active = append(active, c)
			continue
		}
		m.ExtinctCivs = append(m.ExtinctCivs, c)
		m.TotalExtinctions++
		m.eco.HalveSpecies(c.Founder)
	}
	m.Civs = active
}

// checkEmergence scans sapient species for new civilizations. Species
// are walked in creation order.
func (m *Manager) checkEmergence(rng *rand.Rand) {
	for _, sp := range m.eco.Species {
		if sp.Intelligence >= m.eco.SapienceIntelligence() && sp.Complexity >= m.eco.SapienceComplexity() {
			m.TryEmerge(sp, rng)
		}
	}
}

// expansionFrontier returns the land cells outside t that border it,
// scanned in row-major order.
func (m *Manager) expansionFrontier(t *grid.Bitmap) [][2]int {
	var frontier [][2]int
	for y := 0; y < m.geo.Size; y++ {
		for x := 0; x < m.geo.Size; x++ {
			if t.At(x, y) || !m.geo.IsLand(x, y) {
				continue
			}
			for _, d := range grid.Neighbors8 {
				if t.At(grid.Wrap(x+d[0], m.geo.Size), grid.Wrap(y+d[1], m.geo.Size)) {
					frontier = append(frontier, [2]int{x, y})
					break
				}
			}
		}
	}
	return frontier
}

// contestedBorder returns the cells of loser's territory that border
// winner's, scanned in row-major order.
func (m *Manager) contestedBorder(loser, winner *grid.Bitmap) [][2]int {
	var border [][2]int
	for y := 0; y < m.geo.Size; y++ {
		for x := 0; x < m.geo.Size; x++ {
			if !loser.At(x, y) {
				continue
			}
			for _, d := range grid.Neighbors8 {
				if winner.At(grid.Wrap(x+d[0], m.geo.Size), grid.Wrap(y+d[1], m.geo.Size)) {
					border = append(border, [2]int{x, y})
					break
				}
			}
		}
	}
	return border
}

// reconcileTerritories releases territory cells that terrain reshaping
// has dropped below sea level. Every held cell of a living civilization
// must be a land cell.
func (m *Manager) reconcileTerritories() {
	for _, c := range m.Civs {
		if c.Extinct {
			continue
		}
		lost := 0
		for y := 0; y < m.geo.Size; y++ {
			for x := 0; x < m.geo.Size; x++ {
				if c.Territory.At(x, y) && !m.geo.IsLand(x, y) {
					c.Territory.Set(x, y, false)
					lost++
				}
			}
		}
		if lost > 0 {
			c.addHistory(m.year, "disaster",
				fmt.Sprintf("%d territory cells lost to the sea", lost))
		}
	}
}

// IndustrialLoad sums each industrial-or-later civilization's warming
// pressure: population in millions weighted by tiers past agricultural.
func (m *Manager) IndustrialLoad() float64 {
	load := 0.0
	for _, c := range m.Civs {
		if c.Tech >= Industrial {
			load += float64(c.Tech-Industrial+1) * float64(c.Population) / 1e6
		}
	}
	return load
}

// ApplyCatastrophe hits every civilization with a vulnerability keyed to
// its tech tier and the event kind. Severe impacts risk outright
// collapse or technological regression. Terrain has already been
// reshaped by this point, so held cells are reconciled against the new
// coastline first.
func (m *Manager) ApplyCatastrophe(rng *rand.Rand, kind catastrophe.Kind, severity float64) {
	m.reconcileTerritories()

	for _, c := range m.Civs {
		if c.Extinct {
			continue
		}

		vulnerability := 1 - float64(c.Tech)/7*0.7
		if vulnerability < 0.3 {
			vulnerability = 0.3
		}

		switch kind {
		case catastrophe.Meteorite:
			if c.Tech >= Space {
				vulnerability *= 0.5
			}
		case catastrophe.Supervolcano:
			if c.Tech >= Information {
				vulnerability *= 0.7
			}
		case catastrophe.SolarFlare:
			if c.Tech >= Industrial {
				vulnerability *= 1.3
			}
		case catastrophe.Pandemic:
			if c.Tech >= Information {
				vulnerability *= 0.6
			}
		}

		impact := severity * vulnerability
		if impact > 0.7 {
			if rng.Float64() < impact-0.7 {
				c.markExtinct(m.year, "catastrophe: "+kind.Name())
				continue
			}
			if rng.Float64() < impact-0.5 && c.Tech > Primitive {
				old := c.Tech
				c.Tech--
				c.addHistory(m.year, "regression",
					fmt.Sprintf("technological regression: %s to %s", old.Name(), c.Tech.Name()))
			}
			c.Population = int(float64(c.Population) * (1 - impact*0.5))
			c.Stability = clamp01(c.Stability - impact*0.3)
		} else {
			c.Population = int(float64(c.Population) * (1 - impact*0.3))
			c.Stability = clamp01(c.Stability - impact*0.2)
		}

		c.addHistory(m.year, "catastrophe",
			fmt.Sprintf("struck by %s (severity %.2f)", kind.Name(), severity))
	}
	m.retireExtinct()
}

// TotalPopulation sums the population of every active civilization.
func (m *Manager) TotalPopulation() int {
	total := 0
	for _, c := range m.Civs {
		total += c.Population
	}
	return total
}

func (m *Manager) logStatus() {
	slog.Info("civilization status",
		"year", m.year,
		"active", len(m.Civs),
		"extinct", m.TotalExtinctions,
	)
	for _, c := range m.Civs {
		slog.Info("civilization",
			"civ", c.Name,
			"tech", c.Tech.Name(),
			"population", c.Population,
			"age", c.Age,
		)
	}
}

// CivSummary describes one active civilization for presentation.
type CivSummary struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Population    int    `json:"population"`
	TechLevel     string `json:"tech_level"`
	Government    string `json:"government"`
	TerritorySize int    `json:"territory_size"`
}

// Summary is a read-only snapshot of the civilization layer.
type Summary struct {
	TotalCivilizations   int          `json:"total_civilizations"`
	ActiveCivilizations  int          `json:"active_civilizations"`
	ExtinctCivilizations int          `json:"extinct_civilizations"`
	Details              []CivSummary `json:"details"`
}

// GetSummary returns the civilization snapshot.
func (m *Manager) GetSummary() Summary {
	details := make([]CivSummary, 0, len(m.Civs))
	for _, c := range m.Civs {
		details = append(details, CivSummary{
			Name:          c.Name,
			Age:           c.Age,
			Population:    c.Population,
			TechLevel:     c.Tech.Name(),
			Government:    c.Government.Name(),
			TerritorySize: c.Territory.Count(),
		})
	}
	return Summary{
		TotalCivilizations:   m.TotalCreated,
		ActiveCivilizations:  len(m.Civs),
		ExtinctCivilizations: m.TotalExtinctions,
		Details:              details,
	}
}
