// Package civilization manages societies that emerge from sapient
// species: technology, government, culture, territory, diplomacy, and
// war. It reads the terrain and the ecosystem but mutates neither,
// except through the collapse callback wired by the orchestrator.
package civilization

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/varkess/ecosphere/internal/ecosystem"
	"github.com/varkess/ecosphere/internal/grid"
)

// TechLevel is a civilization's technology tier.
type TechLevel uint8

const (
	Primitive TechLevel = iota
	Agricultural
	Medieval
	Industrial
	Information
	Space
	Advanced
	Stellar

	NumTechLevels = 8
)

func (t TechLevel) Name() string {
	switch t {
	case Primitive:
		return "primitive"
	case Agricultural:
		return "agricultural"
	case Medieval:
		return "medieval"
	case Industrial:
		return "industrial"
	case Information:
		return "information"
	case Space:
		return "space"
	case Advanced:
		return "advanced"
	case Stellar:
		return "stellar"
	default:
		return "unknown"
	}
}

// Government is a civilization's form of rule.
type Government uint8

const (
	Tribal Government = iota
	Monarchy
	Oligarchy
	Republic
	Democracy
	Technocracy
	HiveMind
	AIGovernance

	numGovernments = 8
)

func (g Government) Name() string {
	switch g {
	case Tribal:
		return "tribal"
	case Monarchy:
		return "monarchy"
	case Oligarchy:
		return "oligarchy"
	case Republic:
		return "republic"
	case Democracy:
		return "democracy"
	case Technocracy:
		return "technocracy"
	case HiveMind:
		return "hive mind"
	case AIGovernance:
		return "AI governance"
	default:
		return "unknown"
	}
}

// HistoryEvent is one entry in a civilization's chronicle.
type HistoryEvent struct {
	Year        int    `json:"year"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Civilization is one society, founded by a sapient species.
type Civilization struct {
	ID      int                  `json:"id"`
	Name    string               `json:"name"`
	Founder *ecosystem.Species   `json:"-"`
	Members []*ecosystem.Species `json:"-"`

	Age        int `json:"age"`
	Population int `json:"population"`

	Tech         TechLevel `json:"tech_level"`
	TechProgress float64   `json:"tech_progress"` // Fraction toward the next tier

	Government Government `json:"government"`

	// Social attributes, all in [0,1].
	Stability   float64 `json:"stability"`
	Aggression  float64 `json:"aggression"`
	Cooperation float64 `json:"cooperation"`
	Creativity  float64 `json:"creativity"`

	Language Language  `json:"language"`
	Religion *Religion `json:"religion,omitempty"` // nil for secular societies
	ArtFocus string    `json:"art_focus"`
	Economy  string    `json:"economy"`

	Territory *grid.Bitmap `json:"-"`

	// Relations with other civilizations by ID, in [-1,1]. The map is
	// this side's view; the other side keeps its own.
	Relations map[int]float64 `json:"-"`

	History      []HistoryEvent  `json:"history"`
	Technologies map[string]bool `json:"-"`

	Extinct         bool   `json:"extinct"`
	ExtinctionCause string `json:"extinction_cause,omitempty"`
}

// addHistory records and logs a chronicle entry.
func (c *Civilization) addHistory(year int, kind, description string) {
	c.History = append(c.History, HistoryEvent{Year: year, Type: kind, Description: description})
	slog.Info("civilization event", "civ", c.Name, "year", year, "type", kind, "detail", description)
}

// TerritorySize returns the number of cells the civilization controls.
func (c *Civilization) TerritorySize() int {
	return c.Territory.Count()
}

// markExtinct flags the civilization as collapsed. The founder-species
// penalty is the manager's job.
func (c *Civilization) markExtinct(year int, cause string) {
	if c.Extinct {
		return
	}
	c.Extinct = true
	c.ExtinctionCause = cause
	slog.Warn("civilization collapsed", "civ", c.Name, "cause", cause, "age", c.Age)
	c.addHistory(year, "collapse", "fall of "+c.Name+": "+cause)
}

// updatePopulation grows or shrinks the population against the
// territory's carrying capacity.
func (c *Civilization) updatePopulation(m *Manager) {
	baseGrowth := 0.01
	growth := baseGrowth + m.cfg.TierGrowth[c.Tech] + c.Stability*0.01

	capacity := c.carryingCapacity(m)
	switch {
	case float64(c.Population) > capacity:
		growth = -0.01
	case float64(c.Population) > capacity*0.8:
		growth *= 1 - float64(c.Population)/capacity
	}

	c.Population = int(float64(c.Population) * (1 + growth))
}

// carryingCapacity scales the tier's base capacity by territory size.
func (c *Civilization) carryingCapacity(m *Manager) float64 {
	return m.cfg.TierCapacities[c.Tech] * float64(c.Territory.Count()) / 100
}

// expandTerritory claims up to three adjacent land cells, with the
// expansion chance growing with tier and population.
func (c *Civilization) expandTerritory(m *Manager, rng *rand.Rand) {
	chance := 0.1 * float64(c.Tech+1) * math.Min(1, float64(c.Population)/10000)
	if rng.Float64() >= chance {
		return
	}

	border := m.expansionFrontier(c.Territory)
	if len(border) == 0 {
		return
	}

	n := 1 + rng.Intn(3)
	if n > len(border) {
		n = len(border)
	}
	for _, i := range rng.Perm(len(border))[:n] {
		cell := border[i]
		c.Territory.Set(cell[0], cell[1], true)
	}
	c.addHistory(m.year, "expansion", "territory expanded")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampUnitOpen(v float64) float64 {
	if v < 0.01 {
		return 0.01
	}
	if v > 0.99 {
		return 0.99
	}
	return v
}
