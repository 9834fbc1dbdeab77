// Package world owns the orchestrator: it wires the geography, climate,
// ecosystem, and civilization layers together, drives the yearly tick,
// and injects rare global catastrophes. It holds the single RNG every
// subsystem draws from, which makes a run fully reproducible from the
// seed.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/varkess/ecosphere/internal/catastrophe"
	"github.com/varkess/ecosphere/internal/civilization"
	"github.com/varkess/ecosphere/internal/climate"
	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/ecosystem"
	"github.com/varkess/ecosphere/internal/geography"
)

// ErrNotGenerated is returned when the world is ticked before Generate.
var ErrNotGenerated = errors.New("world: Generate must run before simulation")

var (
	planetPrefixes = []string{"Xeno", "Astra", "Novo", "Terra", "Gaia", "Eco", "Bio", "Vita", "Zoa", "Orga"}
	planetSuffixes = []string{"sphere", "world", "gaia", "terra", "planet", "globe", "orb", "system", "realm"}
)

// Atmosphere is the planet's gas composition in percent, normalized to
// sum to 100.
type Atmosphere struct {
	Nitrogen      float64 `json:"nitrogen"`
	Oxygen        float64 `json:"oxygen"`
	CarbonDioxide float64 `json:"carbon_dioxide"`
	Argon         float64 `json:"argon"`
	WaterVapor    float64 `json:"water_vapor"`
	OtherGases    float64 `json:"other_gases"`
}

func (a *Atmosphere) normalize() {
	total := a.Nitrogen + a.Oxygen + a.CarbonDioxide + a.Argon + a.WaterVapor + a.OtherGases
	a.Nitrogen = a.Nitrogen / total * 100
	a.Oxygen = a.Oxygen / total * 100
	a.CarbonDioxide = a.CarbonDioxide / total * 100
	a.Argon = a.Argon / total * 100
	a.WaterVapor = a.WaterVapor / total * 100
	a.OtherGases = a.OtherGases / total * 100
}

// Event is one notable happening, consumed by the chronicle.
type Event struct {
	Year        int
	Layer       string
	Kind        string
	Description string
}

// World is the top-level simulation: planet characteristics plus the
// four coupled layers.
type World struct {
	Seed   int64
	Name   string
	SizeKm int // Diameter
	Age    int // Years

	Atmosphere Atmosphere

	Geo  *geography.Geography
	Clim *climate.Climate
	Eco  *ecosystem.Ecosystem
	Civs *civilization.Manager

	rng       *rand.Rand
	cfg       *config.Params
	generated bool
	events    []Event
}

// New builds a world from a seed and parameters. The planet's
// characteristics are drawn immediately; terrain and life wait for
// Generate.
func New(seed int64, cfg *config.Params) *World {
	rng := rand.New(rand.NewSource(seed))

	w := &World{
		Seed:   seed,
		SizeKm: cfg.World.PlanetKmMin + rng.Intn(cfg.World.PlanetKmMax-cfg.World.PlanetKmMin+1),
		rng:    rng,
		cfg:    cfg,
	}
	w.Name = planetName(rng)
	w.Atmosphere = Atmosphere{
		Nitrogen:      65 + rng.Float64()*15,
		Oxygen:        10 + rng.Float64()*15,
		CarbonDioxide: 0.1 + rng.Float64()*4.9,
		Argon:         0.5 + rng.Float64()*1.5,
		WaterVapor:    0.1 + rng.Float64()*2.9,
		OtherGases:    0.1 + rng.Float64()*0.9,
	}
	w.Atmosphere.normalize()

	w.Geo = geography.New(cfg.World.GridSize, cfg.Geography, rng)
	w.Clim = climate.New(w.Geo, cfg.Climate, rng)
	w.Eco = ecosystem.New(w.Geo, w.Clim, cfg.Ecosystem, rng)
	w.Civs = civilization.New(w.Geo, w.Eco, cfg.Civilization)

	w.Eco.OnSapience = func(sp *ecosystem.Species) {
		w.record("ecosystem", "sapience", sp.Name+" crossed the sapience threshold")
		if c := w.Civs.TryEmerge(sp, w.rng); c != nil {
			w.record("civilization", "emergence", "emergence of the "+c.Name+" civilization")
		}
	}

	return w
}

func planetName(rng *rand.Rand) string {
	name := planetPrefixes[rng.Intn(len(planetPrefixes))] + planetSuffixes[rng.Intn(len(planetSuffixes))]
	if rng.Float64() < 0.3 {
		name = fmt.Sprintf("%s-%d", name, 1+rng.Intn(999))
	}
	return name
}

// Generate builds the terrain, seeds the climate from it, and creates
// the founding species. It must run exactly once before SimulateYear.
func (w *World) Generate() error {
	if w.generated {
		return errors.New("world: already generated")
	}

	slog.Info("generating world", "name", w.Name, "seed", w.Seed, "diameter_km", w.SizeKm)
	w.Geo.Generate(w.rng)
	w.Clim.Initialize(w.rng)
	w.Eco.SeedInitialLife(w.rng)

	w.generated = true
	return nil
}

// SimulateYear advances the whole planet one year: climate first, then
// the ecosystem it feeds, then civilizations, then the global
// catastrophe roll.
func (w *World) SimulateYear() error {
	if !w.generated {
		return ErrNotGenerated
	}
	w.Age++

	w.Clim.SimulateYear(w.rng, w.Civs.IndustrialLoad())
	w.Eco.SimulateYear(w.rng)

	emerged := w.Civs.TotalCreated
	fallen := w.Civs.TotalExtinctions
	w.Civs.SimulateYear(w.rng, w.Age)
	for i := emerged; i < w.Civs.TotalCreated; i++ {
		w.record("civilization", "emergence", "a new civilization emerged")
	}
	for i := fallen; i < w.Civs.TotalExtinctions; i++ {
		w.record("civilization", "collapse", "a civilization collapsed")
	}

	w.processRandomEvents()
	return nil
}

// processRandomEvents rolls the rare global catastrophe.
func (w *World) processRandomEvents() {
	if w.rng.Float64() >= w.cfg.World.CatastropheChance {
		return
	}
	kinds := catastrophe.All()
	kind := kinds[w.rng.Intn(len(kinds))]
	severity := 0.1 + w.rng.Float64()*0.9
	w.applyCatastrophe(kind, severity)
}

// ApplyCatastrophe injects a global catastrophe from outside the yearly
// roll. Severity must be in [0,1].
func (w *World) ApplyCatastrophe(kind catastrophe.Kind, severity float64) error {
	if !w.generated {
		return ErrNotGenerated
	}
	if severity < 0 || severity > 1 {
		return fmt.Errorf("world: catastrophe severity %.2f out of range [0,1]", severity)
	}
	w.applyCatastrophe(kind, severity)
	return nil
}

func (w *World) applyCatastrophe(kind catastrophe.Kind, severity float64) {
	slog.Warn("global catastrophe", "kind", kind.Name(), "severity", severity, "year", w.Age)
	w.record("world", "catastrophe", fmt.Sprintf("%s (severity %.2f)", kind.Name(), severity))

	// Impacts and eruptions reshape the crust before the climate and
	// biosphere feel them.
	if kind == catastrophe.Meteorite || kind == catastrophe.Supervolcano {
		w.Geo.ApplyTectonicEvent(w.rng, severity)
	}

	w.Clim.ApplyCatastrophe(w.rng, kind, severity)
	w.Eco.ApplyCatastrophe(w.rng, kind, severity)
	w.Civs.ApplyCatastrophe(w.rng, kind, severity)
}

func (w *World) record(layer, kind, description string) {
	w.events = append(w.events, Event{Year: w.Age, Layer: layer, Kind: kind, Description: description})
}

// DrainEvents returns the events recorded since the last drain and
// clears the buffer.
func (w *World) DrainEvents() []Event {
	events := w.events
	w.events = nil
	return events
}

// TotalPopulation sums the population of every living species.
func (w *World) TotalPopulation() int {
	return w.Eco.TotalPopulation()
}

// Per-cell read accessors. Coordinates wrap toroidally.

func (w *World) BiomeAt(x, y int) geography.Biome {
	return w.Geo.BiomeAt(x, y)
}

func (w *World) ElevationAt(x, y int) float64 {
	return w.Geo.Elevation.At(x, y)
}

func (w *World) TemperatureAt(x, y int) float64 {
	return w.Clim.Temperature.At(x, y)
}

func (w *World) PrecipitationAt(x, y int) float64 {
	return w.Clim.Precipitation.At(x, y)
}

// SpeciesPopulationAt sums every living species' density in one cell.
func (w *World) SpeciesPopulationAt(x, y int) float64 {
	total := 0.0
	for _, sp := range w.Eco.Species {
		total += sp.LocalPopulation(x, y)
	}
	return total
}

// TerritoryAt returns the ID of the civilization holding the cell, or 0.
func (w *World) TerritoryAt(x, y int) int {
	for _, c := range w.Civs.Civs {
		if c.Territory.At(x, y) {
			return c.ID
		}
	}
	return 0
}

// Summary aggregates the per-layer snapshots.
type Summary struct {
	Name          string               `json:"name"`
	Age           int                  `json:"age"`
	SizeKm        int                  `json:"size_km"`
	Atmosphere    Atmosphere           `json:"atmosphere"`
	Geography     geography.Summary    `json:"geography"`
	Climate       climate.Summary      `json:"climate"`
	Ecosystem     ecosystem.Summary    `json:"ecosystem"`
	Civilizations civilization.Summary `json:"civilizations"`
}

// GetSummary returns a read-only snapshot of the whole planet.
func (w *World) GetSummary() Summary {
	return Summary{
		Name:          w.Name,
		Age:           w.Age,
		SizeKm:        w.SizeKm,
		Atmosphere:    w.Atmosphere,
		Geography:     w.Geo.GetSummary(),
		Climate:       w.Clim.GetSummary(),
		Ecosystem:     w.Eco.GetSummary(),
		Civilizations: w.Civs.GetSummary(),
	}
}
