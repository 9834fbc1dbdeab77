// Package ecosystem owns the planet's living species: population
// dynamics, predation, migration, speciation, trait evolution, and
// extinction. It reads the terrain and climate but never mutates them.
package ecosystem

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/varkess/ecosphere/internal/catastrophe"
	"github.com/varkess/ecosphere/internal/climate"
	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/geography"
)

// Ecosystem holds the living and extinct species and the trophic graph
// between them.
type Ecosystem struct {
	Species        []*Species // Living, in creation order
	ExtinctSpecies []*Species

	TotalCreated     int
	TotalExtinctions int

	// Ecosystem-wide characteristics drawn at construction.
	Biodiversity  float64
	EvolutionRate float64
	Stability     float64

	// OnSapience fires when a species crosses the sapience thresholds
	// through trait evolution. The orchestrator wires it to the
	// civilization layer; it is never nil after world construction.
	OnSapience func(*Species)

	geo  *geography.Geography
	clim *climate.Climate
	cfg  config.EcosystemParams

	nextID int
	year   int

	// Trophic graph, rebuilt wholesale on a periodic cadence. Keyed by
	// species ID; slices are in species creation order, which keeps
	// every RNG-consuming walk deterministic.
	predatorsOf map[int][]*Species
	preyOf      map[int][]*Species
}

// New allocates an empty ecosystem over the given terrain and climate.
func New(geo *geography.Geography, clim *climate.Climate, cfg config.EcosystemParams, rng *rand.Rand) *Ecosystem {
	return &Ecosystem{
		Biodiversity:  cfg.BiodiversityMin + rng.Float64()*(cfg.BiodiversityMax-cfg.BiodiversityMin),
		EvolutionRate: 0.8 + rng.Float64()*0.4,
		Stability:     0.6 + rng.Float64()*0.4,
		OnSapience:    func(*Species) {},
		geo:           geo,
		clim:          clim,
		cfg:           cfg,
		nextID:        1,
		predatorsOf:   make(map[int][]*Species),
		preyOf:        make(map[int][]*Species),
	}
}

// SeedInitialLife creates the founding species mix: half producers, a
// quarter herbivores, then carnivores and decomposers. The count scales
// with the planet's biodiversity factor.
func (e *Ecosystem) SeedInitialLife(rng *rand.Rand) {
	n := int(float64(e.cfg.InitialSpecies) * e.Biodiversity)

	counts := []struct {
		trophic Trophic
		num     int
	}{
		{Producer, n / 2},
		{Herbivore, n / 4},
		{Carnivore, int(float64(n) * 0.15)},
		{Decomposer, n / 10},
	}
	for _, c := range counts {
		for i := 0; i < c.num; i++ {
			e.addSpecies(e.newSpecies(c.trophic, rng))
		}
	}

	e.RebuildTrophicGraph(rng)
	slog.Info("initial life seeded", "species", len(e.Species), "biodiversity", e.Biodiversity)
}

func (e *Ecosystem) addSpecies(sp *Species) {
	e.Species = append(e.Species, sp)
	e.TotalCreated++
}

// SimulateYear advances every species one year, retires extinctions,
// rolls for brand-new species, and periodically rebuilds the trophic
// graph.
func (e *Ecosystem) SimulateYear(rng *rand.Rand) {
	e.year++

	living := e.Species[:0]
	var newborn []*Species

	for _, sp := range e.Species {
		if !sp.Extinct {
			if child := e.updateSpecies(sp, rng); child != nil {
				newborn = append(newborn, child)
			}
		}
		if sp.Extinct {
			e.ExtinctSpecies = append(e.ExtinctSpecies, sp)
			e.TotalExtinctions++
			slog.Warn("extinction", "species", sp.Name, "cause", sp.ExtinctionCause, "age", sp.Age)
		} else {
			living = append(living, sp)
		}
	}
	e.Species = living
	for _, child := range newborn {
		e.addSpecies(child)
	}

	e.maybeSpawnSpecies(rng)

	if len(newborn) > 0 || e.year%e.cfg.TrophicRebuildYears == 0 {
		e.RebuildTrophicGraph(rng)
	}

	if e.year%100 == 0 {
		e.logStatus()
	}
}

// updateSpecies runs one species-year: population dynamics, extinction
// check, speciation roll, and trait evolution. It returns a newborn
// child species when speciation fires.
func (e *Ecosystem) updateSpecies(sp *Species, rng *rand.Rand) *Species {
	sp.Age++

	e.updatePopulation(sp, rng)

	if sp.Population <= e.cfg.MinPopulation {
		sp.markExtinct("population collapse")
		return nil
	}

	child := e.checkSpeciation(sp, rng)
	e.evolveTraits(sp, rng)
	return child
}

// checkSpeciation rolls the speciation chance (older, larger, more
// adaptable populations split more readily) and on success transfers a
// random 10–30% share of population and density to the child.
func (e *Ecosystem) checkSpeciation(sp *Species, rng *rand.Rand) *Species {
	ageFactor := math.Min(1, float64(sp.Age)/1000)
	popFactor := math.Min(1, float64(sp.Population)/100000)
	chance := e.cfg.SpeciationChance * ageFactor * popFactor * sp.Adaptability

	if rng.Float64() >= chance {
		return nil
	}

	child := e.newChildSpecies(sp, rng)
	share := 0.1 + rng.Float64()*0.2

	child.PopMap.CopyFrom(sp.PopMap)
	child.PopMap.Scale(share)
	sp.PopMap.Scale(1 - share)
	child.Population = int(math.Round(child.PopMap.Sum()))
	sp.Population = int(math.Round(sp.PopMap.Sum()))

	slog.Info("speciation", "parent", sp.Name, "child", child.Name, "share", share)
	return child
}

// evolveTraits applies a low-probability random walk to one trait per
// year. Crossing the sapience thresholds signals the civilization layer.
func (e *Ecosystem) evolveTraits(sp *Species, rng *rand.Rand) {
	if rng.Float64() >= e.cfg.EvolutionChance*sp.Adaptability {
		return
	}

	traits := []*float64{
		&sp.Size, &sp.Complexity, &sp.Intelligence,
		&sp.Adaptability, &sp.ReproductionRate, &sp.Lifespan,
	}
	idx := rng.Intn(len(traits))
	old := *traits[idx]
	v := old + (rng.Float64()*0.1 - 0.05)
	if v < 0.01 {
		v = 0.01
	}
	if v > 0.99 {
		v = 0.99
	}
	*traits[idx] = v

	crossed := idx == 2 && old <= e.cfg.SapienceIntelligence && sp.Intelligence > e.cfg.SapienceIntelligence
	if crossed && sp.Complexity >= e.cfg.SapienceComplexity {
		slog.Warn("sapience threshold crossed", "species", sp.Name, "intelligence", sp.Intelligence)
		e.OnSapience(sp)
	}
}

// maybeSpawnSpecies rolls for an unrelated new species appearing, with
// the chance steering the species count toward a biodiversity-scaled
// balance point.
func (e *Ecosystem) maybeSpawnSpecies(rng *rand.Rand) {
	base := e.cfg.NewSpeciesChance * e.Biodiversity * e.EvolutionRate
	target := e.cfg.TargetSpeciesCount * e.Biodiversity

	chance := base * 0.5
	if float64(len(e.Species)) < target {
		chance = base * (1 + (target-float64(len(e.Species)))/e.cfg.TargetSpeciesCount)
	}
	if rng.Float64() >= chance {
		return
	}

	weights := [numTrophicLevels]float64{0.5, 0.25, 0.15, 0.1, 0.1}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	pick := rng.Float64() * total
	trophic := Producer
	for i, w := range weights {
		pick -= w
		if pick < 0 {
			trophic = Trophic(i)
			break
		}
	}

	sp := e.newSpecies(trophic, rng)
	e.addSpecies(sp)
	slog.Info("new species", "name", sp.Name, "trophic", sp.Trophic.Name())
	e.RebuildTrophicGraph(rng)
}

// ApplyCatastrophe hits every living species with a vulnerability scaled
// by the event kind: impacts punish large species, eruptions and flares
// punish producers, pandemics punish complex social species. High
// impacts can wipe a species outright.
func (e *Ecosystem) ApplyCatastrophe(rng *rand.Rand, kind catastrophe.Kind, severity float64) {
	for _, sp := range e.Species {
		if sp.Extinct {
			continue
		}
		vulnerability := 1 - sp.Adaptability

		switch kind {
		case catastrophe.Meteorite:
			vulnerability *= 0.5 + 0.5*sp.Size
		case catastrophe.Supervolcano:
			if sp.Trophic == Producer {
				vulnerability *= 1.5
			}
		case catastrophe.SolarFlare:
			if sp.Trophic == Producer {
				vulnerability *= 1.3
			}
		case catastrophe.Pandemic:
			vulnerability *= 0.5 + 0.5*sp.Complexity
			if sp.Intelligence > 0.5 {
				vulnerability *= 1.2
			}
		}

		impact := severity * vulnerability
		switch {
		case impact > 0.8 && rng.Float64() < impact-0.8:
			sp.markExtinct("catastrophe: " + kind.Name())
		case impact > 0.8:
			sp.scalePopulation(1 - impact*0.9)
		default:
			sp.scalePopulation(1 - impact*0.5)
		}
	}
}

func (sp *Species) scalePopulation(factor float64) {
	if factor < 0 {
		factor = 0
	}
	sp.PopMap.Scale(factor)
	sp.Population = int(math.Round(sp.PopMap.Sum()))
}

// HalveSpecies cuts a species' population in half, floored at 100. Used
// when a dependent civilization collapses.
func (e *Ecosystem) HalveSpecies(sp *Species) {
	if sp.Extinct {
		return
	}
	sp.PopMap.Scale(0.5)
	sp.Population = int(math.Round(sp.PopMap.Sum()))
	if sp.Population < 100 {
		sp.Population = 100
	}
}

// SapienceIntelligence returns the intelligence threshold a species
// must cross to become sapient.
func (e *Ecosystem) SapienceIntelligence() float64 { return e.cfg.SapienceIntelligence }

// SapienceComplexity returns the complexity threshold for sapience.
func (e *Ecosystem) SapienceComplexity() float64 { return e.cfg.SapienceComplexity }

// TotalPopulation sums the population of every living species.
func (e *Ecosystem) TotalPopulation() int {
	total := 0
	for _, sp := range e.Species {
		total += sp.Population
	}
	return total
}

// SpeciesByID returns the living species with the given ID, or nil.
func (e *Ecosystem) SpeciesByID(id int) *Species {
	for _, sp := range e.Species {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

func (e *Ecosystem) logStatus() {
	var counts [numTrophicLevels]int
	for _, sp := range e.Species {
		counts[sp.Trophic]++
	}
	slog.Info("ecosystem status",
		"year", e.year,
		"species", len(e.Species),
		"extinctions", e.TotalExtinctions,
		"population", e.TotalPopulation(),
		"producers", counts[Producer],
		"herbivores", counts[Herbivore],
		"omnivores", counts[Omnivore],
		"carnivores", counts[Carnivore],
		"decomposers", counts[Decomposer],
	)
}

// DominantSpecies describes one entry of the top-population list.
type DominantSpecies struct {
	Name       string `json:"name"`
	Population int    `json:"population"`
}

// Summary is a read-only snapshot of the ecosystem for presentation.
type Summary struct {
	TotalSpecies    int               `json:"total_species"`
	ExtinctSpecies  int               `json:"extinct_species"`
	TotalPopulation int               `json:"total_population"`
	TrophicCounts   map[string]int    `json:"trophic_distribution"`
	Dominant        []DominantSpecies `json:"dominant_species"`
	Biodiversity    float64           `json:"biodiversity_factor"`
	EvolutionRate   float64           `json:"evolution_rate"`
}

// GetSummary returns the ecosystem snapshot with the top three species
// by population.
func (e *Ecosystem) GetSummary() Summary {
	counts := make(map[string]int)
	for _, sp := range e.Species {
		counts[sp.Trophic.Name()]++
	}

	top := make([]*Species, 0, 3)
	for _, sp := range e.Species {
		inserted := false
		for i, t := range top {
			if sp.Population > t.Population {
				top = append(top[:i], append([]*Species{sp}, top[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted && len(top) < 3 {
			top = append(top, sp)
		}
		if len(top) > 3 {
			top = top[:3]
		}
	}
	dominant := make([]DominantSpecies, 0, len(top))
	for _, sp := range top {
		dominant = append(dominant, DominantSpecies{Name: sp.Name, Population: sp.Population})
	}

	return Summary{
		TotalSpecies:    len(e.Species),
		ExtinctSpecies:  e.TotalExtinctions,
		TotalPopulation: e.TotalPopulation(),
		TrophicCounts:   counts,
		Dominant:        dominant,
		Biodiversity:    e.Biodiversity,
		EvolutionRate:   e.EvolutionRate,
	}
}
