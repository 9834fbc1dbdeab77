// The living entities of the ecosystem. Each species carries a
// heritable trait vector, biome habitat weights, and a per-cell
// population density field on the shared grid.
package ecosystem

import (
	"math/rand"

	"github.com/varkess/ecosphere/internal/geography"
	"github.com/varkess/ecosphere/internal/grid"
)

// Trophic is a species' position in the food chain.
type Trophic uint8

const (
	Producer Trophic = iota
	Herbivore
	Omnivore
	Carnivore
	Decomposer

	numTrophicLevels = 5
)

// Name returns a human-readable name for the trophic level.
func (t Trophic) Name() string {
	switch t {
	case Producer:
		return "Producer"
	case Herbivore:
		return "Herbivore"
	case Omnivore:
		return "Omnivore"
	case Carnivore:
		return "Carnivore"
	case Decomposer:
		return "Decomposer"
	default:
		return "Unknown"
	}
}

// Species is one living species. Predator/prey links are owned by the
// Ecosystem's trophic graph, not by the species itself.
type Species struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Trophic  Trophic `json:"trophic"`
	ParentID int     `json:"parent_id"` // 0 for first-generation species

	// Heritable traits, all in [0, 1].
	Size             float64 `json:"size"`
	Complexity       float64 `json:"complexity"`
	Intelligence     float64 `json:"intelligence"`
	Adaptability     float64 `json:"adaptability"`
	ReproductionRate float64 `json:"reproduction_rate"`
	Lifespan         float64 `json:"lifespan"`

	// Habitat suitability per biome, in [0, 1].
	Habitat [geography.NumBiomes]float64 `json:"-"`

	Population int         `json:"population"`
	PopMap     *grid.Field `json:"-"`

	Age             int    `json:"age"`
	Extinct         bool   `json:"extinct"`
	ExtinctionCause string `json:"extinction_cause,omitempty"`
}

var (
	namePrefixes = []string{"Xeno", "Neo", "Mega", "Micro", "Macro", "Poly", "Crypto", "Pseudo", "Proto", "Meta"}
	nameMiddles  = []string{"morph", "pod", "derm", "saur", "phyll", "zoa", "theri", "cephal", "branch", "cyst"}
	nameSuffixes = []string{"us", "a", "um", "is", "ae", "idae", "oides", "ella", "ium", "on"}
)

func speciesName(rng *rand.Rand) string {
	return namePrefixes[rng.Intn(len(namePrefixes))] +
		nameMiddles[rng.Intn(len(nameMiddles))] +
		nameSuffixes[rng.Intn(len(nameSuffixes))]
}

// newSpecies creates a first-generation species with random traits and
// an initial habitat-weighted population distribution.
func (e *Ecosystem) newSpecies(trophic Trophic, rng *rand.Rand) *Species {
	sp := &Species{
		ID:               e.nextID,
		Name:             speciesName(rng),
		Trophic:          trophic,
		Size:             0.1 + rng.Float64()*0.9,
		Complexity:       0.1 + rng.Float64()*0.4,
		Intelligence:     0.01 + rng.Float64()*0.09,
		Adaptability:     0.3 + rng.Float64()*0.4,
		ReproductionRate: 0.3 + rng.Float64()*0.5,
		Lifespan:         0.2 + rng.Float64()*0.6,
		Population:       100 + rng.Intn(901),
		PopMap:           grid.NewField(e.geo.Size),
	}
	e.nextID++

	sp.generateHabitat(rng)
	sp.distributePopulation(e.geo)
	return sp
}

// newChildSpecies creates a speciation offshoot: the parent's traits
// with small mutations, and occasionally a trophic shift of one step.
// Population and density transfer happens at the call site.
func (e *Ecosystem) newChildSpecies(parent *Species, rng *rand.Rand) *Species {
	mutate := func(v float64) float64 {
		v += rng.Float64()*0.2 - 0.1
		if v < 0.01 {
			v = 0.01
		}
		if v > 0.99 {
			v = 0.99
		}
		return v
	}

	sp := &Species{
		ID:               e.nextID,
		Name:             parent.Name + " " + string(rune('a'+rng.Intn(26))),
		Trophic:          parent.Trophic,
		ParentID:         parent.ID,
		Size:             mutate(parent.Size),
		Complexity:       mutate(parent.Complexity),
		Intelligence:     mutate(parent.Intelligence),
		Adaptability:     mutate(parent.Adaptability),
		ReproductionRate: mutate(parent.ReproductionRate),
		Lifespan:         mutate(parent.Lifespan),
		PopMap:           grid.NewField(e.geo.Size),
	}
	e.nextID++

	// Trophic level drifts by at most one step.
	if rng.Float64() < 0.1 {
		lo, hi := int(sp.Trophic)-1, int(sp.Trophic)+1
		if lo < 0 {
			lo = 0
		}
		if hi > numTrophicLevels-1 {
			hi = numTrophicLevels - 1
		}
		sp.Trophic = Trophic(lo + rng.Intn(hi-lo+1))
	}

	sp.generateHabitat(rng)
	return sp
}

// generateHabitat draws biome suitability weights: a low floor for every
// biome, a few strongly preferred ones, and trophic-level adjustments.
func (sp *Species) generateHabitat(rng *rand.Rand) {
	for i := range sp.Habitat {
		sp.Habitat[i] = rng.Float64() * 0.3
	}

	numPreferred := 1 + rng.Intn(3)
	for i := 0; i < numPreferred; i++ {
		b := rng.Intn(geography.NumBiomes)
		sp.Habitat[b] = 0.7 + rng.Float64()*0.3
	}

	switch sp.Trophic {
	case Producer:
		sp.Habitat[geography.BiomeDesert] *= 0.5
		sp.Habitat[geography.BiomeOcean] *= 1.5
		sp.Habitat[geography.BiomeShallowWater] *= 1.5
	case Decomposer:
		sp.Habitat[geography.BiomeForest] *= 1.5
		sp.Habitat[geography.BiomeJungle] *= 1.5
		sp.Habitat[geography.BiomeSwamp] *= 2.0
	case Carnivore:
		sp.Habitat[geography.BiomeDesert] *= 0.7
	}

	for i, v := range sp.Habitat {
		if v > 1 {
			sp.Habitat[i] = 1
		}
	}
}

// distributePopulation spreads the population over the grid in
// proportion to habitat suitability. With no suitable habitat at all the
// distribution is uniform.
func (sp *Species) distributePopulation(geo *geography.Geography) {
	size := geo.Size
	total := 0.0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			total += sp.Habitat[geo.BiomeAt(x, y)]
		}
	}

	if total <= 0 {
		sp.PopMap.Fill(float64(sp.Population) / float64(size*size))
		return
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sp.PopMap.Set(x, y, sp.Habitat[geo.BiomeAt(x, y)]/total*float64(sp.Population))
		}
	}
}

// LocalPopulation returns the species density at a cell.
func (sp *Species) LocalPopulation(x, y int) float64 {
	return sp.PopMap.At(x, y)
}

// markExtinct flags the species as dead and zeroes its population.
func (sp *Species) markExtinct(cause string) {
	if sp.Extinct {
		return
	}
	sp.Extinct = true
	sp.ExtinctionCause = cause
	sp.Population = 0
	sp.PopMap.Fill(0)
}
