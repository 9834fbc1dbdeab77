// Trophic graph: who eats whom. The relation is a dense graph, not a
// hierarchy, so it lives on the Ecosystem as an explicit edge list and
// is rebuilt wholesale on a periodic cadence instead of being patched
// incrementally.
package ecosystem

import "math/rand"

// RebuildTrophicGraph reassigns predator/prey edges from scratch using
// the trophic-category pairing rules: herbivores and omnivores graze
// producers, carnivores and omnivores hunt herbivores, omnivores, and
// sufficiently smaller carnivores. Decomposers feed on dead matter and
// take no edges. Species are walked in creation order so the RNG draws
// are deterministic.
func (e *Ecosystem) RebuildTrophicGraph(rng *rand.Rand) {
	e.predatorsOf = make(map[int][]*Species, len(e.Species))
	e.preyOf = make(map[int][]*Species, len(e.Species))

	link := func(predator, prey *Species) {
		e.preyOf[predator.ID] = append(e.preyOf[predator.ID], prey)
		e.predatorsOf[prey.ID] = append(e.predatorsOf[prey.ID], predator)
	}

	for _, predator := range e.Species {
		if predator.Extinct {
			continue
		}

		if predator.Trophic == Herbivore || predator.Trophic == Omnivore {
			for _, prey := range e.Species {
				if prey.Trophic == Producer && !prey.Extinct && rng.Float64() < 0.7 {
					link(predator, prey)
				}
			}
		}

		if predator.Trophic == Carnivore || predator.Trophic == Omnivore {
			for _, prey := range e.Species {
				if prey.Extinct || prey == predator {
					continue
				}
				switch prey.Trophic {
				case Herbivore:
					if rng.Float64() < 0.8 {
						link(predator, prey)
					}
				case Omnivore:
					if rng.Float64() < 0.5 {
						link(predator, prey)
					}
				case Carnivore:
					if predator.Size > prey.Size*1.2 && rng.Float64() < 0.3 {
						link(predator, prey)
					}
				}
			}
		}
	}
}

// PredatorsOf returns the current predators of a species. The slice is
// owned by the trophic graph; callers must not mutate it.
func (e *Ecosystem) PredatorsOf(sp *Species) []*Species {
	return e.predatorsOf[sp.ID]
}

// PreyOf returns the current prey of a species. The slice is owned by
// the trophic graph; callers must not mutate it.
func (e *Ecosystem) PreyOf(sp *Species) []*Species {
	return e.preyOf[sp.ID]
}
