// Per-cell population dynamics: growth, predation, local disasters, and
// migration. Writes go into a fresh buffer read from the prior state so
// cell iteration order cannot bias the result.
package ecosystem

import (
	"math"
	"math/rand"

	"github.com/varkess/ecosphere/internal/grid"
)

// updatePopulation advances one species' density field by one year.
func (e *Ecosystem) updatePopulation(sp *Species, rng *rand.Rand) {
	size := e.geo.Size
	baseGrowth := sp.ReproductionRate * 0.2
	carrying := e.cfg.CarryingCapacity * sp.Size
	migrationRate := 0.1 * sp.Adaptability
	predators := e.predatorsOf[sp.ID]

	next := sp.PopMap.Copy()
	next.Fill(0)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			local := sp.PopMap.At(x, y)
			if local <= 0 {
				continue
			}

			suitability := sp.Habitat[e.geo.BiomeAt(x, y)]

			// Climate fitness. Producers have an explicit temperature
			// tolerance curve and depend directly on rainfall.
			tempFactor, precipFactor := 1.0, 1.0
			if sp.Trophic == Producer {
				const idealTemp, tolerance = 0.5, 0.3
				if diff := math.Abs(e.clim.Temperature.At(x, y) - idealTemp); diff > tolerance {
					tempFactor = 1 - (diff - tolerance)
				}
				precipFactor = e.clim.Precipitation.At(x, y) * 2
			}

			growth := baseGrowth * suitability * tempFactor * precipFactor
			growth *= math.Max(0, 1-local/carrying)

			// Predation loss, capped at half the local population.
			predationLoss := 0.0
			for _, pred := range predators {
				predPop := pred.PopMap.At(x, y)
				if predPop <= 0 {
					continue
				}
				efficiency := 0.1 * (pred.Size / sp.Size) * (pred.Intelligence / sp.Intelligence)
				predationLoss += efficiency * predPop / local
			}
			if predationLoss > 0.5 {
				predationLoss = 0.5
			}

			newPop := local * (1 + growth - predationLoss)

			// Local disasters: disease, floods, fires.
			if rng.Float64() < e.cfg.DisasterChance {
				newPop *= 1 - (0.1 + rng.Float64()*0.4)
			}

			// A migration share leaves for the 8 neighbors, weighted by
			// their habitat suitability.
			migrating := newPop * migrationRate
			newPop -= migrating
			for _, d := range grid.Neighbors8 {
				destSuit := sp.Habitat[e.geo.BiomeAt(x+d[0], y+d[1])]
				if destSuit > 0 {
					next.Add(x+d[0], y+d[1], migrating/8*destSuit)
				}
			}

			next.Add(x, y, newPop)
		}
	}

	sp.PopMap = next
	sp.Population = int(math.Round(next.Sum()))
}
