// Terrain generation using layered simplex noise.
// Builds elevation, moisture, and base temperature maps, then derives
// biomes. Everything here is static after Generate except for explicit
// tectonic and catastrophe edits.
package geography

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/grid"
)

// Geography holds the static terrain of the planet: one elevation,
// moisture, and base-temperature field plus a biome per cell, all on the
// shared toroidal grid.
type Geography struct {
	Size int

	Elevation       *grid.Field
	Moisture        *grid.Field
	BaseTemperature *grid.Field
	Biomes          []Biome

	SeaLevel      float64 // Calibrated so LandPercent of cells lie above it
	MountainLevel float64

	// Planetary characteristics drawn at construction.
	LandPercent      float64
	HasAxialTilt     bool
	AxialTilt        float64 // Degrees
	DayLength        float64 // Hours
	YearLength       int     // Days
	NumPlates        int
	TectonicActivity float64

	cfg config.GeographyParams
}

// New draws the planetary characteristics and allocates the terrain
// fields. Generate must be called before the fields are meaningful.
func New(size int, cfg config.GeographyParams, rng *rand.Rand) *Geography {
	g := &Geography{
		Size:            size,
		Elevation:       grid.NewField(size),
		Moisture:        grid.NewField(size),
		BaseTemperature: grid.NewField(size),
		Biomes:          make([]Biome, size*size),
		MountainLevel:   cfg.MountainLevel,
		cfg:             cfg,
	}

	g.LandPercent = cfg.LandPercentMin + rng.Float64()*(cfg.LandPercentMax-cfg.LandPercentMin)
	g.HasAxialTilt = rng.Float64() < cfg.AxialTiltChance
	if g.HasAxialTilt {
		g.AxialTilt = 10 + rng.Float64()*20
	}
	g.DayLength = 18 + rng.Float64()*18
	g.YearLength = cfg.YearLengthMin + rng.Intn(cfg.YearLengthMax-cfg.YearLengthMin+1)
	g.NumPlates = 5 + rng.Intn(11)
	g.TectonicActivity = 0.1 + rng.Float64()*0.9

	return g
}

// Generate builds the complete terrain: elevation with a calibrated sea
// level, moisture with coastal boost, latitude-driven base temperature,
// and the biome classification.
func (g *Geography) Generate(rng *rand.Rand) {
	g.generateElevation(rng)
	g.generateMoisture(rng)
	g.generateBaseTemperature()
	g.classifyBiomes(rng)

	land := g.LandCells()
	slog.Info("terrain generated",
		"land_percent", float64(land)/float64(g.Size*g.Size)*100,
		"sea_level", g.SeaLevel,
		"axial_tilt", g.AxialTilt,
		"year_length", g.YearLength,
		"tectonic_activity", g.TectonicActivity,
	)
}

// octaveNoise layers multiple simplex frequencies into fractal noise.
// Sampling wraps the grid onto a circle per axis so the field is
// seamless on the torus.
func octaveNoise(noise opensimplex.Noise, x, y, size float64, octaves int, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	frequency := 1.0

	// Toroidal sampling: each axis maps onto a circle in noise space.
	ax := x / size * 2 * math.Pi
	ay := y / size * 2 * math.Pi

	for i := 0; i < octaves; i++ {
		nx := math.Cos(ax) * frequency
		ny := math.Sin(ax) * frequency
		nz := math.Cos(ay) * frequency
		nw := math.Sin(ay) * frequency
		total += noise.Eval4(nx, ny, nz, nw) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func (g *Geography) generateElevation(rng *rand.Rand) {
	noise := opensimplex.NewNormalized(rng.Int63())

	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			v := octaveNoise(noise, float64(x), float64(y), float64(g.Size), g.cfg.ElevationOctaves, 0.5)
			g.Elevation.Set(x, y, v)
		}
	}
	g.Elevation.Normalize()

	// Sea level is the elevation percentile matching the target land
	// fraction, not a fixed constant.
	sorted := make([]float64, len(g.Elevation.Cells))
	copy(sorted, g.Elevation.Cells)
	sort.Float64s(sorted)
	idx := int((1 - g.LandPercent/100) * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	g.SeaLevel = sorted[idx]
}

func (g *Geography) generateMoisture(rng *rand.Rand) {
	noise := opensimplex.NewNormalized(rng.Int63())

	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			v := octaveNoise(noise, float64(x), float64(y), float64(g.Size), g.cfg.MoistureOctaves, 0.6)
			g.Moisture.Set(x, y, v)
		}
	}
	g.Moisture.Normalize()

	// Land near open water is wetter, with the boost falling off over
	// a 10-cell search radius.
	const searchRadius = 10
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.Elevation.At(x, y) <= g.SeaLevel {
				continue
			}
			minDist := math.Inf(1)
			for dy := -searchRadius; dy <= searchRadius; dy++ {
				for dx := -searchRadius; dx <= searchRadius; dx++ {
					if g.Elevation.At(x+dx, y+dy) <= g.SeaLevel {
						d := math.Sqrt(float64(dx*dx + dy*dy))
						if d < minDist {
							minDist = d
						}
					}
				}
			}
			if minDist < searchRadius {
				boost := 1 - minDist/searchRadius
				g.Moisture.Set(x, y, g.Moisture.At(x, y)*0.7+boost*0.3)
			}
		}
	}
}

func (g *Geography) generateBaseTemperature() {
	for y := 0; y < g.Size; y++ {
		// Latitude in [-1, 1]; the equator sits at grid middle.
		latitude := 2*(float64(y)/float64(g.Size)) - 1
		baseTemp := 1 - latitude*latitude

		for x := 0; x < g.Size; x++ {
			t := baseTemp
			if elev := g.Elevation.At(x, y); elev > g.SeaLevel {
				altitude := (elev - g.SeaLevel) / (1 - g.SeaLevel)
				t -= altitude * 0.5
			}
			g.BaseTemperature.Set(x, y, t)
		}
	}
	g.BaseTemperature.Normalize()
}

func (g *Geography) classifyBiomes(rng *rand.Rand) {
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			g.Biomes[y*g.Size+x] = g.deriveBiome(x, y, rng)
		}
	}
}

// deriveBiome runs the fixed decision tree over elevation, moisture,
// and temperature; high mountain cells have a small tectonic-scaled
// chance of being volcanic.
func (g *Geography) deriveBiome(x, y int, rng *rand.Rand) Biome {
	elev := g.Elevation.At(x, y)
	moist := g.Moisture.At(x, y)
	temp := g.BaseTemperature.At(x, y)

	if elev <= g.SeaLevel {
		if elev > g.SeaLevel-0.1 {
			return BiomeShallowWater
		}
		return BiomeOcean
	}
	if elev <= g.SeaLevel+0.02 {
		return BiomeBeach
	}
	if elev >= g.MountainLevel {
		if temp < 0.2 {
			return BiomeIce
		}
		if rng.Float64() < g.cfg.VolcanicChance*g.TectonicActivity {
			return BiomeVolcanic
		}
		return BiomeMountains
	}

	switch {
	case temp < 0.2:
		return BiomeTundra
	case temp < 0.4:
		if moist < 0.3 {
			return BiomePlains
		}
		return BiomeForest
	default:
		switch {
		case moist < 0.2:
			return BiomeDesert
		case moist < 0.5:
			return BiomeSavanna
		case moist < 0.8:
			return BiomeForest
		default:
			if temp > 0.7 {
				return BiomeJungle
			}
			return BiomeSwamp
		}
	}
}

// BiomeAt returns the biome of the cell at (x, y), wrapping both axes.
func (g *Geography) BiomeAt(x, y int) Biome {
	return g.Biomes[grid.Wrap(y, g.Size)*g.Size+grid.Wrap(x, g.Size)]
}

// IsLand reports whether the cell lies above sea level.
func (g *Geography) IsLand(x, y int) bool {
	return g.Elevation.At(x, y) > g.SeaLevel
}

// LandCells returns the number of cells above sea level.
func (g *Geography) LandCells() int {
	n := 0
	for _, v := range g.Elevation.Cells {
		if v > g.SeaLevel {
			n++
		}
	}
	return n
}

// BiomeStats returns the fraction of the grid covered by each biome.
func (g *Geography) BiomeStats() [NumBiomes]float64 {
	var counts [NumBiomes]float64
	for _, b := range g.Biomes {
		counts[b]++
	}
	total := float64(g.Size * g.Size)
	for i := range counts {
		counts[i] /= total
	}
	return counts
}

// ApplyTectonicEvent applies a quake or eruption: volcanic uplift near a
// random epicenter and probabilistic terrain flips farther out. A
// negative intensity draws one scaled by the planet's tectonic activity.
func (g *Geography) ApplyTectonicEvent(rng *rand.Rand, intensity float64) {
	if intensity < 0 {
		intensity = (0.1 + rng.Float64()*0.9) * g.TectonicActivity
	}
	if intensity > 1 {
		intensity = 1
	}

	ex := rng.Intn(g.Size)
	ey := rng.Intn(g.Size)
	radius := int(10 * intensity)

	volcanic := g.BiomeAt(ex, ey) == BiomeVolcanic || rng.Float64() < 0.3
	kind := "quake"
	if volcanic {
		kind = "eruption"
	}
	slog.Info("tectonic event", "kind", kind, "intensity", intensity, "x", ex, "y", ey, "radius", radius)
	if radius == 0 {
		return
	}

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			dist := math.Sqrt(float64(dx*dx + dy*dy))
			if dist > float64(radius) {
				continue
			}
			x, y := grid.Wrap(ex+dx, g.Size), grid.Wrap(ey+dy, g.Size)
			effect := (1 - dist/float64(radius)) * intensity
			idx := y*g.Size + x

			if volcanic && dist <= float64(radius)/3 {
				if g.Elevation.At(x, y) > g.SeaLevel {
					g.Biomes[idx] = BiomeVolcanic
					g.Elevation.Set(x, y, math.Min(1, g.Elevation.At(x, y)+effect*0.2))
				}
				continue
			}

			if effect > 0.5 && rng.Float64() < effect*0.3 {
				if g.Elevation.At(x, y) > g.SeaLevel {
					// Fissures can open and flood.
					if rng.Float64() < 0.1 {
						g.Elevation.Set(x, y, g.SeaLevel-0.05)
						g.Biomes[idx] = BiomeShallowWater
					}
				} else if rng.Float64() < 0.1 {
					// New land can emerge offshore.
					g.Elevation.Set(x, y, g.SeaLevel+0.05)
					g.Biomes[idx] = BiomeBeach
				}
			}
		}
	}
}

// Summary is a read-only snapshot of the terrain for presentation.
type Summary struct {
	LandPercent      float64 `json:"land_percent"`
	SeaLevel         float64 `json:"sea_level"`
	AxialTilt        float64 `json:"axial_tilt"`
	DayLength        float64 `json:"day_length"`
	YearLength       int     `json:"year_length"`
	TectonicActivity float64 `json:"tectonic_activity"`
}

// GetSummary returns the terrain snapshot.
func (g *Geography) GetSummary() Summary {
	return Summary{
		LandPercent:      float64(g.LandCells()) / float64(g.Size*g.Size) * 100,
		SeaLevel:         g.SeaLevel,
		AxialTilt:        g.AxialTilt,
		DayLength:        g.DayLength,
		YearLength:       g.YearLength,
		TectonicActivity: g.TectonicActivity,
	}
}
