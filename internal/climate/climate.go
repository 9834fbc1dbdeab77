// Package climate derives dynamic weather from the static terrain:
// seasonal temperature and precipitation, wind patterns with heat and
// moisture diffusion, orographic rainfall, localized weather events, and
// a slow global-warming trend.
package climate

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/varkess/ecosphere/internal/catastrophe"
	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/geography"
	"github.com/varkess/ecosphere/internal/grid"
)

// Season constants, quarter-year each.
const (
	SeasonSpring = 0
	SeasonSummer = 1
	SeasonAutumn = 2
	SeasonWinter = 3
)

// SeasonName returns a human-readable season name.
func SeasonName(season int) string {
	switch season {
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	case SeasonWinter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// Climate holds the live weather fields, a pool of active weather
// events, and the long-term trend scalars. It reads the terrain but
// never mutates it.
type Climate struct {
	Size int

	Temperature   *grid.Field
	Precipitation *grid.Field
	WindDir       *grid.Field // Degrees
	WindStrength  *grid.Field // [0, 1]

	Day    int
	Season int

	Events []*WeatherEvent

	GlobalWarming float64 // Monotonic, capped at 1
	Stability     float64 // Lower stability spawns more events

	geo          *geography.Geography
	seasonLength int
	cfg          config.ClimateParams

	// Reused snapshot buffers for order-independent diffusion.
	tempBuf   *grid.Field
	precipBuf *grid.Field
}

// New allocates the climate for the given terrain. Initialize must run
// after the terrain has been generated.
func New(geo *geography.Geography, cfg config.ClimateParams, rng *rand.Rand) *Climate {
	size := geo.Size
	return &Climate{
		Size:          size,
		Temperature:   grid.NewField(size),
		Precipitation: grid.NewField(size),
		WindDir:       grid.NewField(size),
		WindStrength:  grid.NewField(size),
		Stability:     cfg.StabilityMin + rng.Float64()*(cfg.StabilityMax-cfg.StabilityMin),
		geo:           geo,
		seasonLength:  geo.YearLength / 4,
		cfg:           cfg,
		tempBuf:       grid.NewField(size),
		precipBuf:     grid.NewField(size),
	}
}

// Initialize seeds the live fields from the terrain baselines and random
// winds, then applies the opening season.
func (c *Climate) Initialize(rng *rand.Rand) {
	c.Temperature.CopyFrom(c.geo.BaseTemperature)
	c.Precipitation.CopyFrom(c.geo.Moisture)

	for i := range c.WindDir.Cells {
		c.WindDir.Cells[i] = rng.Float64() * 360
		c.WindStrength.Cells[i] = rng.Float64()
	}

	c.applySeasonalEffects()
	slog.Info("climate initialized", "season", SeasonName(c.Season), "stability", c.Stability)
}

// SimulateYear runs the full day-by-day weather year and then the
// long-term trend step. industrialLoad is the aggregate population of
// industrial-or-higher civilizations weighted by tiers past industrial,
// in millions; the orchestrator computes it so this layer never reads
// the civilization state directly.
func (c *Climate) SimulateYear(rng *rand.Rand, industrialLoad float64) {
	for day := 0; day < c.geo.YearLength; day++ {
		c.Day = day

		season := (day / c.seasonLength) % 4
		if season != c.Season {
			c.Season = season
			c.applySeasonalEffects()
		}

		if day%c.cfg.WeatherInterval == 0 {
			c.updateWind(rng)
			c.diffuseHeatAndMoisture()
			c.applyOrographicEffect()
		}

		c.maybeSpawnEvent(rng)
		c.updateActiveEvents()
	}

	c.updateLongTermTrends(industrialLoad)
}

// applySeasonalEffects resets temperature and precipitation from the
// terrain baselines and layers a latitude-weighted seasonal offset on
// top. Planets without axial tilt get a fifth of the swing.
func (c *Climate) applySeasonalEffects() {
	seasonTemp := [4]float64{0.0, 0.3, 0.0, -0.3}
	seasonPrecip := [4]float64{0.2, -0.1, 0.2, 0.1}

	damp := 1.0
	if !c.geo.HasAxialTilt {
		damp = 0.2
	}
	tempFactor := seasonTemp[c.Season] * damp
	precipFactor := seasonPrecip[c.Season] * damp

	c.Temperature.CopyFrom(c.geo.BaseTemperature)
	c.Precipitation.CopyFrom(c.geo.Moisture)

	for y := 0; y < c.Size; y++ {
		latitude := math.Abs(2*(float64(y)/float64(c.Size)) - 1)
		intensity := latitude * c.geo.AxialTilt / 30

		for x := 0; x < c.Size; x++ {
			c.Temperature.Add(x, y, tempFactor*intensity)
			c.Precipitation.Add(x, y, precipFactor*intensity)
		}
	}

	c.Temperature.Clamp(0, 1)
	c.Precipitation.Clamp(0, 1)
}

// updateWind recomputes the wind field from latitude bands, the local
// temperature gradient, an approximate Coriolis term, and noise.
func (c *Climate) updateWind(rng *rand.Rand) {
	const (
		coriolisStrength = 0.2
		thermalGradient  = 0.3
	)

	for y := 0; y < c.Size; y++ {
		latitude := 2*(float64(y)/float64(c.Size)) - 1

		// Prevailing direction by latitude band: trades, westerlies,
		// polar easterlies.
		var base float64
		switch {
		case math.Abs(latitude) < 0.3:
			base = 270
		case math.Abs(latitude) < 0.6:
			base = 90
		default:
			base = 90
			if latitude > 0 {
				base = 270
			}
		}

		for x := 0; x < c.Size; x++ {
			gradX := c.Temperature.At(x, y+1) - c.Temperature.At(x, y-1)
			gradY := c.Temperature.At(x+1, y) - c.Temperature.At(x-1, y)

			turn := math.Atan2(gradY, gradX) * 180 / math.Pi
			coriolis := coriolisStrength * latitude * 30

			dir := math.Mod(base+turn*thermalGradient+coriolis+(rng.Float64()*20-10), 360)
			if dir < 0 {
				dir += 360
			}
			c.WindDir.Set(x, y, dir)

			strength := 0.3 + 0.7*(math.Abs(gradX)+math.Abs(gradY)) + (rng.Float64()*0.2 - 0.1)
			c.WindStrength.Set(x, y, math.Max(0, math.Min(1, strength)))
		}
	}
}

// diffuseHeatAndMoisture moves a fraction of each cell's temperature
// differential to its downwind target, and lets open water feed moisture
// downwind. Reads come from a pre-update snapshot so iteration order
// cannot bias the result.
func (c *Climate) diffuseHeatAndMoisture() {
	c.tempBuf.CopyFrom(c.Temperature)

	rate := c.cfg.DiffusionRate

	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			dir := c.WindDir.At(x, y) * math.Pi / 180
			strength := c.WindStrength.At(x, y)

			dx := int(math.Cos(dir) * strength * 3)
			dy := int(math.Sin(dir) * strength * 3)
			if dx == 0 && dy == 0 {
				continue
			}
			tx, ty := grid.Wrap(x+dx, c.Size), grid.Wrap(y+dy, c.Size)

			tempDiff := c.tempBuf.At(x, y) - c.tempBuf.At(tx, ty)
			c.Temperature.Add(tx, ty, tempDiff*rate*strength)

			if c.geo.Elevation.At(x, y) <= c.geo.SeaLevel {
				c.Precipitation.Add(tx, ty, strength*rate*2)
			}
		}
	}

	c.Temperature.Clamp(0, 1)
	c.Precipitation.Clamp(0, 1)
}

// applyOrographicEffect adds rain on windward slopes proportional to the
// elevation climbed from the upwind cell, and removes a fraction of that
// gain in the corresponding rain shadow.
func (c *Climate) applyOrographicEffect() {
	c.precipBuf.CopyFrom(c.Precipitation)

	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if c.geo.Elevation.At(x, y) <= c.geo.SeaLevel {
				continue
			}
			dir := c.WindDir.At(x, y) * math.Pi / 180
			strength := c.WindStrength.At(x, y)

			ux := grid.Wrap(x-int(math.Cos(dir)*2), c.Size)
			uy := grid.Wrap(y-int(math.Sin(dir)*2), c.Size)

			climb := c.geo.Elevation.At(x, y) - c.geo.Elevation.At(ux, uy)
			if climb <= 0 {
				continue
			}

			gain := climb * strength * c.cfg.OrographicFactor
			c.precipBuf.Add(x, y, gain)

			lx := grid.Wrap(x+int(math.Cos(dir)*2), c.Size)
			ly := grid.Wrap(y+int(math.Sin(dir)*2), c.Size)
			c.precipBuf.Add(lx, ly, -gain*c.cfg.RainShadowFactor)
		}
	}

	c.Precipitation.CopyFrom(c.precipBuf)
	c.Precipitation.Clamp(0, 1)
}

// maybeSpawnEvent rolls the daily weather event chance, scaled up on
// unstable planets.
func (c *Climate) maybeSpawnEvent(rng *rand.Rand) {
	chance := c.cfg.EventBaseChance * (2 - c.Stability)
	if rng.Float64() >= chance {
		return
	}
	ev := c.spawnEvent(rng)
	c.Events = append(c.Events, ev)
	slog.Info("weather event",
		"kind", ev.Kind.Name(), "intensity", ev.Intensity,
		"x", ev.X, "y", ev.Y, "duration_days", ev.Duration,
	)
	c.applyEvent(ev)
}

// updateActiveEvents reapplies each live event's deltas and expires
// events past their duration.
func (c *Climate) updateActiveEvents() {
	remaining := c.Events[:0]
	for _, ev := range c.Events {
		ev.DaysActive++
		if ev.DaysActive <= ev.Duration {
			c.applyEvent(ev)
			remaining = append(remaining, ev)
		}
	}
	c.Events = remaining
}

// updateLongTermTrends nudges global warming upward in proportion to
// the industrial civilization load. The accumulator never decreases.
func (c *Climate) updateLongTermTrends(industrialLoad float64) {
	c.GlobalWarming += c.cfg.WarmingPerCapita * industrialLoad
	if c.GlobalWarming > 1 {
		c.GlobalWarming = 1
	}
}

// ApplyCatastrophe applies one-shot global deltas: impact winters cool,
// solar events warm, eruptions also scramble the winds. Severity must
// already be validated by the caller.
func (c *Climate) ApplyCatastrophe(rng *rand.Rand, kind catastrophe.Kind, severity float64) {
	switch kind {
	case catastrophe.Meteorite:
		for i := range c.Temperature.Cells {
			c.Temperature.Cells[i] -= severity * 0.3
			c.Precipitation.Cells[i] += severity * 0.2
		}
	case catastrophe.Supervolcano:
		for i := range c.Temperature.Cells {
			c.Temperature.Cells[i] -= severity * 0.25
			c.WindDir.Cells[i] += rng.Float64()*120 - 60
			c.WindStrength.Cells[i] += rng.Float64() * severity * 0.5
		}
	case catastrophe.SolarFlare:
		for i := range c.Temperature.Cells {
			c.Temperature.Cells[i] += severity * 0.15
		}
	}

	c.Temperature.Clamp(0, 1)
	c.Precipitation.Clamp(0, 1)
	c.WindStrength.Clamp(0, 1)
}

// Summary is a read-only snapshot of the climate for presentation.
type Summary struct {
	AverageTemperature   float64 `json:"average_temperature"`
	AveragePrecipitation float64 `json:"average_precipitation"`
	AverageWindStrength  float64 `json:"average_wind_strength"`
	Season               string  `json:"season"`
	GlobalWarming        float64 `json:"global_warming"`
	ActiveEvents         int     `json:"active_events"`
}

// GetSummary returns the climate snapshot.
func (c *Climate) GetSummary() Summary {
	return Summary{
		AverageTemperature:   c.Temperature.Mean(),
		AveragePrecipitation: c.Precipitation.Mean(),
		AverageWindStrength:  c.WindStrength.Mean(),
		Season:               SeasonName(c.Season),
		GlobalWarming:        c.GlobalWarming,
		ActiveEvents:         len(c.Events),
	}
}
