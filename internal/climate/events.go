package climate

import (
	"math"
	"math/rand"

	"github.com/varkess/ecosphere/internal/grid"
)

// WeatherKind identifies a class of weather event.
type WeatherKind uint8

const (
	WeatherClear WeatherKind = iota
	WeatherCloudy
	WeatherRainy
	WeatherStormy
	WeatherSnowy
	WeatherFoggy
	WeatherHeatwave
	WeatherBlizzard
	WeatherHurricane
	WeatherDrought

	numWeatherKinds = 10
)

// Name returns a human-readable name for the weather kind.
func (k WeatherKind) Name() string {
	switch k {
	case WeatherClear:
		return "Clear"
	case WeatherCloudy:
		return "Cloudy"
	case WeatherRainy:
		return "Rainy"
	case WeatherStormy:
		return "Stormy"
	case WeatherSnowy:
		return "Snowy"
	case WeatherFoggy:
		return "Foggy"
	case WeatherHeatwave:
		return "Heatwave"
	case WeatherBlizzard:
		return "Blizzard"
	case WeatherHurricane:
		return "Hurricane"
	case WeatherDrought:
		return "Drought"
	default:
		return "Unknown"
	}
}

// WeatherEvent is a localized weather system with a decaying-radius
// intensity profile and a bounded lifetime in days.
type WeatherEvent struct {
	Kind       WeatherKind `json:"kind"`
	X, Y       int         `json:"-"`
	Radius     int         `json:"radius"`
	Intensity  float64     `json:"intensity"`
	Duration   int         `json:"duration"` // Days
	DaysActive int         `json:"days_active"`
}

// spawnEvent draws a weather event with kind weights adjusted for the
// season and accumulated global warming.
func (c *Climate) spawnEvent(rng *rand.Rand) *WeatherEvent {
	weights := [numWeatherKinds]float64{}
	for i := range weights {
		weights[i] = 1
	}

	switch c.Season {
	case SeasonSummer:
		weights[WeatherHeatwave] *= 3
		weights[WeatherDrought] *= 2
	case SeasonWinter:
		weights[WeatherBlizzard] *= 3
		weights[WeatherSnowy] *= 2
	}

	weights[WeatherHeatwave] *= 1 + c.GlobalWarming*5
	weights[WeatherHurricane] *= 1 + c.GlobalWarming*3
	weights[WeatherDrought] *= 1 + c.GlobalWarming*2

	total := 0.0
	for _, w := range weights {
		total += w
	}
	pick := rng.Float64() * total
	kind := WeatherClear
	for i, w := range weights {
		pick -= w
		if pick < 0 {
			kind = WeatherKind(i)
			break
		}
	}

	intensity := 0.3 + rng.Float64()*0.7
	return &WeatherEvent{
		Kind:      kind,
		X:         rng.Intn(c.Size),
		Y:         rng.Intn(c.Size),
		Radius:    int(10 * intensity),
		Intensity: intensity,
		Duration:  1 + rng.Intn(c.cfg.EventDurationMax),
	}
}

// applyEvent reapplies the event's temperature, precipitation, and wind
// deltas over its radius, decaying with distance from the center.
func (c *Climate) applyEvent(ev *WeatherEvent) {
	if ev.Radius <= 0 {
		return
	}
	for dy := -ev.Radius; dy <= ev.Radius; dy++ {
		for dx := -ev.Radius; dx <= ev.Radius; dx++ {
			dist := math.Sqrt(float64(dx*dx + dy*dy))
			if dist > float64(ev.Radius) {
				continue
			}
			x, y := grid.Wrap(ev.X+dx, c.Size), grid.Wrap(ev.Y+dy, c.Size)
			effect := (1 - dist/float64(ev.Radius)) * ev.Intensity

			switch ev.Kind {
			case WeatherRainy, WeatherStormy:
				c.Precipitation.Add(x, y, effect*0.3)
			case WeatherHeatwave:
				c.Temperature.Add(x, y, effect*0.2)
				c.Precipitation.Add(x, y, -effect*0.3)
			case WeatherBlizzard, WeatherSnowy:
				c.Temperature.Add(x, y, -effect*0.2)
				c.Precipitation.Add(x, y, effect*0.2)
			case WeatherHurricane:
				c.Precipitation.Add(x, y, effect*0.5)
				c.WindStrength.Add(x, y, effect*0.7)
			case WeatherDrought:
				c.Precipitation.Add(x, y, -effect*0.4)
				c.Temperature.Add(x, y, effect*0.1)
			}
		}
	}

	c.Temperature.Clamp(0, 1)
	c.Precipitation.Clamp(0, 1)
	c.WindStrength.Clamp(0, 1)
}
