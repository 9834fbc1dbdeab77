// Package catastrophe defines the global disaster kinds that fan out
// across the climate, ecosystem, and civilization layers.
package catastrophe

import "fmt"

// Kind identifies a planet-wide catastrophe.
type Kind uint8

const (
	Meteorite Kind = iota
	Supervolcano
	SolarFlare
	Pandemic
)

// Name returns a human-readable name for the catastrophe kind.
func (k Kind) Name() string {
	switch k {
	case Meteorite:
		return "meteorite"
	case Supervolcano:
		return "supervolcano"
	case SolarFlare:
		return "solar_flare"
	case Pandemic:
		return "pandemic"
	default:
		return "unknown"
	}
}

// All lists every catastrophe kind, in rank order.
func All() []Kind {
	return []Kind{Meteorite, Supervolcano, SolarFlare, Pandemic}
}

// Parse converts a name produced by Name back into a Kind.
func Parse(s string) (Kind, error) {
	for _, k := range All() {
		if k.Name() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown catastrophe kind %q", s)
}
