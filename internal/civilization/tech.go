package civilization

import (
	"fmt"
	"math"
	"math/rand"
)

// tierDiscoveries lists the signature technologies unlocked at each
// tier, indexed by TechLevel.
var tierDiscoveries = [NumTechLevels][]string{
	Primitive:    {"fire", "stone tools", "spoken language"},
	Agricultural: {"agriculture", "pottery", "domestication", "basic metallurgy"},
	Medieval:     {"architecture", "mathematics", "astronomy", "navigation"},
	Industrial:   {"steam engine", "electricity", "chemistry", "mechanized transport"},
	Information:  {"computing", "telecommunications", "advanced medicine", "nuclear power"},
	Space:        {"spaceflight", "robotics", "artificial intelligence", "biotechnology"},
	Advanced:     {"genetic engineering", "nanotechnology", "nuclear fusion", "virtual reality"},
	Stellar:      {"FTL propulsion", "terraforming", "digital consciousness", "quantum manipulation"},
}

// advanceTechnology accumulates progress toward the next tier. Progress
// scales with founder intelligence, creativity, population, and
// stability, and slows at the information tier and beyond.
func (c *Civilization) advanceTechnology(m *Manager, rng *rand.Rand) {
	progress := m.cfg.BaseTechProgress +
		c.Founder.Intelligence*0.01 +
		c.Creativity*0.005 +
		math.Min(0.01, float64(c.Population)/1e6*0.005) +
		c.Stability*0.002

	if c.Tech >= Information {
		progress *= 0.5
	}

	c.TechProgress += progress
	if c.TechProgress >= 1 {
		c.advanceTier(m, rng)
	}
}

// advanceTier moves the civilization up one tech tier and applies the
// societal upheaval that comes with it.
func (c *Civilization) advanceTier(m *Manager, rng *rand.Rand) {
	if c.Tech >= Stellar {
		c.TechProgress = 1
		return
	}

	old := c.Tech
	c.Tech++
	c.TechProgress = 0
	c.addHistory(m.year, "tech advance",
		fmt.Sprintf("advanced from %s to %s", old.Name(), c.Tech.Name()))

	c.discoverTierTechnologies(m, c.Tech)
	c.applyTierEffects(m, rng)
}

func (c *Civilization) discoverTierTechnologies(m *Manager, tier TechLevel) {
	for _, tech := range tierDiscoveries[tier] {
		if !c.Technologies[tech] {
			c.Technologies[tech] = true
			c.addHistory(m.year, "discovery", "discovered "+tech)
		}
	}
}

// applyTierEffects shifts government and economy to match the new tier.
// A script develops when urban life and trade demand record keeping.
func (c *Civilization) applyTierEffects(m *Manager, rng *rand.Rand) {
	setGovernment := func(g Government) {
		c.Government = g
		c.addHistory(m.year, "political shift", "transition to "+g.Name())
	}

	switch c.Tech {
	case Agricultural:
		if c.Government == Tribal {
			setGovernment(Monarchy)
		}
		c.Economy = "barter"

	case Medieval:
		if rng.Float64() < 0.5 {
			setGovernment(Oligarchy)
		}
		c.Economy = "monetary"
		if c.Language.Writing == "" {
			c.Language.Writing = scriptStyles[rng.Intn(len(scriptStyles))]
			c.addHistory(m.year, "cultural development",
				"developed a "+c.Language.Writing+" writing system")
		}

	case Industrial:
		if rng.Float64() < 0.7 {
			if rng.Float64() < 0.5 {
				setGovernment(Republic)
			} else {
				setGovernment(Oligarchy)
			}
		}
		c.Economy = "industrial"

	case Information:
		if rng.Float64() < 0.6 {
			if rng.Float64() < 0.5 {
				setGovernment(Democracy)
			} else {
				setGovernment(Technocracy)
			}
		}
		c.Economy = "information"

	case Advanced:
		if rng.Float64() < 0.5 {
			if rng.Float64() < 0.5 {
				setGovernment(Technocracy)
			} else {
				setGovernment(AIGovernance)
			}
		}
		c.Economy = "post-scarcity"
	}
}

// evolveSociety applies the slow random walks of social attributes and
// religious change.
func (c *Civilization) evolveSociety(m *Manager, rng *rand.Rand) {
	if rng.Float64() < 0.05 {
		attrs := []struct {
			name string
			v    *float64
		}{
			{"stability", &c.Stability},
			{"aggression", &c.Aggression},
			{"cooperation", &c.Cooperation},
			{"creativity", &c.Creativity},
		}
		pick := attrs[rng.Intn(len(attrs))]
		old := *pick.v
		change := rng.Float64()*0.1 - 0.05
		*pick.v = clampUnitOpen(old + change)

		if math.Abs(*pick.v-old) > 0.03 {
			direction := "rise"
			if change < 0 {
				direction = "decline"
			}
			c.addHistory(m.year, "social shift",
				fmt.Sprintf("%s in %s (%.2f to %.2f)", direction, pick.name, old, *pick.v))
		}
	}

	if c.Religion != nil && rng.Float64() < 0.02 {
		switch rng.Intn(3) {
		case 0:
			c.Religion.Name = "reformed " + c.Religion.Name
			c.addHistory(m.year, "religious shift", "reformation: "+c.Religion.Name)
		case 1:
			old := c.Religion.Name
			c.Religion.Name = "new " + old
			c.addHistory(m.year, "religious shift", "schism: "+old+" to "+c.Religion.Name)
		case 2:
			c.Religion.Name = "universal " + c.Religion.Name
			c.addHistory(m.year, "religious shift", "syncretism: "+c.Religion.Name)
		}
	}
}
