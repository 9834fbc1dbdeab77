// Package config provides the tunable simulation parameters.
// Defaults are embedded; a YAML file can override any subset.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Params holds every tunable constant of the simulation. The war outcome
// ratios, extinction thresholds, and emergence probabilities are data,
// not code: their historical values carry no deeper rationale.
type Params struct {
	World        WorldParams        `yaml:"world"`
	Geography    GeographyParams    `yaml:"geography"`
	Climate      ClimateParams      `yaml:"climate"`
	Ecosystem    EcosystemParams    `yaml:"ecosystem"`
	Civilization CivilizationParams `yaml:"civilization"`
}

// WorldParams covers planet-level characteristics and global events.
type WorldParams struct {
	GridSize          int     `yaml:"grid_size"`           // Cells per axis of the toroidal grid
	PlanetKmMin       int     `yaml:"planet_km_min"`       // Diameter range when not given explicitly
	PlanetKmMax       int     `yaml:"planet_km_max"`
	CatastropheChance float64 `yaml:"catastrophe_chance"` // Per-year probability of a global disaster
}

// GeographyParams covers terrain generation.
type GeographyParams struct {
	LandPercentMin   float64 `yaml:"land_percent_min"` // Target emerged-land fraction range
	LandPercentMax   float64 `yaml:"land_percent_max"`
	MountainLevel    float64 `yaml:"mountain_level"`    // Elevation threshold for mountain biomes
	ElevationOctaves int     `yaml:"elevation_octaves"`
	MoistureOctaves  int     `yaml:"moisture_octaves"`
	AxialTiltChance  float64 `yaml:"axial_tilt_chance"` // Probability the planet has seasons
	YearLengthMin    int     `yaml:"year_length_min"`   // Days per year range
	YearLengthMax    int     `yaml:"year_length_max"`
	VolcanicChance   float64 `yaml:"volcanic_chance"` // Per-mountain-cell chance, scaled by tectonic activity
}

// ClimateParams covers weather and long-term trends.
type ClimateParams struct {
	WeatherInterval   int     `yaml:"weather_interval"`    // Days between wind/diffusion updates
	DiffusionRate     float64 `yaml:"diffusion_rate"`      // Fraction of differential moved downwind
	EventBaseChance   float64 `yaml:"event_base_chance"`   // Per-day weather event probability
	EventDurationMax  int     `yaml:"event_duration_max"`  // Days
	WarmingPerCapita  float64 `yaml:"warming_per_capita"`  // Global warming per industrial tier-step per million
	StabilityMin      float64 `yaml:"stability_min"`       // Climate stability draw range
	StabilityMax      float64 `yaml:"stability_max"`
	OrographicFactor  float64 `yaml:"orographic_factor"`  // Windward precipitation gain per unit elevation
	RainShadowFactor  float64 `yaml:"rain_shadow_factor"` // Fraction of the gain removed leeward
}

// EcosystemParams covers species dynamics.
type EcosystemParams struct {
	InitialSpecies      int     `yaml:"initial_species"`  // Before biodiversity scaling
	BiodiversityMin     float64 `yaml:"biodiversity_min"` // Biodiversity factor draw range
	BiodiversityMax     float64 `yaml:"biodiversity_max"`
	MinPopulation       int     `yaml:"min_population"`       // At or below this a species goes extinct
	CarryingCapacity    float64 `yaml:"carrying_capacity"`    // Per-cell ceiling, scaled by species size
	DisasterChance      float64 `yaml:"disaster_chance"`      // Per-cell local disaster probability
	SpeciationChance    float64 `yaml:"speciation_chance"`    // Base per-year probability
	NewSpeciesChance    float64 `yaml:"new_species_chance"`   // Base chance of an unrelated new species
	TargetSpeciesCount  float64 `yaml:"target_species_count"` // Balance point, scaled by biodiversity
	EvolutionChance     float64 `yaml:"evolution_chance"`     // Trait random-walk probability per year
	TrophicRebuildYears int     `yaml:"trophic_rebuild_years"`
	SapienceIntelligence float64 `yaml:"sapience_intelligence"` // Intelligence threshold for sapience
	SapienceComplexity   float64 `yaml:"sapience_complexity"`   // Complexity threshold for sapience
}

// CivilizationParams covers emergence, growth, diplomacy, and war.
type CivilizationParams struct {
	EmergenceChance  float64 `yaml:"emergence_chance"` // Base probability, scaled by intelligence and population
	MinPopulation    int     `yaml:"min_population"`   // At or below this a civilization collapses
	InitialRadius    int     `yaml:"initial_radius"`   // Founding territory radius in cells
	ContactRadius    int     `yaml:"contact_radius"`   // Territory proximity establishing first contact
	BaseTechProgress float64 `yaml:"base_tech_progress"`
	EventChance      float64 `yaml:"event_chance"` // Internal random event probability per year

	// Carrying capacity and population growth modifier per tech tier,
	// primitive through stellar.
	TierCapacities []float64 `yaml:"tier_capacities"`
	TierGrowth     []float64 `yaml:"tier_growth"`

	War WarParams `yaml:"war"`
}

// WarParams holds the war resolution tiers. A power ratio beyond
// DecisiveRatio is a decisive win; any other advantage is a minor win.
type WarParams struct {
	DecisiveRatio     float64 `yaml:"decisive_ratio"`
	DecisiveTerritory float64 `yaml:"decisive_territory"` // Border territory fraction transferred
	MinorTerritory    float64 `yaml:"minor_territory"`
	DecisiveWinLoss   float64 `yaml:"decisive_win_loss"` // Population loss fractions
	DecisiveDefLoss   float64 `yaml:"decisive_def_loss"`
	MinorWinLoss      float64 `yaml:"minor_win_loss"`
	MinorDefLoss      float64 `yaml:"minor_def_loss"`
	DrawLoss          float64 `yaml:"draw_loss"`
	StabilityPenalty  float64 `yaml:"stability_penalty"`
}

// Default returns the embedded default parameters.
func Default() *Params {
	p := &Params{}
	if err := yaml.Unmarshal(defaultsYAML, p); err != nil {
		// The embedded defaults are part of the build; failing to parse
		// them is a programming error.
		panic(fmt.Sprintf("config: bad embedded defaults: %v", err))
	}
	return p
}

// Load returns the defaults overridden by the YAML file at path.
func Load(path string) (*Params, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate rejects parameter sets that would break simulation invariants.
func (p *Params) Validate() error {
	if p.World.GridSize < 8 {
		return fmt.Errorf("world.grid_size %d too small (minimum 8)", p.World.GridSize)
	}
	if p.Geography.LandPercentMin > p.Geography.LandPercentMax {
		return fmt.Errorf("geography land percent range inverted")
	}
	if p.Geography.YearLengthMin < 4 {
		return fmt.Errorf("geography.year_length_min must cover four seasons")
	}
	if len(p.Civilization.TierCapacities) != 8 || len(p.Civilization.TierGrowth) != 8 {
		return fmt.Errorf("civilization tier tables must have 8 entries")
	}
	if p.Civilization.War.DecisiveRatio <= 1 {
		return fmt.Errorf("civilization.war.decisive_ratio must exceed 1")
	}
	return nil
}

// WriteYAML saves the parameter set to a YAML file.
func (p *Params) WriteYAML(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
