// Package telemetry collects per-year statistics from the world and
// writes them to CSV for offline analysis.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/varkess/ecosphere/internal/world"
)

// YearStats holds one year's aggregated measurements.
type YearStats struct {
	Year int `csv:"year"`

	// Climate field distributions.
	TempMean   float64 `csv:"temp_mean"`
	TempP10    float64 `csv:"temp_p10"`
	TempP50    float64 `csv:"temp_p50"`
	TempP90    float64 `csv:"temp_p90"`
	PrecipMean float64 `csv:"precip_mean"`
	PrecipP50  float64 `csv:"precip_p50"`

	GlobalWarming float64 `csv:"global_warming"`
	ActiveStorms  int     `csv:"active_storms"`

	// Ecosystem.
	LivingSpecies   int     `csv:"living_species"`
	ExtinctSpecies  int     `csv:"extinct_species"`
	TotalPopulation int     `csv:"total_population"`
	SpeciesPopP50   float64 `csv:"species_pop_p50"`
	MaxIntelligence float64 `csv:"max_intelligence"`

	// Civilizations.
	ActiveCivs  int `csv:"active_civs"`
	ExtinctCivs int `csv:"extinct_civs"`
	CivPop      int `csv:"civ_population"`
	MaxTechTier int `csv:"max_tech_tier"`
}

// quantile returns the p-th empirical quantile of values, which it
// sorts in place. Returns 0 for an empty slice.
func quantile(p float64, values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	return stat.Quantile(p, stat.Empirical, values, nil)
}

// Collect measures the world at the end of a year.
func Collect(w *world.World) YearStats {
	s := YearStats{
		Year:          w.Age,
		GlobalWarming: w.Clim.GlobalWarming,
		ActiveStorms:  len(w.Clim.Events),
	}

	temps := append([]float64(nil), w.Clim.Temperature.Cells...)
	s.TempMean = stat.Mean(temps, nil)
	s.TempP10 = quantile(0.1, temps)
	s.TempP50 = quantile(0.5, temps)
	s.TempP90 = quantile(0.9, temps)

	precip := append([]float64(nil), w.Clim.Precipitation.Cells...)
	s.PrecipMean = stat.Mean(precip, nil)
	s.PrecipP50 = quantile(0.5, precip)

	s.LivingSpecies = len(w.Eco.Species)
	s.ExtinctSpecies = w.Eco.TotalExtinctions
	s.TotalPopulation = w.Eco.TotalPopulation()

	pops := make([]float64, 0, len(w.Eco.Species))
	for _, sp := range w.Eco.Species {
		pops = append(pops, float64(sp.Population))
		if sp.Intelligence > s.MaxIntelligence {
			s.MaxIntelligence = sp.Intelligence
		}
	}
	s.SpeciesPopP50 = quantile(0.5, pops)

	s.ActiveCivs = len(w.Civs.Civs)
	s.ExtinctCivs = w.Civs.TotalExtinctions
	s.CivPop = w.Civs.TotalPopulation()
	for _, c := range w.Civs.Civs {
		if int(c.Tech) > s.MaxTechTier {
			s.MaxTechTier = int(c.Tech)
		}
	}

	return s
}
