package world

import (
	"errors"
	"math"
	"testing"

	"github.com/varkess/ecosphere/internal/catastrophe"
	"github.com/varkess/ecosphere/internal/config"
)

func testConfig() *config.Params {
	cfg := config.Default()
	cfg.World.GridSize = 32
	return cfg
}

func generatedWorld(t *testing.T, seed int64) *World {
	t.Helper()
	w := New(seed, testConfig())
	if err := w.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return w
}

func TestNewDrawsConsistentPlanet(t *testing.T) {
	cfg := testConfig()
	w := New(42, cfg)

	if w.Name == "" {
		t.Error("planet has no name")
	}
	if w.SizeKm < cfg.World.PlanetKmMin || w.SizeKm > cfg.World.PlanetKmMax {
		t.Errorf("diameter %d km outside configured range", w.SizeKm)
	}

	a := w.Atmosphere
	sum := a.Nitrogen + a.Oxygen + a.CarbonDioxide + a.Argon + a.WaterVapor + a.OtherGases
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("atmosphere sums to %.6f%%, want 100%%", sum)
	}
}

func TestSimulateYearRequiresGenerate(t *testing.T) {
	w := New(1, testConfig())

	if err := w.SimulateYear(); !errors.Is(err, ErrNotGenerated) {
		t.Errorf("SimulateYear before Generate = %v, want ErrNotGenerated", err)
	}
	if err := w.ApplyCatastrophe(catastrophe.Pandemic, 0.5); !errors.Is(err, ErrNotGenerated) {
		t.Errorf("ApplyCatastrophe before Generate = %v, want ErrNotGenerated", err)
	}
}

func TestGenerateRunsOnce(t *testing.T) {
	w := generatedWorld(t, 2)
	if err := w.Generate(); err == nil {
		t.Error("second Generate did not fail")
	}
}

func TestSameSeedSameHistory(t *testing.T) {
	a := generatedWorld(t, 42)
	b := generatedWorld(t, 42)

	if a.Name != b.Name || a.SizeKm != b.SizeKm {
		t.Fatalf("same seed drew different planets: %s/%d vs %s/%d", a.Name, a.SizeKm, b.Name, b.SizeKm)
	}
	if a.Digest() != b.Digest() {
		t.Fatal("same seed diverges immediately after generation")
	}

	for year := 0; year < 5; year++ {
		if err := a.SimulateYear(); err != nil {
			t.Fatalf("year %d: %v", year, err)
		}
		if err := b.SimulateYear(); err != nil {
			t.Fatalf("year %d: %v", year, err)
		}
		if da, db := a.Digest(), b.Digest(); da != db {
			t.Fatalf("digests diverge at year %d: %x vs %x", year+1, da, db)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := generatedWorld(t, 1)
	b := generatedWorld(t, 2)
	if a.Digest() == b.Digest() {
		t.Error("different seeds produced identical worlds")
	}
}

func TestSimulateYearAdvancesAge(t *testing.T) {
	w := generatedWorld(t, 3)
	for year := 1; year <= 3; year++ {
		if err := w.SimulateYear(); err != nil {
			t.Fatal(err)
		}
		if w.Age != year {
			t.Fatalf("age %d after %d simulated years", w.Age, year)
		}
	}
}

func TestApplyCatastropheValidatesSeverity(t *testing.T) {
	w := generatedWorld(t, 5)

	if err := w.ApplyCatastrophe(catastrophe.Meteorite, 1.5); err == nil {
		t.Error("severity above 1 accepted")
	}
	if err := w.ApplyCatastrophe(catastrophe.Meteorite, -0.1); err == nil {
		t.Error("negative severity accepted")
	}
	if err := w.ApplyCatastrophe(catastrophe.Meteorite, 0.9); err != nil {
		t.Errorf("valid catastrophe rejected: %v", err)
	}
}

func TestDrainEvents(t *testing.T) {
	w := generatedWorld(t, 7)
	w.DrainEvents()

	if err := w.ApplyCatastrophe(catastrophe.SolarFlare, 0.4); err != nil {
		t.Fatal(err)
	}

	events := w.DrainEvents()
	found := false
	for _, ev := range events {
		if ev.Layer == "world" && ev.Kind == "catastrophe" {
			found = true
		}
	}
	if !found {
		t.Error("catastrophe left no world event")
	}
	if len(w.DrainEvents()) != 0 {
		t.Error("drain did not clear the buffer")
	}
}

func TestAccessorsWrap(t *testing.T) {
	w := generatedWorld(t, 11)
	size := w.Geo.Size

	if w.BiomeAt(0, 0) != w.BiomeAt(size, size) {
		t.Error("BiomeAt does not wrap")
	}
	if w.ElevationAt(-1, -1) != w.ElevationAt(size-1, size-1) {
		t.Error("ElevationAt does not wrap")
	}
	if w.TemperatureAt(0, -size) != w.TemperatureAt(0, 0) {
		t.Error("TemperatureAt does not wrap")
	}
}

func territoryContained(t *testing.T, w *World, year int) {
	t.Helper()
	for _, c := range w.Civs.Civs {
		for y := 0; y < w.Geo.Size; y++ {
			for x := 0; x < w.Geo.Size; x++ {
				if c.Territory.At(x, y) && !w.Geo.IsLand(x, y) {
					t.Fatalf("year %d: %s holds sea cell (%d,%d)", year, c.Name, x, y)
				}
			}
		}
	}
}

func TestThousandYearConsistency(t *testing.T) {
	if testing.Short() {
		t.Skip("long simulation")
	}
	w := generatedWorld(t, 23)

	for year := 1; year <= 1000; year++ {
		if err := w.SimulateYear(); err != nil {
			t.Fatalf("year %d: %v", year, err)
		}
		// Forced impacts exercise terrain reshaping well beyond what
		// the rare yearly roll would produce.
		if year%200 == 0 {
			if err := w.ApplyCatastrophe(catastrophe.Meteorite, 0.9); err != nil {
				t.Fatalf("year %d: %v", year, err)
			}
		}
		territoryContained(t, w, year)
	}

	if w.Age != 1000 {
		t.Errorf("age %d after 1000 simulated years", w.Age)
	}
	for _, sp := range w.Eco.ExtinctSpecies {
		if sp.Population != 0 {
			t.Errorf("extinct species %s still has population %d", sp.Name, sp.Population)
		}
	}
	if got, want := len(w.Eco.Species)+len(w.Eco.ExtinctSpecies), w.Eco.TotalCreated; got != want {
		t.Errorf("species ledger: %d living+extinct, %d created", got, want)
	}
	if got, want := len(w.Civs.Civs), w.Civs.TotalCreated-w.Civs.TotalExtinctions; got != want {
		t.Errorf("civilization count %d, want created %d minus extinctions %d",
			got, w.Civs.TotalCreated, w.Civs.TotalExtinctions)
	}
	for _, sp := range w.Eco.Species {
		if sp.Extinct {
			t.Errorf("extinct species %s listed as living", sp.Name)
		}
	}
}

func TestGetSummaryReflectsState(t *testing.T) {
	w := generatedWorld(t, 13)
	for year := 0; year < 2; year++ {
		if err := w.SimulateYear(); err != nil {
			t.Fatal(err)
		}
	}

	s := w.GetSummary()
	if s.Name != w.Name || s.Age != w.Age {
		t.Error("summary header out of sync with world state")
	}
	if s.Ecosystem.TotalSpecies != len(w.Eco.Species) {
		t.Errorf("summary lists %d species, world has %d", s.Ecosystem.TotalSpecies, len(w.Eco.Species))
	}
}
