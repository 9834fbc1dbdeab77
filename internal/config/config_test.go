package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultParses(t *testing.T) {
	p := Default()

	if p.World.GridSize < 8 {
		t.Errorf("default grid size %d too small", p.World.GridSize)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default params fail validation: %v", err)
	}
	if len(p.Civilization.TierCapacities) != 8 {
		t.Errorf("tier capacities = %d entries, want 8", len(p.Civilization.TierCapacities))
	}
	if p.Civilization.War.DecisiveRatio <= 1 {
		t.Errorf("decisive ratio %v must exceed 1", p.Civilization.War.DecisiveRatio)
	}
}

func TestValidateRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"tiny grid", func(p *Params) { p.World.GridSize = 4 }},
		{"inverted land range", func(p *Params) { p.Geography.LandPercentMin = 80; p.Geography.LandPercentMax = 20 }},
		{"short year", func(p *Params) { p.Geography.YearLengthMin = 2 }},
		{"truncated tier table", func(p *Params) { p.Civilization.TierGrowth = p.Civilization.TierGrowth[:3] }},
		{"decisive ratio at 1", func(p *Params) { p.Civilization.War.DecisiveRatio = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(p)
			if err := p.Validate(); err == nil {
				t.Error("Validate accepted invalid params")
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	override := `
world:
  grid_size: 64
ecosystem:
  initial_species: 5
`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.World.GridSize != 64 {
		t.Errorf("grid size = %d, want overridden 64", p.World.GridSize)
	}
	if p.Ecosystem.InitialSpecies != 5 {
		t.Errorf("initial species = %d, want overridden 5", p.Ecosystem.InitialSpecies)
	}
	// Untouched fields keep their defaults.
	if p.Geography.MountainLevel != Default().Geography.MountainLevel {
		t.Errorf("mountain level changed by unrelated override")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file did not error")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	p := Default()
	p.World.GridSize = 96

	if err := p.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.World.GridSize != 96 {
		t.Errorf("round-trip grid size = %d, want 96", back.World.GridSize)
	}
}
