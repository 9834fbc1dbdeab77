package climate

import (
	"math/rand"
	"testing"

	"github.com/varkess/ecosphere/internal/catastrophe"
	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/geography"
)

const testSize = 32

func testClimate(t *testing.T, seed int64) (*Climate, *rand.Rand) {
	t.Helper()
	cfg := config.Default()
	rng := rand.New(rand.NewSource(seed))
	geo := geography.New(testSize, cfg.Geography, rng)
	geo.Generate(rng)
	c := New(geo, cfg.Climate, rng)
	c.Initialize(rng)
	return c, rng
}

func TestInitializeSeedsFromTerrain(t *testing.T) {
	c, _ := testClimate(t, 1)

	for i, v := range c.WindDir.Cells {
		if v < 0 || v >= 360 {
			t.Fatalf("wind direction cell %d = %v outside [0,360)", i, v)
		}
		if s := c.WindStrength.Cells[i]; s < 0 || s > 1 {
			t.Fatalf("wind strength cell %d = %v outside [0,1]", i, s)
		}
	}

	cfg := config.Default().Climate
	if c.Stability < cfg.StabilityMin || c.Stability > cfg.StabilityMax {
		t.Errorf("stability %.2f outside configured range", c.Stability)
	}
}

func TestSimulateYearKeepsFieldsBounded(t *testing.T) {
	c, rng := testClimate(t, 2)

	for year := 0; year < 3; year++ {
		c.SimulateYear(rng, 0)
	}

	for i, v := range c.Temperature.Cells {
		if v < 0 || v > 1 {
			t.Fatalf("temperature cell %d = %v outside [0,1]", i, v)
		}
	}
	for i, v := range c.Precipitation.Cells {
		if v < 0 || v > 1 {
			t.Fatalf("precipitation cell %d = %v outside [0,1]", i, v)
		}
	}
}

func TestGlobalWarmingTracksIndustrialLoad(t *testing.T) {
	c, rng := testClimate(t, 3)

	c.SimulateYear(rng, 0)
	if c.GlobalWarming != 0 {
		t.Errorf("global warming %.4f without any industrial load", c.GlobalWarming)
	}

	c.SimulateYear(rng, 50)
	first := c.GlobalWarming
	if first <= 0 {
		t.Fatal("industrial load did not raise global warming")
	}

	c.SimulateYear(rng, 50)
	if c.GlobalWarming <= first {
		t.Error("global warming decreased despite sustained load")
	}

	for i := 0; i < 10000; i++ {
		c.updateLongTermTrends(1e9)
	}
	if c.GlobalWarming > 1 {
		t.Errorf("global warming %.2f exceeds cap", c.GlobalWarming)
	}
}

func TestSimulateYearDeterministic(t *testing.T) {
	a, rngA := testClimate(t, 7)
	b, rngB := testClimate(t, 7)

	for year := 0; year < 2; year++ {
		a.SimulateYear(rngA, 10)
		b.SimulateYear(rngB, 10)
	}

	for i := range a.Temperature.Cells {
		if a.Temperature.Cells[i] != b.Temperature.Cells[i] {
			t.Fatalf("temperature diverges at cell %d", i)
		}
		if a.Precipitation.Cells[i] != b.Precipitation.Cells[i] {
			t.Fatalf("precipitation diverges at cell %d", i)
		}
	}
	if len(a.Events) != len(b.Events) {
		t.Errorf("event count diverges: %d vs %d", len(a.Events), len(b.Events))
	}
}

func TestApplyCatastropheShiftsTemperature(t *testing.T) {
	tests := []struct {
		name   string
		kind   catastrophe.Kind
		cooler bool
	}{
		{"meteorite winter", catastrophe.Meteorite, true},
		{"volcanic winter", catastrophe.Supervolcano, true},
		{"solar flare", catastrophe.SolarFlare, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rng := testClimate(t, 11)
			before := c.Temperature.Mean()

			c.ApplyCatastrophe(rng, tt.kind, 0.8)
			after := c.Temperature.Mean()

			if tt.cooler && after >= before {
				t.Errorf("mean temperature %.3f did not drop from %.3f", after, before)
			}
			if !tt.cooler && after <= before {
				t.Errorf("mean temperature %.3f did not rise from %.3f", after, before)
			}
			for i, v := range c.Temperature.Cells {
				if v < 0 || v > 1 {
					t.Fatalf("temperature cell %d = %v outside [0,1]", i, v)
				}
			}
		})
	}
}

func TestSeasonNames(t *testing.T) {
	seen := make(map[string]bool)
	for s := 0; s < 4; s++ {
		name := SeasonName(s)
		if name == "" || seen[name] {
			t.Errorf("season %d has bad or duplicate name %q", s, name)
		}
		seen[name] = true
	}
}
