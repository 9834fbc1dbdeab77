package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/varkess/ecosphere/internal/config"
	"github.com/varkess/ecosphere/internal/world"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		p      float64
		values []float64
		want   float64
	}{
		{"median of odd count", 0.5, []float64{3, 1, 2}, 2},
		{"low tail", 0.1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 1},
		{"high tail", 0.9, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 9},
		{"single value", 0.5, []float64{7}, 7},
		{"empty", 0.5, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantile(tt.p, tt.values); got != tt.want {
				t.Errorf("quantile(%v, %v) = %v, want %v", tt.p, tt.values, got, tt.want)
			}
		})
	}
}

func testWorld(t *testing.T) *world.World {
	t.Helper()
	cfg := config.Default()
	cfg.World.GridSize = 32
	w := world.New(42, cfg)
	if err := w.Generate(); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestCollect(t *testing.T) {
	w := testWorld(t)
	for year := 0; year < 2; year++ {
		if err := w.SimulateYear(); err != nil {
			t.Fatal(err)
		}
	}

	s := Collect(w)
	if s.Year != w.Age {
		t.Errorf("stats year %d, world age %d", s.Year, w.Age)
	}
	if s.LivingSpecies != len(w.Eco.Species) {
		t.Errorf("living species %d, want %d", s.LivingSpecies, len(w.Eco.Species))
	}
	if s.TotalPopulation != w.Eco.TotalPopulation() {
		t.Errorf("total population %d, want %d", s.TotalPopulation, w.Eco.TotalPopulation())
	}
	if s.TempMean < 0 || s.TempMean > 1 {
		t.Errorf("mean temperature %v outside [0,1]", s.TempMean)
	}
	if s.TempP10 > s.TempP50 || s.TempP50 > s.TempP90 {
		t.Errorf("temperature quantiles out of order: %v %v %v", s.TempP10, s.TempP50, s.TempP90)
	}
	if s.MaxIntelligence <= 0 {
		t.Error("max intelligence not collected")
	}
}

func TestCollectLeavesFieldsIntact(t *testing.T) {
	w := testWorld(t)
	before := append([]float64(nil), w.Clim.Temperature.Cells...)

	Collect(w)

	for i, v := range w.Clim.Temperature.Cells {
		if v != before[i] {
			t.Fatalf("Collect mutated the temperature field at cell %d", i)
		}
	}
}

func TestOutputManagerNilSafe(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("empty directory should disable output")
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Errorf("nil WriteConfig: %v", err)
	}
	if err := om.WriteYear(YearStats{}); err != nil {
		t.Errorf("nil WriteYear: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	w := testWorld(t)
	if err := w.SimulateYear(); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteYear(Collect(w)); err != nil {
		t.Fatal(err)
	}
	if err := w.SimulateYear(); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteYear(Collect(w)); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "years.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("years.csv has %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "year,") {
		t.Errorf("header row missing: %q", lines[0])
	}
	if strings.HasPrefix(lines[2], "year,") {
		t.Error("header repeated for the second row")
	}
}
