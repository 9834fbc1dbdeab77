package catastrophe

import "testing"

func TestNameParseRoundTrip(t *testing.T) {
	for _, k := range All() {
		got, err := Parse(k.Name())
		if err != nil {
			t.Errorf("Parse(%q): %v", k.Name(), err)
			continue
		}
		if got != k {
			t.Errorf("Parse(%q) = %d, want %d", k.Name(), got, k)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("heat_death"); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestNameIsStable(t *testing.T) {
	// Names are stored in the chronicle, so they must not drift.
	want := map[Kind]string{
		Meteorite:    "meteorite",
		Supervolcano: "supervolcano",
		SolarFlare:   "solar_flare",
		Pandemic:     "pandemic",
	}
	for k, name := range want {
		if k.Name() != name {
			t.Errorf("Kind %d named %q, want %q", k, k.Name(), name)
		}
	}
}
