package civilization

import "math/rand"

var (
	civNamePrefixes = []string{
		"Ar", "Bel", "Civ", "Dor", "El", "Fal", "Gal", "Hy", "Il", "Jor",
		"Kal", "Lum", "Mer", "Neb", "Orb", "Prim", "Qua", "Rim", "Sol", "Ter",
	}
	civNameSuffixes = []string{
		"ia", "or", "an", "ium", "aria", "alis", "oria", "ium", "aris", "on",
	}

	deityPrefixes = []string{"Anu", "Bel", "Cro", "Dra", "Eos", "Fyr", "Gai", "Hel", "Ish", "Jor"}
	deitySuffixes = []string{"os", "us", "a", "is", "ar", "on", "oth", "um", "ax", "ir"}

	artFocuses = []string{"visual", "auditory", "conceptual", "performative"}

	religionTypes = []string{"animism", "polytheism", "monotheism", "dualism", "natural philosophy"}
	religionFoci  = []string{"nature", "ancestors", "celestial bodies", "elements", "cycle of life", "cosmic order"}
	worshipForms  = []string{"prayer", "meditation", "sacrifice", "ritual", "pilgrimage", "fasting"}

	syllableShapes = []string{"CV", "CVC", "VC", "CVVC"}
	scriptStyles   = []string{"pictographic", "ideographic", "alphabetic"}
)

// Language describes a civilization's tongue at the phoneme level.
type Language struct {
	Name          string `json:"name"`
	Vowels        string `json:"vowels"`
	Consonants    string `json:"consonants"`
	SyllableShape string `json:"syllable_shape"`
	Tonal         bool   `json:"tonal"`
	Writing       string `json:"writing,omitempty"` // Empty until a script develops
}

// Religion describes a civilization's dominant faith.
type Religion struct {
	Type      string   `json:"type"`
	Focus     string   `json:"focus"`
	Name      string   `json:"name"`
	Practices []string `json:"practices"`
}

func civName(rng *rand.Rand) string {
	return civNamePrefixes[rng.Intn(len(civNamePrefixes))] + civNameSuffixes[rng.Intn(len(civNameSuffixes))]
}

func deityName(rng *rand.Rand) string {
	return deityPrefixes[rng.Intn(len(deityPrefixes))] + deitySuffixes[rng.Intn(len(deitySuffixes))]
}

// sampleRunes picks k distinct runes from s, in permutation order.
func sampleRunes(rng *rand.Rand, s string, k int) string {
	runes := []rune(s)
	picked := make([]rune, 0, k)
	for _, i := range rng.Perm(len(runes))[:k] {
		picked = append(picked, runes[i])
	}
	return string(picked)
}

func newLanguage(rng *rand.Rand, civ string) Language {
	return Language{
		Name:          civ + "an",
		Vowels:        sampleRunes(rng, "aeiouy", 3+rng.Intn(4)),
		Consonants:    sampleRunes(rng, "bcdfghjklmnpqrstvwxz", 10+rng.Intn(6)),
		SyllableShape: syllableShapes[rng.Intn(len(syllableShapes))],
		Tonal:         rng.Float64() < 0.3,
	}
}

func newReligion(rng *rand.Rand) *Religion {
	r := &Religion{
		Type:  religionTypes[rng.Intn(len(religionTypes))],
		Focus: religionFoci[rng.Intn(len(religionFoci))],
		Name:  "cult of " + deityName(rng),
	}
	n := 1 + rng.Intn(3)
	for _, i := range rng.Perm(len(worshipForms))[:n] {
		r.Practices = append(r.Practices, worshipForms[i])
	}
	return r
}
