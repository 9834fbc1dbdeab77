package geography

// Biome classifies a grid cell by terrain and vegetation. The integer
// ranks are stable: they are used for chronicle storage and map rendering.
type Biome uint8

const (
	BiomeOcean Biome = iota
	BiomeShallowWater
	BiomeBeach
	BiomePlains
	BiomeForest
	BiomeJungle
	BiomeDesert
	BiomeSavanna
	BiomeTundra
	BiomeMountains
	BiomeIce
	BiomeVolcanic
	BiomeSwamp

	NumBiomes = 13
)

// Name returns a human-readable name for the biome.
func (b Biome) Name() string {
	switch b {
	case BiomeOcean:
		return "Ocean"
	case BiomeShallowWater:
		return "Shallow Water"
	case BiomeBeach:
		return "Beach"
	case BiomePlains:
		return "Plains"
	case BiomeForest:
		return "Forest"
	case BiomeJungle:
		return "Jungle"
	case BiomeDesert:
		return "Desert"
	case BiomeSavanna:
		return "Savanna"
	case BiomeTundra:
		return "Tundra"
	case BiomeMountains:
		return "Mountains"
	case BiomeIce:
		return "Ice"
	case BiomeVolcanic:
		return "Volcanic"
	case BiomeSwamp:
		return "Swamp"
	default:
		return "Unknown"
	}
}

// IsWater reports whether the biome is ocean or shallow water.
func (b Biome) IsWater() bool {
	return b == BiomeOcean || b == BiomeShallowWater
}
