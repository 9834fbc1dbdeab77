package world

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Digest hashes the observable simulation state with FNV-1a. Two worlds
// built from the same seed and parameters must report equal digests at
// every year, which is what the determinism tests check.
func (w *World) Digest() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}

	writeInt(w.Age)
	h.Write([]byte(w.Name))
	writeInt(w.SizeKm)

	for _, v := range w.Geo.Elevation.Cells {
		writeFloat(v)
	}
	for _, b := range w.Geo.Biomes {
		h.Write([]byte{byte(b)})
	}

	for _, v := range w.Clim.Temperature.Cells {
		writeFloat(v)
	}
	for _, v := range w.Clim.Precipitation.Cells {
		writeFloat(v)
	}
	writeFloat(w.Clim.GlobalWarming)

	for _, sp := range w.Eco.Species {
		writeInt(sp.ID)
		writeInt(sp.Population)
		writeFloat(sp.Intelligence)
		for _, v := range sp.PopMap.Cells {
			writeFloat(v)
		}
	}

	for _, c := range w.Civs.Civs {
		writeInt(c.ID)
		writeInt(c.Population)
		writeInt(int(c.Tech))
		writeInt(c.Territory.Count())
	}

	return h.Sum64()
}
