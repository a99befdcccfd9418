package float

import (
	"encoding/binary"
	"math"
)

// Float32SliceAsByteSlice encodes f as little-endian IEEE 754 binary32.
func Float32SliceAsByteSlice(f []float32) []byte {
	b := make([]byte, len(f)*4)
	for i, v := range f {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// Float32At decodes a little-endian binary32 at the byte offset off.
func Float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}
