package pcd

import (
	"math/rand"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

// Point is an input point with an optional intensity attribute.
type Point struct {
	Pos       mat.Vec3
	Intensity float32
}

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Uint32 returns the color packed as 0x00RRGGBB, the layout of the PCD rgb field.
func (c Color) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RandomBrightColor draws each channel uniformly from [64, 255].
func RandomBrightColor(rng *rand.Rand) Color {
	return Color{
		R: uint8(64 + rng.Intn(192)),
		G: uint8(64 + rng.Intn(192)),
		B: uint8(64 + rng.Intn(192)),
	}
}

// ColoredPoint is an output point.
type ColoredPoint struct {
	Pos   mat.Vec3
	Color Color
}

// Positions returns the positions of the points.
func Positions(pts []Point) pc.Vec3Slice {
	out := make(pc.Vec3Slice, len(pts))
	for i, p := range pts {
		out[i] = p.Pos
	}
	return out
}
