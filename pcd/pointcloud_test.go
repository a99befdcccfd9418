package pcd

import (
	"math"
	"testing"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcdpoi/pcd/internal/float"
)

func TestFromPointCloud(t *testing.T) {
	testCases := map[string]struct {
		pp       *pc.PointCloud
		expected []Point
	}{
		"XYZ": {
			pp: &pc.PointCloud{
				PointCloudHeader: pc.PointCloudHeader{
					Fields: []string{"x", "y", "z"},
					Size:   []int{4, 4, 4},
					Type:   []string{"F", "F", "F"},
					Count:  []int{1, 1, 1},
					Width:  2,
					Height: 1,
				},
				Points: 2,
				Data: float.Float32SliceAsByteSlice([]float32{
					10.1, -20.2, 3.3,
					1.1, 2.2, 4.3,
				}),
			},
			expected: []Point{
				{Pos: mat.Vec3{10.1, -20.2, 3.3}},
				{Pos: mat.Vec3{1.1, 2.2, 4.3}},
			},
		},
		"XYZI": {
			pp: &pc.PointCloud{
				PointCloudHeader: pc.PointCloudHeader{
					Fields: []string{"x", "y", "z", "intensity"},
					Size:   []int{4, 4, 4, 4},
					Type:   []string{"F", "F", "F", "F"},
					Count:  []int{1, 1, 1, 1},
					Width:  2,
					Height: 1,
				},
				Points: 2,
				Data: float.Float32SliceAsByteSlice([]float32{
					1, 2, 3, 0.5,
					4, 5, 6, 12,
				}),
			},
			expected: []Point{
				{Pos: mat.Vec3{1, 2, 3}, Intensity: 0.5},
				{Pos: mat.Vec3{4, 5, 6}, Intensity: 12},
			},
		},
		"IntensityNotFloat": {
			pp: &pc.PointCloud{
				PointCloudHeader: pc.PointCloudHeader{
					Fields: []string{"x", "y", "z", "intensity"},
					Size:   []int{4, 4, 4, 4},
					Type:   []string{"F", "F", "F", "U"},
					Count:  []int{1, 1, 1, 1},
					Width:  1,
					Height: 1,
				},
				Points: 1,
				Data: float.Float32SliceAsByteSlice([]float32{
					1, 2, 3, math.Float32frombits(7),
				}),
			},
			expected: []Point{
				{Pos: mat.Vec3{1, 2, 3}},
			},
		},
		"Empty": {
			pp: &pc.PointCloud{
				PointCloudHeader: pc.PointCloudHeader{
					Fields: []string{"x", "y", "z"},
					Size:   []int{4, 4, 4},
					Type:   []string{"F", "F", "F"},
					Count:  []int{1, 1, 1},
				},
			},
		},
	}

	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			out, err := FromPointCloud(tt.pp)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != len(tt.expected) {
				t.Fatalf("Expected %d points, got %d", len(tt.expected), len(out))
			}
			for i, e := range tt.expected {
				if !e.Pos.Equal(out[i].Pos) {
					t.Errorf("Expected position: %v, got: %v", e.Pos, out[i].Pos)
				}
				if e.Intensity != out[i].Intensity {
					t.Errorf("Expected intensity: %v, got: %v", e.Intensity, out[i].Intensity)
				}
			}
		})
	}
}

func TestToPointCloud(t *testing.T) {
	in := []Point{
		{Pos: mat.Vec3{1, 2, 3}, Intensity: 4},
		{Pos: mat.Vec3{-1, -2, -3}, Intensity: 0.25},
	}
	pp := ToPointCloud(in)
	if pp.Points != 2 || pp.Width != 2 || pp.Height != 1 {
		t.Fatalf("Wrong shape: points %d, width %d, height %d", pp.Points, pp.Width, pp.Height)
	}
	out, err := FromPointCloud(pp)
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("Expected point: %v, got: %v", in[i], out[i])
		}
	}
}

func TestNewColoredPointCloud(t *testing.T) {
	in := []ColoredPoint{
		{Pos: mat.Vec3{1, 2, 3}, Color: Color{R: 255, G: 64, B: 1}},
		{Pos: mat.Vec3{4, 5, 6}, Color: Color{R: 10, G: 10, B: 10}},
	}
	pp, err := NewColoredPointCloud(in)
	if err != nil {
		t.Fatal(err)
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		t.Fatal(err)
	}
	ct, err := pp.Uint32Iterator("rgb")
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range in {
		if p := it.Vec3(); !p.Equal(e.Pos) {
			t.Errorf("Expected point %d: %v, got: %v", i, e.Pos, p)
		}
		if c := colorFromUint32(ct.Uint32()); c != e.Color {
			t.Errorf("Expected color %d: %v, got: %v", i, e.Color, c)
		}
		it.Incr()
		ct.Incr()
	}

	t.Run("Empty", func(t *testing.T) {
		pp, err := NewColoredPointCloud(nil)
		if err != nil {
			t.Fatal(err)
		}
		if pp.Points != 0 || len(pp.Data) != 0 {
			t.Errorf("Expected empty cloud, got %d points", pp.Points)
		}
	})
}

func TestColor(t *testing.T) {
	c := Color{R: 0x12, G: 0x34, B: 0x56}
	if v := c.Uint32(); v != 0x123456 {
		t.Errorf("Expected packed color: %x, got: %x", 0x123456, v)
	}
	if back := colorFromUint32(c.Uint32()); back != c {
		t.Errorf("Expected color: %v, got: %v", c, back)
	}
}

func colorFromUint32(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}
