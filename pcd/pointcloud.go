package pcd

import (
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcdpoi/pcd/internal/float"
)

// FromPointCloud extracts points from a decoded cloud.
// Intensity is read from a 4-byte float "intensity" field if present.
func FromPointCloud(pp *pc.PointCloud) ([]Point, error) {
	if pp.Points == 0 {
		return nil, nil
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	intensity := float32Field(pp, "intensity")

	n := it.Len()
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		out[i].Pos = it.Vec3At(i)
		if intensity != nil {
			out[i].Intensity = intensity(i)
		}
	}
	return out, nil
}

func float32Field(pp *pc.PointCloud, name string) func(int) float32 {
	stride := pp.Stride()
	offset := 0
	for i, fn := range pp.Fields {
		if fn == name {
			if pp.Size[i] != 4 || (len(pp.Type) > i && pp.Type[i] != "F") {
				return nil
			}
			off := offset
			return func(j int) float32 {
				return float.Float32At(pp.Data, j*stride+off)
			}
		}
		offset += pp.Size[i] * pp.Count[i]
	}
	return nil
}

// ToPointCloud packs points into an x/y/z/intensity cloud.
func ToPointCloud(pts []Point) *pc.PointCloud {
	data := make([]float32, 0, len(pts)*4)
	for _, p := range pts {
		data = append(data, p.Pos[0], p.Pos[1], p.Pos[2], p.Intensity)
	}
	return &pc.PointCloud{
		PointCloudHeader: pc.PointCloudHeader{
			Version: 0.7,
			Fields:  []string{"x", "y", "z", "intensity"},
			Size:    []int{4, 4, 4, 4},
			Type:    []string{"F", "F", "F", "F"},
			Count:   []int{1, 1, 1, 1},
			Width:   len(pts),
			Height:  1,
		},
		Points: len(pts),
		Data:   float.Float32SliceAsByteSlice(data),
	}
}

// NewColoredPointCloud packs colored points into an x/y/z/rgb cloud.
func NewColoredPointCloud(pts []ColoredPoint) (*pc.PointCloud, error) {
	pp := &pc.PointCloud{
		PointCloudHeader: pc.PointCloudHeader{
			Version: 0.7,
			Fields:  []string{"x", "y", "z", "rgb"},
			Size:    []int{4, 4, 4, 4},
			Type:    []string{"F", "F", "F", "U"},
			Count:   []int{1, 1, 1, 1},
			Width:   len(pts),
			Height:  1,
		},
		Points: len(pts),
	}
	pp.Data = make([]byte, len(pts)*pp.Stride())
	if len(pts) == 0 {
		return pp, nil
	}

	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	ct, err := pp.Uint32Iterator("rgb")
	if err != nil {
		return nil, err
	}
	for _, p := range pts {
		it.SetVec3(p.Pos)
		ct.SetUint32(p.Color.Uint32())
		it.Incr()
		ct.Incr()
	}
	return pp, nil
}
