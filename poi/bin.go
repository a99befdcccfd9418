package poi

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/seqsense/pcdpoi/pcd"
)

// Bin accumulates the points falling in one grid cell.
type Bin struct {
	points []pcd.Point
}

// Add appends a copy of p.
func (b *Bin) Add(p pcd.Point) {
	b.points = append(b.points, p)
}

func (b *Bin) Len() int {
	return len(b.points)
}

// Points returns the member points. The slice must not be modified.
func (b *Bin) Points() []pcd.Point {
	return b.points
}

// maxLevel bounds height levels to the range where float64 holds every integer.
const maxLevel = 1 << 53

// Score returns the number of distinct height levels floor(z/heightResolution)
// among the member points. It is recomputed on every call.
// Points with a non-finite z are not counted and levels beyond +-2^53 are
// merged into the outermost level.
func (b *Bin) Score(heightResolution float64) int {
	if !(heightResolution > 0) {
		panic("poi: height resolution must be >0")
	}
	levels := mapset.NewThreadUnsafeSet[int]()
	for _, p := range b.points {
		if l, ok := heightLevel(float64(p.Pos[2]), heightResolution); ok {
			levels.Add(l)
		}
	}
	return levels.Cardinality()
}

func heightLevel(z, res float64) (int, bool) {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, false
	}
	l := math.Floor(z / res)
	switch {
	case l > maxLevel:
		l = maxLevel
	case l < -maxLevel:
		l = -maxLevel
	}
	return int(l), true
}
