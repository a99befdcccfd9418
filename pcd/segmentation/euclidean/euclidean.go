package euclidean

import (
	"math"
	"slices"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

const initialSliceCap = 8192

var cursor [][3]int

func init() {
	for _, x := range []int{-1, 0, 1} {
		for _, y := range []int{-1, 0, 1} {
			for _, z := range []int{-1, 0, 1} {
				cursor = append(cursor, [3]int{x, y, z})
			}
		}
	}
}

// Params controls the cluster extraction.
type Params struct {
	// Tolerance is the maximum distance between two connected points.
	Tolerance float32
	MinSize   int
	// MaxSize of 0 means unlimited.
	MaxSize int
}

// Extract groups the points into clusters connected within the tolerance.
// Clusters outside [MinSize, MaxSize] are discarded. The clusters are ordered by
// descending size; indices in a cluster are ascending.
func Extract(ra pc.Vec3RandomAccessor, p Params) [][]int {
	if p.Tolerance <= 0 || ra.Len() == 0 {
		return nil
	}
	vg := newVoxelHash(ra, p.Tolerance)
	tolSq := p.Tolerance * p.Tolerance

	processed := make([]bool, ra.Len())
	var clusters [][]int
	next := make([]int, 0, initialSliceCap)

	for i := 0; i < ra.Len(); i++ {
		if processed[i] {
			continue
		}
		processed[i] = true
		next = append(next[:0], i)
		indice := make([]int, 0, 64)

		for len(next) > 0 {
			var id int
			id, next = next[len(next)-1], next[:len(next)-1]
			indice = append(indice, id)

			q := ra.Vec3At(id)
			pos := vg.key(q)
			for _, d := range cursor {
				for _, j := range vg.cells[[3]int{pos[0] + d[0], pos[1] + d[1], pos[2] + d[2]}] {
					if processed[j] || ra.Vec3At(j).Sub(q).NormSq() > tolSq {
						continue
					}
					processed[j] = true
					next = append(next, j)
				}
			}
		}

		if len(indice) < p.MinSize || (p.MaxSize > 0 && len(indice) > p.MaxSize) {
			continue
		}
		slices.Sort(indice)
		clusters = append(clusters, indice)
	}

	slices.SortStableFunc(clusters, func(a, b []int) int {
		return len(b) - len(a)
	})
	return clusters
}

// voxelHash is a sparse voxel grid of point indices.
type voxelHash struct {
	resolution float32
	cells      map[[3]int][]int
}

func newVoxelHash(ra pc.Vec3RandomAccessor, resolution float32) *voxelHash {
	v := &voxelHash{
		resolution: resolution,
		cells:      make(map[[3]int][]int),
	}
	for i := 0; i < ra.Len(); i++ {
		k := v.key(ra.Vec3At(i))
		v.cells[k] = append(v.cells[k], i)
	}
	return v
}

func (v *voxelHash) key(p mat.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(p[0] / v.resolution))),
		int(math.Floor(float64(p[1] / v.resolution))),
		int(math.Floor(float64(p[2] / v.resolution))),
	}
}
