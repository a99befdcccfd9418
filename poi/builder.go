package poi

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/seqsense/pcdpoi/pcd"
	"github.com/seqsense/pcdpoi/pcd/storage/grid"
)

// Binned is a grid of bins built around the centroid of a cloud.
type Binned struct {
	Grid       *grid.Grid[Bin]
	Centroid   [3]float64
	Resolution float64

	// Window is the horizontal area covered by the grid.
	Window orb.Bound

	// Retained is the number of points stored in the grid and Dropped the
	// number of points outside the window. They add up to the input size.
	Retained int
	Dropped  int
}

// Centroid returns the mean position of the points.
func Centroid(points []pcd.Point) ([3]float64, error) {
	if len(points) == 0 {
		return [3]float64{}, ErrEmptyInput
	}
	var sum [3]float64
	for _, p := range points {
		sum[0] += float64(p.Pos[0])
		sum[1] += float64(p.Pos[1])
		sum[2] += float64(p.Pos[2])
	}
	n := float64(len(points))
	return [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}, nil
}

// Build bins the points into a floor(scale/resolution) square grid centered on
// the centroid. Points outside the window are dropped and counted.
func Build(points []pcd.Point, scale, resolution float64) (*Binned, error) {
	n, err := gridSize(scale, resolution)
	if err != nil {
		return nil, err
	}
	c, err := Centroid(points)
	if err != nil {
		return nil, err
	}

	half := scale / 2
	origin := orb.Point{c[0] - half, c[1] - half}
	b := &Binned{
		Grid:       grid.New[Bin](n, n),
		Centroid:   c,
		Resolution: resolution,
		Window: orb.Bound{
			Min: origin,
			Max: orb.Point{origin[0] + float64(n)*resolution, origin[1] + float64(n)*resolution},
		},
	}

	size := float64(n)
	for _, p := range points {
		col := math.Floor((float64(p.Pos[0]) - c[0] + half) / resolution)
		row := math.Floor((float64(p.Pos[1]) - c[1] + half) / resolution)
		// Negated comparisons also reject NaN.
		if !(col >= 0 && col < size && row >= 0 && row < size) {
			b.Dropped++
			continue
		}
		b.Grid.At(int(row), int(col)).Add(p)
		b.Retained++
	}
	return b, nil
}

// CellBound returns the horizontal footprint of the cell at (row, col).
func (b *Binned) CellBound(row, col int) orb.Bound {
	origin := orb.Point{
		b.Window.Min[0] + float64(col)*b.Resolution,
		b.Window.Min[1] + float64(row)*b.Resolution,
	}
	return orb.Bound{
		Min: origin,
		Max: orb.Point{origin[0] + b.Resolution, origin[1] + b.Resolution},
	}
}
