package poi

import (
	"cmp"
	"slices"

	"github.com/seqsense/pcdpoi/pcd/storage/grid"
)

// RankedCell refers to a grid cell and its score.
type RankedCell struct {
	Row, Col int
	// Addr is the row-major index of the cell.
	Addr  int
	Score int
	// Size is the number of points in the cell.
	Size int
}

// Ranking is an ordered view over the cells of a grid.
type Ranking []RankedCell

// Rank scores every cell once and orders the cells by ascending score.
// Cells with equal scores keep their row-major order. The grid is not modified.
func Rank(g *grid.Grid[Bin], heightResolution float64) Ranking {
	r := make(Ranking, 0, g.Len())
	g.Each(func(row, col int, b *Bin) {
		a, _ := g.Addr(row, col)
		r = append(r, RankedCell{
			Row:   row,
			Col:   col,
			Addr:  a,
			Score: b.Score(heightResolution),
			Size:  b.Len(),
		})
	})
	slices.SortStableFunc(r, func(a, b RankedCell) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return r
}

// SelectTopK splits an ascending ranking into the k highest scoring cells,
// highest first, and the remaining cells in descending order.
// k is clamped to [0, len(r)].
func (r Ranking) SelectTopK(k int) (poi, background Ranking) {
	if k < 0 {
		k = 0
	}
	if k > len(r) {
		k = len(r)
	}
	split := len(r) - k

	poi = make(Ranking, 0, k)
	for i := len(r) - 1; i >= split; i-- {
		poi = append(poi, r[i])
	}
	background = make(Ranking, 0, split)
	for i := split - 1; i >= 0; i-- {
		background = append(background, r[i])
	}
	return poi, background
}

// Points returns the total number of points in the ranked cells.
func (r Ranking) Points() int {
	var n int
	for _, c := range r {
		n += c.Size
	}
	return n
}
