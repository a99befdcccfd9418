package poi

import (
	"math/rand"

	"github.com/seqsense/pcdpoi/pcd"
	"github.com/seqsense/pcdpoi/pcd/storage/grid"
)

// DefaultBackground is the color of points outside the selected cells.
var DefaultBackground = pcd.Color{R: 10, G: 10, B: 10}

// Compositor recolors the points of ranked cells.
type Compositor struct {
	Rand       *rand.Rand
	Background pcd.Color
}

// Compose emits the points of the poi cells, one random color per cell, followed
// by the points of the background cells in the background color.
// The grid is only read.
func (c *Compositor) Compose(g *grid.Grid[Bin], poi, background Ranking) []pcd.ColoredPoint {
	out := make([]pcd.ColoredPoint, 0, poi.Points()+background.Points())
	emit := func(cell RankedCell, col pcd.Color) {
		for _, p := range g.AtAddr(cell.Addr).Points() {
			out = append(out, pcd.ColoredPoint{Pos: p.Pos, Color: col})
		}
	}
	for _, cell := range poi {
		emit(cell, pcd.RandomBrightColor(c.Rand))
	}
	for _, cell := range background {
		emit(cell, c.Background)
	}
	return out
}
