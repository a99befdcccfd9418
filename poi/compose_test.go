package poi

import (
	"math/rand"
	"testing"

	"github.com/seqsense/pcdpoi/pcd"
)

func TestCompositor_Compose(t *testing.T) {
	b := scenarioGrid(t)
	r := Rank(b.Grid, 1)

	t.Run("NoPOI", func(t *testing.T) {
		poi, background := r.SelectTopK(0)
		c := &Compositor{Rand: rand.New(rand.NewSource(1)), Background: DefaultBackground}
		out := c.Compose(b.Grid, poi, background)
		if len(out) != 4 {
			t.Fatalf("Expected 4 points, got %d", len(out))
		}
		for _, p := range out {
			if p.Color != DefaultBackground {
				t.Errorf("Expected background color %v, got %v", DefaultBackground, p.Color)
			}
		}
	})

	t.Run("TopOne", func(t *testing.T) {
		poi, background := r.SelectTopK(1)
		c := &Compositor{Rand: rand.New(rand.NewSource(1)), Background: DefaultBackground}
		out := c.Compose(b.Grid, poi, background)
		if len(out) != 4 {
			t.Fatalf("Expected 4 points, got %d", len(out))
		}

		// Cell (1, 1) comes first, then the rest of the cells in descending order.
		expectedPos := []pcd.Point{
			{Pos: b.Grid.At(1, 1).Points()[0].Pos},
			{Pos: b.Grid.At(1, 1).Points()[1].Pos},
			{Pos: b.Grid.At(0, 0).Points()[0].Pos},
			{Pos: b.Grid.At(0, 0).Points()[1].Pos},
		}
		for i, p := range out {
			if p.Pos != expectedPos[i].Pos {
				t.Errorf("Expected point %d at %v, got %v", i, expectedPos[i].Pos, p.Pos)
			}
		}
		if out[0].Color != out[1].Color {
			t.Errorf("Points in the same cell must share a color, got %v and %v", out[0].Color, out[1].Color)
		}
		if out[0].Color == DefaultBackground {
			t.Error("POI cell must not use the background color")
		}
		for _, p := range out[2:] {
			if p.Color != DefaultBackground {
				t.Errorf("Expected background color %v, got %v", DefaultBackground, p.Color)
			}
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		poi, background := r.SelectTopK(4)
		compose := func() []pcd.ColoredPoint {
			c := &Compositor{Rand: rand.New(rand.NewSource(7)), Background: DefaultBackground}
			return c.Compose(b.Grid, poi, background)
		}
		x, y := compose(), compose()
		for i := range x {
			if x[i] != y[i] {
				t.Fatalf("Point %d differs between runs: %v and %v", i, x[i], y[i])
			}
		}
	})
}
