// Package grid provides a dense, fixed-size 2-D array addressed by (row, col).
package grid

import (
	"fmt"
)

// Grid stores rows*cols cells in row-major order.
type Grid[T any] struct {
	cells []T
	rows  int
	cols  int
}

// New allocates a grid of zero-valued cells.
func New[T any](rows, cols int) *Grid[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("grid: negative size %dx%d", rows, cols))
	}
	return &Grid[T]{
		cells: make([]T, rows*cols),
		rows:  rows,
		cols:  cols,
	}
}

func (g *Grid[T]) Rows() int {
	return g.rows
}

func (g *Grid[T]) Cols() int {
	return g.cols
}

// Len returns the number of cells.
func (g *Grid[T]) Len() int {
	return len(g.cells)
}

// At returns the cell at (row, col). It panics if the coordinate is out of range.
func (g *Grid[T]) At(row, col int) *T {
	a, ok := g.Addr(row, col)
	if !ok {
		panic(fmt.Sprintf("grid: index (%d, %d) out of range %dx%d", row, col, g.rows, g.cols))
	}
	return &g.cells[a]
}

// Addr returns the linear index of (row, col).
func (g *Grid[T]) Addr(row, col int) (int, bool) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return 0, false
	}
	return row*g.cols + col, true
}

// Pos is the inverse of Addr.
func (g *Grid[T]) Pos(a int) (row, col int) {
	return a / g.cols, a % g.cols
}

// AtAddr returns the cell at linear index a.
func (g *Grid[T]) AtAddr(a int) *T {
	return &g.cells[a]
}

// Each calls fn for every cell in row-major order.
func (g *Grid[T]) Each(fn func(row, col int, c *T)) {
	for a := range g.cells {
		row, col := g.Pos(a)
		fn(row, col, &g.cells[a])
	}
}
