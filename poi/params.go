package poi

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultScale            = 100.0
	DefaultResolution       = 0.4
	DefaultHeightResolution = 0.2
	DefaultK                = 300

	// maxCells bounds the grid allocation.
	maxCells = 1 << 24
)

var (
	ErrEmptyInput       = errors.New("empty input point cloud")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Params controls binning, scoring and selection.
type Params struct {
	// Scale is the side length of the square window centered on the centroid.
	Scale float64
	// Resolution is the side length of a grid cell.
	Resolution float64
	// HeightResolution is the height of one bucket in the cell score.
	HeightResolution float64
	// K is the number of highest scoring cells selected as points of interest.
	K int
}

func DefaultParams() Params {
	return Params{
		Scale:            DefaultScale,
		Resolution:       DefaultResolution,
		HeightResolution: DefaultHeightResolution,
		K:                DefaultK,
	}
}

func (p Params) Validate() error {
	if _, err := gridSize(p.Scale, p.Resolution); err != nil {
		return err
	}
	if !positive(p.HeightResolution) {
		return fmt.Errorf("%w: height resolution must be >0, got %v", ErrInvalidParameter, p.HeightResolution)
	}
	return nil
}

// gridSize returns floor(scale/resolution).
func gridSize(scale, resolution float64) (int, error) {
	if !positive(scale) || !positive(resolution) {
		return 0, fmt.Errorf("%w: scale and resolution must be >0, got %v and %v", ErrInvalidParameter, scale, resolution)
	}
	if resolution > scale {
		return 0, fmt.Errorf("%w: resolution %v exceeds scale %v", ErrInvalidParameter, resolution, scale)
	}
	n := math.Floor(scale / resolution)
	if n*n > maxCells {
		return 0, fmt.Errorf("%w: grid of %.0fx%.0f cells is too large", ErrInvalidParameter, n, n)
	}
	return int(n), nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
