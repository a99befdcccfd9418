package poi

import (
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/seqsense/pcdpoi/pcd"
	"github.com/seqsense/pcdpoi/pcd/filter/voxelgrid"
)

// Downsample configures the optional voxel grid filter applied before binning.
type Downsample struct {
	Enabled  bool
	LeafSize float64
}

type Options struct {
	Params
	Downsample Downsample
	// Seed initializes the color generator.
	Seed       int64
	Background pcd.Color
}

func DefaultOptions() Options {
	return Options{
		Params:     DefaultParams(),
		Downsample: Downsample{LeafSize: 0.1},
		Seed:       1,
		Background: DefaultBackground,
	}
}

func (o Options) Validate() error {
	if err := o.Params.Validate(); err != nil {
		return err
	}
	if o.Downsample.Enabled && !positive(o.Downsample.LeafSize) {
		return fmt.Errorf("%w: leaf size must be >0, got %v", ErrInvalidParameter, o.Downsample.LeafSize)
	}
	return nil
}

type Result struct {
	*Binned
	// Ranking holds every cell in ascending score order.
	Ranking    Ranking
	POI        Ranking
	Background Ranking
	Points     []pcd.ColoredPoint
}

// Run bins, ranks and recolors the points.
func Run(points []pcd.Point, opts Options, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}

	if opts.Downsample.Enabled {
		n := len(points)
		var err error
		points, err = voxelgrid.New(float32(opts.Downsample.LeafSize)).Filter(points)
		if err != nil {
			return nil, fmt.Errorf("downsampling: %w", err)
		}
		logger.Printf("downsampled %d points to %d (leaf size %v)", n, len(points), opts.Downsample.LeafSize)
	}

	b, err := Build(points, opts.Scale, opts.Resolution)
	if err != nil {
		return nil, err
	}
	logger.Printf("grid %dx%d, %d points retained, %d dropped outside the window",
		b.Grid.Rows(), b.Grid.Cols(), b.Retained, b.Dropped)
	if b.Dropped > b.Retained {
		logger.Printf("warning: most points are outside the window, scale %v may be too small", opts.Scale)
	}

	ranking := Rank(b.Grid, opts.HeightResolution)
	poi, background := ranking.SelectTopK(opts.K)

	c := &Compositor{
		Rand:       rand.New(rand.NewSource(opts.Seed)),
		Background: opts.Background,
	}
	return &Result{
		Binned:     b,
		Ranking:    ranking,
		POI:        poi,
		Background: background,
		Points:     c.Compose(b.Grid, poi, background),
	}, nil
}
