package cluster

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcdpoi/pcd"
	"github.com/seqsense/pcdpoi/pcd/filter/voxelgrid"
	"github.com/seqsense/pcdpoi/pcd/sac"
	"github.com/seqsense/pcdpoi/pcd/segmentation/euclidean"
)

var (
	ErrEmptyInput       = errors.New("empty input point cloud")
	ErrInvalidParameter = errors.New("invalid parameter")
)

type Downsample struct {
	Enabled  bool
	LeafSize float64
}

// PlaneParams controls the removal of the dominant plane.
type PlaneParams struct {
	Enabled           bool
	MaxIterations     int
	DistanceThreshold float64
	// MinInliers is the smallest plane that is removed.
	MinInliers int
}

type Params struct {
	Downsample Downsample
	Plane      PlaneParams
	// Tolerance is the maximum distance between two points of a cluster.
	Tolerance float64
	MinSize   int
	// MaxSize of 0 means unlimited.
	MaxSize int
}

func DefaultParams() Params {
	return Params{
		Downsample: Downsample{LeafSize: 0.1},
		Plane: PlaneParams{
			Enabled:           true,
			MaxIterations:     200,
			DistanceThreshold: 0.5,
		},
		Tolerance: 0.5,
		MinSize:   100,
		MaxSize:   5000,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Downsample.Enabled && !positive(p.Downsample.LeafSize):
		return fmt.Errorf("%w: leaf size must be >0, got %v", ErrInvalidParameter, p.Downsample.LeafSize)
	case p.Plane.Enabled && p.Plane.MaxIterations <= 0:
		return fmt.Errorf("%w: plane iterations must be >0, got %d", ErrInvalidParameter, p.Plane.MaxIterations)
	case p.Plane.Enabled && !positive(p.Plane.DistanceThreshold):
		return fmt.Errorf("%w: plane distance threshold must be >0, got %v", ErrInvalidParameter, p.Plane.DistanceThreshold)
	case p.Plane.MinInliers < 0:
		return fmt.Errorf("%w: plane min inliers must be >=0, got %d", ErrInvalidParameter, p.Plane.MinInliers)
	case !positive(p.Tolerance):
		return fmt.Errorf("%w: tolerance must be >0, got %v", ErrInvalidParameter, p.Tolerance)
	case p.MinSize < 0 || p.MaxSize < 0:
		return fmt.Errorf("%w: cluster sizes must be >=0, got %d and %d", ErrInvalidParameter, p.MinSize, p.MaxSize)
	case p.MaxSize > 0 && p.MaxSize < p.MinSize:
		return fmt.Errorf("%w: max size %d is smaller than min size %d", ErrInvalidParameter, p.MaxSize, p.MinSize)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Cluster is a group of connected points sharing one color.
type Cluster struct {
	Color  pcd.Color
	Points []pcd.ColoredPoint
}

type Result struct {
	// Filtered is the number of points after downsampling.
	Filtered int
	// Plane is nil if no plane was removed.
	Plane        *sac.Plane
	PlanePoints  int
	PlaneSupport int
	Clusters     []Cluster
	Unclustered  int
}

// Run removes the dominant plane and extracts euclidean clusters from the rest.
// Clusters are ordered by descending size.
func Run(points []pcd.Point, params Params, rng *rand.Rand, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}
	res := &Result{Filtered: len(points)}

	if params.Downsample.Enabled {
		var err error
		points, err = voxelgrid.New(float32(params.Downsample.LeafSize)).Filter(points)
		if err != nil {
			return nil, fmt.Errorf("downsampling: %w", err)
		}
		res.Filtered = len(points)
		logger.Printf("point cloud after filtering has %d points", len(points))
	}
	ps := pcd.Positions(points)

	if params.Plane.Enabled {
		th := float32(params.Plane.DistanceThreshold)
		seg, ok := sac.Segment(ps, rng, params.Plane.MaxIterations, th)
		switch {
		case !ok:
			logger.Print("could not estimate a planar model")
		case len(seg.Inliers) < params.Plane.MinInliers:
			logger.Printf("plane of %d points is smaller than %d, kept", len(seg.Inliers), params.Plane.MinInliers)
		default:
			logger.Printf("removing plane (normal %v, d %v) of %d points, RANSAC support %d",
				seg.Plane.Normal, seg.Plane.D, len(seg.Inliers), seg.Support)
			res.Plane = &seg.Plane
			res.PlanePoints = len(seg.Inliers)
			res.PlaneSupport = seg.Support
			ps = remove(ps, seg.Inliers)
		}
	}

	indices := euclidean.Extract(ps, euclidean.Params{
		Tolerance: float32(params.Tolerance),
		MinSize:   params.MinSize,
		MaxSize:   params.MaxSize,
	})
	clustered := 0
	for _, ids := range indices {
		c := Cluster{
			Color:  pcd.RandomBrightColor(rng),
			Points: make([]pcd.ColoredPoint, len(ids)),
		}
		for i, id := range ids {
			c.Points[i] = pcd.ColoredPoint{Pos: ps[id], Color: c.Color}
		}
		res.Clusters = append(res.Clusters, c)
		clustered += len(ids)
	}
	res.Unclustered = len(ps) - clustered
	logger.Printf("%d clusters extracted, %d points unclustered", len(res.Clusters), res.Unclustered)
	return res, nil
}

// remove returns ps without the points at the ascending indices.
func remove(ps pc.Vec3Slice, ids []int) pc.Vec3Slice {
	out := make(pc.Vec3Slice, 0, len(ps)-len(ids))
	j := 0
	for i, p := range ps {
		if j < len(ids) && ids[j] == i {
			j++
			continue
		}
		out = append(out, p)
	}
	return out
}

// FileName returns the output path of the j-th cluster.
func FileName(prefix string, j int) string {
	return fmt.Sprintf("%s%d.pcd", prefix, j)
}

// Write writes each cluster to its own file.
func Write(sink pcd.Sink, prefix string, clusters []Cluster, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	for j, c := range clusters {
		name := FileName(prefix, j)
		if err := sink.Write(name, c.Points); err != nil {
			return err
		}
		logger.Printf("cluster of %d points written to %s", len(c.Points), name)
	}
	return nil
}
