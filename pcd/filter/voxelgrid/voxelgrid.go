// Package voxelgrid downsamples points by replacing the points in each
// occupied voxel with their centroid.
package voxelgrid

import (
	"errors"

	"github.com/seqsense/pcgol/mat"
	pcvoxelgrid "github.com/seqsense/pcgol/pc/filter/voxelgrid"

	"github.com/seqsense/pcdpoi/pcd"
	"github.com/seqsense/pcdpoi/pcd/filter"
)

type voxelGrid struct {
	leafSize float32
}

// New returns a filter with cubic voxels of the given edge length.
// Voxels are aligned to the minimum corner of the filtered points.
func New(leafSize float32) filter.Filter {
	return &voxelGrid{leafSize: leafSize}
}

func (f *voxelGrid) Filter(pts []pcd.Point) ([]pcd.Point, error) {
	if f.leafSize <= 0 {
		return nil, errors.New("leaf size must be >0")
	}
	if len(pts) == 0 {
		return nil, nil
	}

	// The underlying filter sizes its voxel array from the maximum corner,
	// so the points are moved to the positive octant with the minimum at the origin.
	origin := minCorner(pts)
	shifted := make([]pcd.Point, len(pts))
	for i, p := range pts {
		shifted[i] = pcd.Point{Pos: p.Pos.Sub(origin), Intensity: p.Intensity}
	}

	vg := pcvoxelgrid.New(mat.Vec3{f.leafSize, f.leafSize, f.leafSize})
	filtered, err := vg.Filter(pcd.ToPointCloud(shifted))
	if err != nil {
		return nil, err
	}
	out, err := pcd.FromPointCloud(filtered)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Pos = out[i].Pos.Add(origin)
	}
	return out, nil
}

func minCorner(pts []pcd.Point) mat.Vec3 {
	m := pts[0].Pos
	for _, p := range pts[1:] {
		for i := range m {
			m[i] = min(m[i], p.Pos[i])
		}
	}
	return m
}
