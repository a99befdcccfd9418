package cluster

import (
	"bytes"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/seqsense/pcgol/mat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqsense/pcdpoi/pcd"
)

func cube(origin mat.Vec3, n int, step float32) []pcd.Point {
	var out []pcd.Point
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				out = append(out, pcd.Point{Pos: origin.Add(mat.Vec3{float32(x), float32(y), float32(z)}.Mul(step))})
			}
		}
	}
	return out
}

// scene returns a 400 point ground plane with a 125 point and a 64 point box above it.
func scene() []pcd.Point {
	var pts []pcd.Point
	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			pts = append(pts, pcd.Point{Pos: mat.Vec3{-2 + 0.2*float32(x), -2 + 0.2*float32(y), 0}})
		}
	}
	pts = append(pts, cube(mat.Vec3{1, 1, 2}, 5, 0.1)...)
	pts = append(pts, cube(mat.Vec3{-1, -1, 2}, 4, 0.1)...)
	return pts
}

func sizes(r *Result) []int {
	out := []int{}
	for _, c := range r.Clusters {
		out = append(out, len(c.Points))
	}
	return out
}

func testParams() Params {
	p := DefaultParams()
	p.Plane.DistanceThreshold = 0.05
	p.Tolerance = 0.3
	p.MinSize = 50
	return p
}

func TestRun(t *testing.T) {
	testCases := map[string]struct {
		modify   func(*Params)
		sizes    []int
		plane    int
		isolated int
	}{
		"Default": {
			modify:   func(*Params) {},
			sizes:    []int{125, 64},
			plane:    400,
			isolated: 0,
		},
		"MaxSize": {
			modify:   func(p *Params) { p.MaxSize = 100 },
			sizes:    []int{64},
			plane:    400,
			isolated: 125,
		},
		"MinSize": {
			modify:   func(p *Params) { p.MinSize = 100 },
			sizes:    []int{125},
			plane:    400,
			isolated: 64,
		},
		"NoPlane": {
			modify:   func(p *Params) { p.Plane.Enabled = false },
			sizes:    []int{400, 125, 64},
			isolated: 0,
		},
		"LargePlaneRequired": {
			modify:   func(p *Params) { p.Plane.MinInliers = 1000 },
			sizes:    []int{400, 125, 64},
			isolated: 0,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			p := testParams()
			tt.modify(&p)
			res, err := Run(scene(), p, rand.New(rand.NewSource(1)), nil)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.sizes, sizes(res)); diff != "" {
				t.Errorf("Unexpected cluster sizes (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.plane, res.PlanePoints)
			assert.Equal(t, tt.plane, res.PlaneSupport)
			assert.Equal(t, tt.plane != 0, res.Plane != nil)
			assert.Equal(t, tt.isolated, res.Unclustered)

			for _, c := range res.Clusters {
				for _, p := range c.Points {
					assert.Equal(t, c.Color, p.Color)
				}
			}
		})
	}
}

func TestRun_PlaneLog(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(scene(), testParams(), rand.New(rand.NewSource(1)), log.New(&buf, "", 0))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "of 400 points, RANSAC support 400")
}

func TestRun_Deterministic(t *testing.T) {
	a, err := Run(scene(), testParams(), rand.New(rand.NewSource(3)), nil)
	require.NoError(t, err)
	b, err := Run(scene(), testParams(), rand.New(rand.NewSource(3)), nil)
	require.NoError(t, err)
	assert.Equal(t, a.Clusters, b.Clusters)
}

func TestRun_Downsample(t *testing.T) {
	pts := scene()
	pts = append(pts, pts...)

	p := testParams()
	p.Downsample = Downsample{Enabled: true, LeafSize: 0.05}
	res, err := Run(pts, p, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	assert.Equal(t, len(pts)/2, res.Filtered)
	assert.Equal(t, []int{125, 64}, sizes(res))
}

func TestRun_Errors(t *testing.T) {
	testCases := map[string]struct {
		pts    []pcd.Point
		modify func(*Params)
		err    error
	}{
		"Empty": {
			modify: func(*Params) {},
			err:    ErrEmptyInput,
		},
		"ZeroTolerance": {
			pts:    scene(),
			modify: func(p *Params) { p.Tolerance = 0 },
			err:    ErrInvalidParameter,
		},
		"ZeroIterations": {
			pts:    scene(),
			modify: func(p *Params) { p.Plane.MaxIterations = 0 },
			err:    ErrInvalidParameter,
		},
		"MaxBelowMin": {
			pts: scene(),
			modify: func(p *Params) {
				p.MinSize = 10
				p.MaxSize = 5
			},
			err: ErrInvalidParameter,
		},
		"ZeroLeafSize": {
			pts:    scene(),
			modify: func(p *Params) { p.Downsample = Downsample{Enabled: true} },
			err:    ErrInvalidParameter,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			_, err := Run(tt.pts, p, rand.New(rand.NewSource(1)), nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestWrite(t *testing.T) {
	res, err := Run(scene(), testParams(), rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)

	prefix := filepath.Join(t.TempDir(), "cloud_cluster_")
	require.NoError(t, Write(pcd.FileIO{}, prefix, res.Clusters, nil))

	for j, c := range res.Clusters {
		pts, err := pcd.FileIO{}.Load(FileName(prefix, j))
		require.NoError(t, err)
		assert.Len(t, pts, len(c.Points))
	}
	_, err = os.Stat(FileName(prefix, len(res.Clusters)))
	assert.True(t, os.IsNotExist(err))

	t.Run("WriteError", func(t *testing.T) {
		prefix := filepath.Join(t.TempDir(), "missing", "cloud_cluster_")
		err := Write(pcd.FileIO{}, prefix, res.Clusters, nil)
		assert.ErrorIs(t, err, pcd.ErrFileWrite)
	})
}
