package sac

import (
	"math/rand"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	gmat "gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const epsilon = 1e-12

// Plane is Normal·p = D with a unit Normal.
type Plane struct {
	Normal mat.Vec3
	D      float32
}

// Distance returns the unsigned distance from p to the plane.
func (pl Plane) Distance(p mat.Vec3) float32 {
	d := pl.Normal.Dot(p) - pl.D
	if d < 0 {
		return -d
	}
	return d
}

// Inliers returns the indices of the points within d of the plane.
func (pl Plane) Inliers(ra pc.Vec3RandomAccessor, d float32) []int {
	n := ra.Len()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if pl.Distance(ra.Vec3At(i)) <= d {
			out = append(out, i)
		}
	}
	return out
}

type planeModel struct {
	ra        pc.Vec3RandomAccessor
	threshold float32
}

// NewPlaneModel returns a three point plane model. Hypotheses are
// evaluated by the number of points within threshold.
func NewPlaneModel(ra pc.Vec3RandomAccessor, threshold float32) Model {
	return &planeModel{ra: ra, threshold: threshold}
}

func (planeModel) NumRange() (min, max int) {
	return 3, 3
}

func (m *planeModel) Fit(ids []int) (ModelCoefficients, bool) {
	if len(ids) != 3 {
		return nil, false
	}
	p0, p1, p2 := m.ra.Vec3At(ids[0]), m.ra.Vec3At(ids[1]), m.ra.Vec3At(ids[2])

	// Normal vector of the plane made by given three points.
	norm := p1.Sub(p0).Cross(p2.Sub(p0))
	if norm.NormSq() < epsilon {
		return nil, false
	}
	norm = norm.Normalized()
	return &planeModelCoefficients{
		Plane: Plane{Normal: norm, D: norm.Dot(p0)},
		model: m,
	}, true
}

type planeModelCoefficients struct {
	Plane
	model *planeModel
}

func (c *planeModelCoefficients) Evaluate() int {
	var n int
	for i := 0; i < c.model.ra.Len(); i++ {
		if c.Distance(c.model.ra.Vec3At(i)) <= c.model.threshold {
			n++
		}
	}
	return n
}

func (c *planeModelCoefficients) Inliers(d float32) []int {
	return c.Plane.Inliers(c.model.ra, d)
}

func (c *planeModelCoefficients) IsIn(p mat.Vec3, d float32) bool {
	return c.Distance(p) <= d
}

// Refine fits a plane to the given points by least squares.
// The normal is the principal axis of least variance.
// It returns false for fewer than three points or collinear points.
func Refine(ra pc.Vec3RandomAccessor, ids []int) (Plane, bool) {
	if len(ids) < 3 {
		return Plane{}, false
	}
	var mean [3]float64
	data := make([]float64, 0, 3*len(ids))
	for _, id := range ids {
		p := ra.Vec3At(id)
		for j := 0; j < 3; j++ {
			data = append(data, float64(p[j]))
			mean[j] += float64(p[j])
		}
	}
	for j := range mean {
		mean[j] /= float64(len(ids))
	}

	var pca stat.PC
	if !pca.PrincipalComponents(gmat.NewDense(len(ids), 3, data), nil) {
		return Plane{}, false
	}
	vars := pca.VarsTo(nil)
	if vars[1] <= epsilon {
		return Plane{}, false
	}
	var vecs gmat.Dense
	pca.VectorsTo(&vecs)

	norm := mat.Vec3{
		float32(vecs.At(0, 2)),
		float32(vecs.At(1, 2)),
		float32(vecs.At(2, 2)),
	}.Normalized()
	c := mat.Vec3{float32(mean[0]), float32(mean[1]), float32(mean[2])}
	return Plane{Normal: norm, D: norm.Dot(c)}, true
}

// Segmentation is the dominant plane found by Segment.
type Segmentation struct {
	Plane   Plane
	Inliers []int
	// Support is the inlier count of the best RANSAC hypothesis before refinement.
	Support int
}

// Segment finds the dominant plane in ra with RANSAC and refines it over the
// inliers. It returns false if fewer than three points are given or no
// hypothesis could be fitted.
func Segment(ra pc.Vec3RandomAccessor, rng *rand.Rand, iterations int, threshold float32) (Segmentation, bool) {
	if ra.Len() < 3 {
		return Segmentation{}, false
	}
	s := New(NewRandomSampler(rng, ra.Len()), NewPlaneModel(ra, threshold))
	if !s.Compute(iterations) {
		return Segmentation{}, false
	}
	coeff := s.Coefficients().(*planeModelCoefficients)
	seg := Segmentation{
		Plane:   coeff.Plane,
		Inliers: coeff.Inliers(threshold),
		Support: s.Score(),
	}

	if refined, ok := Refine(ra, seg.Inliers); ok {
		if ri := refined.Inliers(ra, threshold); len(ri) >= len(seg.Inliers) {
			seg.Plane, seg.Inliers = refined, ri
		}
	}
	return seg, true
}
