// Package report summarizes the cell scores of a point of interest extraction.
package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/seqsense/pcdpoi/poi"
)

var ErrNoData = errors.New("no non-empty cells")

const maxBins = 100

type Summary struct {
	Cells    int
	NonEmpty int
	Points   int
	Min, Max int
	Mean     float64
	StdDev   float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%d cells (%d non-empty, %d points), score min %d max %d mean %.3f stddev %.3f",
		s.Cells, s.NonEmpty, s.Points, s.Min, s.Max, s.Mean, s.StdDev)
}

// Summarize computes score statistics over all ranked cells.
func Summarize(r poi.Ranking) Summary {
	s := Summary{Cells: len(r)}
	if len(r) == 0 {
		return s
	}
	scores := make([]float64, len(r))
	s.Min, s.Max = r[0].Score, r[0].Score
	for i, c := range r {
		scores[i] = float64(c.Score)
		if c.Size > 0 {
			s.NonEmpty++
		}
		s.Points += c.Size
		s.Min = min(s.Min, c.Score)
		s.Max = max(s.Max, c.Score)
	}
	s.Mean, s.StdDev = stat.MeanStdDev(scores, nil)
	if len(r) == 1 {
		s.StdDev = 0
	}
	return s
}

// CellsGeoJSON returns the footprints of the cells as polygons in cloud x/y
// coordinates. rank is the 1-based position in cells.
func CellsGeoJSON(b *poi.Binned, cells poi.Ranking) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, c := range cells {
		f := geojson.NewFeature(b.CellBound(c.Row, c.Col).ToPolygon())
		f.Properties["row"] = c.Row
		f.Properties["col"] = c.Col
		f.Properties["score"] = c.Score
		f.Properties["points"] = c.Size
		f.Properties["rank"] = i + 1
		fc.Append(f)
	}
	return fc
}

func SaveGeoJSON(fc *geojson.FeatureCollection, path string) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveScoreHistogram plots the score distribution of the non-empty cells.
// The image format follows the file extension.
func SaveScoreHistogram(r poi.Ranking, path string) error {
	var values plotter.Values
	lo, hi := 0, 0
	for _, c := range r {
		if c.Size == 0 {
			continue
		}
		if len(values) == 0 || c.Score < lo {
			lo = c.Score
		}
		hi = max(hi, c.Score)
		values = append(values, float64(c.Score))
	}
	if len(values) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Cell score distribution"
	p.X.Label.Text = "Distinct height levels"
	p.Y.Label.Text = "Cells"

	h, err := plotter.NewHist(values, min(max(hi-lo+1, 1), maxBins))
	if err != nil {
		return fmt.Errorf("creating histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving histogram: %w", err)
	}
	return nil
}
