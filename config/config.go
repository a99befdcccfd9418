// Package config loads the YAML configuration of the command line tools.
// Keys missing from the file keep their default values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seqsense/pcdpoi/cluster"
	"github.com/seqsense/pcdpoi/pcd"
	"github.com/seqsense/pcdpoi/poi"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	DefaultPOIOutput     = "bird_view_poi_output.pcd"
	DefaultClusterPrefix = "cloud_cluster_"
)

type Downsample struct {
	Enabled  bool    `yaml:"enabled"`
	LeafSize float64 `yaml:"leaf_size"`
}

// POI configures bird_view_poi.
type POI struct {
	Scale            float64    `yaml:"scale"`
	Resolution       float64    `yaml:"resolution"`
	HeightResolution float64    `yaml:"height_resolution"`
	K                int        `yaml:"k"`
	Downsample       Downsample `yaml:"downsample"`
	Seed             int64      `yaml:"seed"`
	BackgroundColor  []int      `yaml:"background_color"`
	Output           string     `yaml:"output"`
}

type Plane struct {
	Enabled           bool    `yaml:"enabled"`
	MaxIterations     int     `yaml:"max_iterations"`
	DistanceThreshold float64 `yaml:"distance_threshold"`
	MinInliers        int     `yaml:"min_inliers"`
}

type Extraction struct {
	Tolerance float64 `yaml:"tolerance"`
	MinSize   int     `yaml:"min_size"`
	MaxSize   int     `yaml:"max_size"`
}

// Cluster configures euclidean_cluster.
type Cluster struct {
	Plane        Plane      `yaml:"plane"`
	Cluster      Extraction `yaml:"cluster"`
	Downsample   Downsample `yaml:"downsample"`
	Seed         int64      `yaml:"seed"`
	OutputPrefix string     `yaml:"output_prefix"`
}

func DefaultPOI() *POI {
	o := poi.DefaultOptions()
	return &POI{
		Scale:            o.Scale,
		Resolution:       o.Resolution,
		HeightResolution: o.HeightResolution,
		K:                o.K,
		Downsample:       Downsample{Enabled: o.Downsample.Enabled, LeafSize: o.Downsample.LeafSize},
		Seed:             o.Seed,
		BackgroundColor:  []int{int(o.Background.R), int(o.Background.G), int(o.Background.B)},
		Output:           DefaultPOIOutput,
	}
}

func DefaultCluster() *Cluster {
	p := cluster.DefaultParams()
	return &Cluster{
		Plane: Plane{
			Enabled:           p.Plane.Enabled,
			MaxIterations:     p.Plane.MaxIterations,
			DistanceThreshold: p.Plane.DistanceThreshold,
			MinInliers:        p.Plane.MinInliers,
		},
		Cluster: Extraction{
			Tolerance: p.Tolerance,
			MinSize:   p.MinSize,
			MaxSize:   p.MaxSize,
		},
		Downsample:   Downsample{Enabled: p.Downsample.Enabled, LeafSize: p.Downsample.LeafSize},
		Seed:         1,
		OutputPrefix: DefaultClusterPrefix,
	}
}

// LoadPOI reads a POI configuration on top of the defaults.
func LoadPOI(path string) (*POI, error) {
	c := DefaultPOI()
	if err := load(path, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCluster reads a clustering configuration on top of the defaults.
func LoadCluster(path string) (*Cluster, error) {
	c := DefaultCluster()
	if err := load(path, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", path)
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return fmt.Errorf("%w: parsing config YAML: %w", ErrInvalid, err)
	}
	return nil
}

// Options converts the configuration to pipeline options.
func (c *POI) Options() (poi.Options, error) {
	if len(c.BackgroundColor) != 3 {
		return poi.Options{}, fmt.Errorf("%w: background_color must have 3 channels, got %d", ErrInvalid, len(c.BackgroundColor))
	}
	var bg [3]uint8
	for i, v := range c.BackgroundColor {
		if v < 0 || v > 255 {
			return poi.Options{}, fmt.Errorf("%w: background_color channel %d out of range: %d", ErrInvalid, i, v)
		}
		bg[i] = uint8(v)
	}
	return poi.Options{
		Params: poi.Params{
			Scale:            c.Scale,
			Resolution:       c.Resolution,
			HeightResolution: c.HeightResolution,
			K:                c.K,
		},
		Downsample: poi.Downsample{Enabled: c.Downsample.Enabled, LeafSize: c.Downsample.LeafSize},
		Seed:       c.Seed,
		Background: pcd.Color{R: bg[0], G: bg[1], B: bg[2]},
	}, nil
}

func (c *POI) Validate() error {
	o, err := c.Options()
	if err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output is required", ErrInvalid)
	}
	return nil
}

func (c *Cluster) Params() cluster.Params {
	return cluster.Params{
		Downsample: cluster.Downsample{Enabled: c.Downsample.Enabled, LeafSize: c.Downsample.LeafSize},
		Plane: cluster.PlaneParams{
			Enabled:           c.Plane.Enabled,
			MaxIterations:     c.Plane.MaxIterations,
			DistanceThreshold: c.Plane.DistanceThreshold,
			MinInliers:        c.Plane.MinInliers,
		},
		Tolerance: c.Cluster.Tolerance,
		MinSize:   c.Cluster.MinSize,
		MaxSize:   c.Cluster.MaxSize,
	}
}

func (c *Cluster) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
