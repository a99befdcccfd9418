package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqsense/pcdpoi/config"
	"github.com/seqsense/pcdpoi/internal/cli"
	"github.com/seqsense/pcdpoi/pcd"
	"github.com/seqsense/pcdpoi/poi"
	"github.com/seqsense/pcdpoi/report"
)

const usage = "./bird_view_poi point_cloud.pcd"

func main() {
	os.Exit(cli.Execute(newCommand(os.Stderr), os.Args[1:], os.Stdout, os.Stderr))
}

func newCommand(logOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bird_view_poi [flags] point_cloud.pcd",
		Short: "color the cells of a point cloud with the most height variety",
		Args:  cli.ExactArgs(1, usage),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			quiet, _ := fl.GetBool("quiet")
			geojson, _ := fl.GetString("geojson")
			histogram, _ := fl.GetString("histogram")
			return run(pcd.FileIO{}, pcd.FileIO{}, args[0], c, geojson, histogram, cli.NewLogger(logOut, quiet))
		},
	}

	d := config.DefaultPOI()
	fl := cmd.Flags()
	fl.String("config", "", "YAML configuration file")
	fl.Float64("scale", d.Scale, "side length of the window centered on the centroid")
	fl.Float64("resolution", d.Resolution, "side length of a grid cell")
	fl.Float64("height-resolution", d.HeightResolution, "height of a bucket in the cell score")
	fl.IntP("top-k", "k", d.K, "number of cells selected as points of interest")
	fl.Bool("downsample", d.Downsample.Enabled, "downsample the input with a voxel grid")
	fl.Float64("leaf-size", d.Downsample.LeafSize, "voxel grid leaf size")
	fl.Int64("seed", d.Seed, "seed of the cell colors")
	fl.StringP("output", "o", d.Output, "output point cloud")
	fl.String("geojson", "", "write the selected cells as GeoJSON")
	fl.String("histogram", "", "write a histogram of the cell scores")
	fl.Bool("quiet", false, "suppress progress output")
	return cmd
}

// resolveConfig merges the defaults, the configuration file and the flags set
// on the command line, in this order.
func resolveConfig(cmd *cobra.Command) (*config.POI, error) {
	fl := cmd.Flags()
	c := config.DefaultPOI()
	if path, _ := fl.GetString("config"); path != "" {
		var err error
		if c, err = config.LoadPOI(path); err != nil {
			return nil, err
		}
	}
	if fl.Changed("scale") {
		c.Scale, _ = fl.GetFloat64("scale")
	}
	if fl.Changed("resolution") {
		c.Resolution, _ = fl.GetFloat64("resolution")
	}
	if fl.Changed("height-resolution") {
		c.HeightResolution, _ = fl.GetFloat64("height-resolution")
	}
	if fl.Changed("top-k") {
		c.K, _ = fl.GetInt("top-k")
	}
	if fl.Changed("downsample") {
		c.Downsample.Enabled, _ = fl.GetBool("downsample")
	}
	if fl.Changed("leaf-size") {
		c.Downsample.LeafSize, _ = fl.GetFloat64("leaf-size")
	}
	if fl.Changed("seed") {
		c.Seed, _ = fl.GetInt64("seed")
	}
	if fl.Changed("output") {
		c.Output, _ = fl.GetString("output")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func run(src pcd.Source, sink pcd.Sink, path string, c *config.POI, geojsonPath, histogramPath string, logger *log.Logger) error {
	pts, err := src.Load(path)
	if err != nil {
		return err
	}
	logger.Printf("cloud_in has %d points", len(pts))

	opts, err := c.Options()
	if err != nil {
		return err
	}
	res, err := poi.Run(pts, opts, logger)
	if err != nil {
		return err
	}
	logger.Print(report.Summarize(res.Ranking))

	if err := sink.Write(c.Output, res.Points); err != nil {
		return err
	}
	logger.Printf("%d points written to %s", len(res.Points), c.Output)

	if geojsonPath != "" {
		if err := report.SaveGeoJSON(report.CellsGeoJSON(res.Binned, res.POI), geojsonPath); err != nil {
			return fmt.Errorf("writing geojson: %w", err)
		}
	}
	if histogramPath != "" {
		if err := report.SaveScoreHistogram(res.Ranking, histogramPath); err != nil {
			return fmt.Errorf("writing histogram: %w", err)
		}
	}
	return nil
}
