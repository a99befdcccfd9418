package main

import (
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqsense/pcdpoi/cluster"
	"github.com/seqsense/pcdpoi/config"
	"github.com/seqsense/pcdpoi/internal/cli"
	"github.com/seqsense/pcdpoi/pcd"
)

const usage = "./euclidean_cluster_extraction your-pcd-file"

func main() {
	os.Exit(cli.Execute(newCommand(os.Stderr), os.Args[1:], os.Stdout, os.Stderr))
}

func newCommand(logOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "euclidean_cluster [flags] your-pcd-file",
		Short: "split a point cloud into euclidean clusters, one file per cluster",
		Args:  cli.ExactArgs(1, usage),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			quiet, _ := cmd.Flags().GetBool("quiet")
			return run(pcd.FileIO{}, pcd.FileIO{}, args[0], c, cli.NewLogger(logOut, quiet))
		},
	}

	d := config.DefaultCluster()
	fl := cmd.Flags()
	fl.String("config", "", "YAML configuration file")
	fl.Float64("tolerance", d.Cluster.Tolerance, "maximum distance between two points of a cluster")
	fl.Int("min-size", d.Cluster.MinSize, "minimum number of points of a cluster")
	fl.Int("max-size", d.Cluster.MaxSize, "maximum number of points of a cluster, 0 for unlimited")
	fl.Bool("no-plane", !d.Plane.Enabled, "keep the dominant plane")
	fl.Float64("plane-threshold", d.Plane.DistanceThreshold, "distance of a point to the plane to be removed")
	fl.Int("plane-iterations", d.Plane.MaxIterations, "number of RANSAC iterations")
	fl.Bool("downsample", d.Downsample.Enabled, "downsample the input with a voxel grid")
	fl.Float64("leaf-size", d.Downsample.LeafSize, "voxel grid leaf size")
	fl.Int64("seed", d.Seed, "seed of the plane search and the cluster colors")
	fl.String("prefix", d.OutputPrefix, "output file prefix")
	fl.Bool("quiet", false, "suppress progress output")
	return cmd
}

func resolveConfig(cmd *cobra.Command) (*config.Cluster, error) {
	fl := cmd.Flags()
	c := config.DefaultCluster()
	if path, _ := fl.GetString("config"); path != "" {
		var err error
		if c, err = config.LoadCluster(path); err != nil {
			return nil, err
		}
	}
	if fl.Changed("tolerance") {
		c.Cluster.Tolerance, _ = fl.GetFloat64("tolerance")
	}
	if fl.Changed("min-size") {
		c.Cluster.MinSize, _ = fl.GetInt("min-size")
	}
	if fl.Changed("max-size") {
		c.Cluster.MaxSize, _ = fl.GetInt("max-size")
	}
	if fl.Changed("no-plane") {
		noPlane, _ := fl.GetBool("no-plane")
		c.Plane.Enabled = !noPlane
	}
	if fl.Changed("plane-threshold") {
		c.Plane.DistanceThreshold, _ = fl.GetFloat64("plane-threshold")
	}
	if fl.Changed("plane-iterations") {
		c.Plane.MaxIterations, _ = fl.GetInt("plane-iterations")
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
	if fl.Changed("prefix") {
		c.OutputPrefix, _ = fl.GetString("prefix")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func run(src pcd.Source, sink pcd.Sink, path string, c *config.Cluster, logger *log.Logger) error {
	pts, err := src.Load(path)
	if err != nil {
		return err
	}
	logger.Printf("point cloud before filtering has %d points", len(pts))

	res, err := cluster.Run(pts, c.Params(), rand.New(rand.NewSource(c.Seed)), logger)
	if err != nil {
		return err
	}
	return cluster.Write(sink, c.OutputPrefix, res.Clusters, logger)
}
