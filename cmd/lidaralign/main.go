// Command lidaralign loads recorded lidar scans and pose trajectories
// from rosbag and CSV sources and reports what survived normalization.
package main

import (
	"os"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"

	"github.com/lukekulik/lidar-align/loader"
	"github.com/lukekulik/lidar-align/trajectory"
)

var logger = golog.NewDevelopmentLogger("lidaralign")

func main() {
	app := &cli.App{
		Name:  "lidaralign",
		Usage: "ingest recorded lidar scans and poses for alignment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "bag",
				Usage:    "path to the rosbag holding PointCloud2 scans",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "poses",
				Usage: "path to the pose source, a .bag or a CSV file (defaults to the scan bag)",
			},
			&cli.IntFlag{
				Name:  "scans",
				Usage: "load at most this many scans (0 loads all)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML configuration file",
			},
		},
		Action: runLoad,
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

func runLoad(c *cli.Context) error {
	cfg := loader.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = loader.ConfigFromFile(path); err != nil {
			return err
		}
	}
	if n := c.Int("scans"); n > 0 {
		cfg.UseNScans = n
	}

	l := loader.New(cfg, logger)

	scans := loader.NewScanBuffer()
	if err := l.LoadPointcloudsFromBag(c.String("bag"), scans, nil); err != nil {
		return err
	}
	logger.Infof("loaded %d scans (%d points)", scans.NumFrames(), scans.TotalPoints())

	posePath := c.String("poses")
	if posePath == "" {
		posePath = c.String("bag")
	}
	traj := trajectory.New()
	if err := l.LoadTrajectory(posePath, traj); err != nil {
		return err
	}
	logger.Infof("loaded %d trajectory samples", traj.Size())
	return nil
}
