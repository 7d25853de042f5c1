// Package loader normalizes raw recorded sensor data from rosbag and
// CSV sources into point cloud frames and pose trajectories.
package loader

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/lukekulik/lidar-align/pointcloud"
	"github.com/lukekulik/lidar-align/ros"
	"github.com/lukekulik/lidar-align/trajectory"
)

// Message types consumed from the bag container.
const (
	pointCloud2Type = "sensor_msgs/PointCloud2"
	poseStampedType = "geometry_msgs/PoseStamped"
)

// Ingestion completed but the source contained no usable data. Distinct
// from a source that could not be opened.
var (
	ErrNoPoints = errors.New("no points were loaded, verify that the bag contains populated " +
		"messages of type sensor_msgs/PointCloud2")
	ErrNoPoses = errors.New("no pose messages found")
)

// ScanAccumulator receives completed frames. It owns the frame and
// point totals and thereby the frame-count limit check; the loader only
// reads them back.
type ScanAccumulator interface {
	// AddFrame hands over a completed frame together with an opaque
	// per-source token the accumulator may interpret.
	AddFrame(frame *pointcloud.Frame, token interface{})

	// NumFrames returns the number of frames accumulated so far.
	NumFrames() int

	// TotalPoints returns the number of points accumulated so far.
	TotalPoints() int
}

// TrajectoryStore receives pose samples in ingestion order.
type TrajectoryStore interface {
	Append(stamp trajectory.Timestamp, t trajectory.Transform)
	Empty() bool
}

// Loader ingests recorded sensor data into external accumulators.
type Loader struct {
	cfg    Config
	logger golog.Logger
}

// New returns a loader with the given configuration.
func New(cfg Config, logger golog.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logger}
}

// LoadPointcloudsFromBag normalizes every PointCloud2 record in the bag
// at the given path, in stored order, handing each resulting frame to
// the accumulator together with the opaque token. Loading stops early
// once the configured scan limit is reached. An accumulator left with
// zero total points is reported as ErrNoPoints.
func (l *Loader) LoadPointcloudsFromBag(path string, acc ScanAccumulator, token interface{}) error {
	rb, err := ros.ReadBag(path)
	if err != nil {
		return err
	}
	msgs, err := ros.MessagesForType(rb, pointCloud2Type)
	if err != nil {
		return err
	}
	return l.ingestPointClouds(msgs, acc, token)
}

func (l *Loader) ingestPointClouds(msgs [][]byte, acc ScanAccumulator, token interface{}) error {
	for i, raw := range msgs {
		var msg ros.PointCloud2Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			l.logger.Debugw("skipping unreadable point cloud record", "record", i, "error", err)
			continue
		}
		frame, dropped, err := Normalize(&msg)
		if err != nil {
			l.logger.Debugw("skipping undecodable point cloud record", "record", i, "error", err)
			continue
		}
		if dropped > 0 {
			l.logger.Debugw("dropped non-finite points", "record", i, "dropped", dropped)
		}
		acc.AddFrame(frame, token)
		l.logger.Debugf("loaded scan %d from bag", acc.NumFrames())

		if l.cfg.UseNScans > 0 && acc.NumFrames() >= l.cfg.UseNScans {
			break
		}
	}
	if acc.TotalPoints() == 0 {
		return ErrNoPoints
	}
	return nil
}

// LoadTrajectoryFromBag appends a pose sample to the store for every
// PoseStamped record in the bag at the given path, in stored order.
// Stamps are header seconds in microseconds plus truncated header
// nanoseconds; translations and rotations are taken as given, with no
// quaternion validation. A store left empty is reported as ErrNoPoses.
func (l *Loader) LoadTrajectoryFromBag(path string, store TrajectoryStore) error {
	rb, err := ros.ReadBag(path)
	if err != nil {
		return err
	}
	msgs, err := ros.MessagesForType(rb, poseStampedType)
	if err != nil {
		return err
	}
	return l.ingestPoses(msgs, store)
}

func (l *Loader) ingestPoses(msgs [][]byte, store TrajectoryStore) error {
	loaded := 0
	for i, raw := range msgs {
		var msg ros.PoseStampedMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			l.logger.Debugw("skipping unreadable pose record", "record", i, "error", err)
			continue
		}

		stamp := trajectory.Timestamp(stampMicros(msg.Data.Header.Stamp.Secs, msg.Data.Header.Stamp.Nsecs))
		pose := msg.Data.Pose
		store.Append(stamp, trajectory.NewTransform(
			pose.Position.X, pose.Position.Y, pose.Position.Z,
			pose.Orientation.W, pose.Orientation.X, pose.Orientation.Y, pose.Orientation.Z,
		))
		loaded++
		l.logger.Debugf("loaded transform %d from bag", loaded)
	}
	if store.Empty() {
		return ErrNoPoses
	}
	return nil
}

// LoadTrajectory ingests poses from the source at the given path,
// dispatching on the extension: ".bag" is read as a rosbag, anything
// else as a delimited text file. The non-empty check is applied
// uniformly to both sources.
func (l *Loader) LoadTrajectory(path string, store TrajectoryStore) error {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".bag") {
		err = l.LoadTrajectoryFromBag(path, store)
	} else {
		err = l.LoadTrajectoryFromCSV(path, store)
	}
	if err != nil {
		return err
	}
	if store.Empty() {
		return ErrNoPoses
	}
	return nil
}
