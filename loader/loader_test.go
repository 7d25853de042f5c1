package loader

import (
	"encoding/json"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/lukekulik/lidar-align/ros"
	"github.com/lukekulik/lidar-align/trajectory"
)

func poseMsg(t *testing.T, secs, nsecs int64, x, y, z, rw, rx, ry, rz float64) []byte {
	t.Helper()
	var msg ros.PoseStampedMessage
	msg.Data.Header.Stamp.Secs = secs
	msg.Data.Header.Stamp.Nsecs = nsecs
	msg.Data.Pose.Position.X = x
	msg.Data.Pose.Position.Y = y
	msg.Data.Pose.Position.Z = z
	msg.Data.Pose.Orientation.W = rw
	msg.Data.Pose.Orientation.X = rx
	msg.Data.Pose.Orientation.Y = ry
	msg.Data.Pose.Orientation.Z = rz
	data, err := json.Marshal(msg)
	test.That(t, err, test.ShouldBeNil)
	return data
}

func TestIngestPoses(t *testing.T) {
	l := New(DefaultConfig(), golog.NewTestLogger(t))

	msgs := [][]byte{
		poseMsg(t, 10, 500000000, 1, 2, 3, 1, 0, 0, 0),
		poseMsg(t, 9, 999999999, 4, 5, 6, 0.5, 0.5, 0.5, 0.5),
	}
	traj := trajectory.New()
	test.That(t, l.ingestPoses(msgs, traj), test.ShouldBeNil)

	test.That(t, traj.Size(), test.ShouldEqual, 2)
	// 10 s and 500,000,000 ns of header stamp, truncating division
	test.That(t, traj.Sample(0).Stamp, test.ShouldEqual, trajectory.Timestamp(10500000))
	test.That(t, traj.Sample(0).T, test.ShouldResemble, trajectory.NewTransform(1, 2, 3, 1, 0, 0, 0))
	// appends follow source order even when stamps run backwards
	test.That(t, traj.Sample(1).Stamp, test.ShouldEqual, trajectory.Timestamp(9999999))
	test.That(t, traj.Sample(1).T.Rotation.Real, test.ShouldEqual, 0.5)
}

func TestIngestPosesUnvalidatedRotation(t *testing.T) {
	l := New(DefaultConfig(), golog.NewTestLogger(t))

	// a non-unit quaternion passes through untouched
	traj := trajectory.New()
	test.That(t, l.ingestPoses([][]byte{poseMsg(t, 1, 0, 0, 0, 0, 3, 4, 0, 0)}, traj), test.ShouldBeNil)
	test.That(t, traj.Sample(0).T.Rotation.Real, test.ShouldEqual, 3.)
	test.That(t, traj.Sample(0).T.Rotation.Imag, test.ShouldEqual, 4.)
}

func TestIngestPosesEmpty(t *testing.T) {
	l := New(DefaultConfig(), golog.NewTestLogger(t))

	traj := trajectory.New()
	test.That(t, l.ingestPoses(nil, traj), test.ShouldBeError, ErrNoPoses)
	test.That(t, traj.Empty(), test.ShouldBeTrue)

	// unreadable records are skipped, and an all-skip pass is empty too
	test.That(t, l.ingestPoses([][]byte{[]byte("{")}, traj), test.ShouldBeError, ErrNoPoses)
}

func cloudMsgJSON(t *testing.T, msg *ros.PointCloud2Message) []byte {
	t.Helper()
	data, err := json.Marshal(msg)
	test.That(t, err, test.ShouldBeNil)
	return data
}

func TestIngestPointClouds(t *testing.T) {
	l := New(DefaultConfig(), golog.NewTestLogger(t))

	msgs := [][]byte{
		cloudMsgJSON(t, cloudMsg(t, floatFields("x", "y", "z"), false, [][]float64{{1, 2, 3}, {4, 5, 6}})),
		[]byte("not json"), // skipped
		cloudMsgJSON(t, cloudMsg(t, floatFields("x", "y"), false, nil)), // undecodable schema, skipped
		cloudMsgJSON(t, cloudMsg(t, floatFields("x", "y", "z", "intensity"), false, [][]float64{{7, 8, 9, 10}})),
	}

	scans := NewScanBuffer()
	test.That(t, l.ingestPointClouds(msgs, scans, nil), test.ShouldBeNil)
	test.That(t, scans.NumFrames(), test.ShouldEqual, 2)
	test.That(t, scans.TotalPoints(), test.ShouldEqual, 3)
	test.That(t, scans.Frame(0).Size(), test.ShouldEqual, 2)
	test.That(t, scans.Frame(1).At(0).Intensity, test.ShouldEqual, 10.)
}

func TestIngestPointCloudsScanLimit(t *testing.T) {
	l := New(Config{UseNScans: 2}, golog.NewTestLogger(t))

	one := cloudMsgJSON(t, cloudMsg(t, floatFields("x", "y", "z"), false, [][]float64{{1, 2, 3}}))
	scans := NewScanBuffer()
	test.That(t, l.ingestPointClouds([][]byte{one, one, one, one}, scans, nil), test.ShouldBeNil)
	test.That(t, scans.NumFrames(), test.ShouldEqual, 2)
}

func TestIngestPointCloudsEmpty(t *testing.T) {
	l := New(DefaultConfig(), golog.NewTestLogger(t))

	scans := NewScanBuffer()
	test.That(t, l.ingestPointClouds(nil, scans, nil), test.ShouldBeError, ErrNoPoints)

	// frames with zero surviving points are valid frames, but a load
	// that produces no points at all is a failure
	empty := cloudMsgJSON(t, cloudMsg(t, floatFields("x", "y", "z"), false, nil))
	test.That(t, l.ingestPointClouds([][]byte{empty}, scans, nil), test.ShouldBeError, ErrNoPoints)
	test.That(t, scans.NumFrames(), test.ShouldEqual, 1)
}

func TestLoadPointcloudsFromBagUnavailable(t *testing.T) {
	l := New(DefaultConfig(), golog.NewTestLogger(t))

	err := l.LoadPointcloudsFromBag("does-not-exist.bag", NewScanBuffer(), nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unable to open input file")
}
