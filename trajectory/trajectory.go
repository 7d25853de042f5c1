// Package trajectory defines timestamped rigid transforms and an
// insertion-ordered collection of them.
package trajectory

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Timestamp is a count of microseconds since an arbitrary but
// consistent epoch. Both source formats must resolve to this unit so
// trajectories stay comparable across them.
type Timestamp int64

// Transform is a rigid body pose: a translation plus a quaternion
// rotation. The rotation is stored as given by the source; this layer
// performs no unit-norm validation.
type Transform struct {
	Translation r3.Vector
	Rotation    quat.Number
}

// NewTransform constructs a transform from translation components and
// rotation components in w, x, y, z order.
func NewTransform(x, y, z, rw, rx, ry, rz float64) Transform {
	return Transform{
		Translation: r3.Vector{X: x, Y: y, Z: z},
		Rotation:    quat.Number{Real: rw, Imag: rx, Jmag: ry, Kmag: rz},
	}
}

// Sample is one trajectory entry.
type Sample struct {
	Stamp Timestamp
	T     Transform
}

// Trajectory is an append-only collection of pose samples kept in
// insertion order. It never reorders or deduplicates; callers that
// need time-sorted data must append in time order.
type Trajectory struct {
	samples []Sample
}

// New returns an empty trajectory.
func New() *Trajectory {
	return &Trajectory{}
}

// Append adds a sample to the end of the trajectory.
func (traj *Trajectory) Append(stamp Timestamp, t Transform) {
	traj.samples = append(traj.samples, Sample{Stamp: stamp, T: t})
}

// Empty reports whether the trajectory holds no samples.
func (traj *Trajectory) Empty() bool {
	return len(traj.samples) == 0
}

// Size returns the number of samples.
func (traj *Trajectory) Size() int {
	return len(traj.samples)
}

// Sample returns the i-th sample in insertion order.
func (traj *Trajectory) Sample(i int) Sample {
	return traj.samples[i]
}

// PoseAt returns the pose at the given stamp, interpolating between
// the bracketing samples and clamping outside the recorded range. It
// assumes samples were appended in time order and the trajectory is
// non-empty.
func (traj *Trajectory) PoseAt(stamp Timestamp) Transform {
	first := traj.samples[0]
	last := traj.samples[len(traj.samples)-1]
	if stamp <= first.Stamp {
		return first.T
	}
	if stamp >= last.Stamp {
		return last.T
	}

	hi := 1
	for traj.samples[hi].Stamp < stamp {
		hi++
	}
	lo := hi - 1
	a, b := traj.samples[lo], traj.samples[hi]
	if a.Stamp == b.Stamp {
		return a.T
	}
	u := float64(stamp-a.Stamp) / float64(b.Stamp-a.Stamp)
	return interpolate(a.T, b.T, u)
}

// interpolate blends two transforms: linear on translation, normalized
// linear on rotation. u is in [0, 1].
func interpolate(a, b Transform, u float64) Transform {
	// Take the short way around.
	qa, qb := a.Rotation, b.Rotation
	if dot(qa, qb) < 0 {
		qb = quat.Scale(-1, qb)
	}
	q := quat.Add(quat.Scale(1-u, qa), quat.Scale(u, qb))
	if n := quat.Abs(q); n > 0 {
		q = quat.Scale(1/n, q)
	}
	return Transform{
		Translation: a.Translation.Mul(1 - u).Add(b.Translation.Mul(u)),
		Rotation:    q,
	}
}

func dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// TransformAlmostEqual reports whether two transforms agree to within
// epsilon, component-wise.
func TransformAlmostEqual(a, b Transform, epsilon float64) bool {
	d := a.Translation.Sub(b.Translation)
	if math.Abs(d.X) > epsilon || math.Abs(d.Y) > epsilon || math.Abs(d.Z) > epsilon {
		return false
	}
	dq := quat.Sub(a.Rotation, b.Rotation)
	return quat.Abs(dq) <= epsilon
}
