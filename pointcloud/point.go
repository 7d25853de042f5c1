// Package pointcloud defines the normalized point cloud frame produced
// by ingestion and the schema variants a frame's points can populate.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// NewVector convenience method for creating a vector.
func NewVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// Point is a single sample within a Frame. Position is always
// populated; Intensity and TimeOffset are meaningful only under a
// schema that declares them.
type Point struct {
	Position r3.Vector

	// Intensity is the sensor reflectance value.
	Intensity float64

	// TimeOffset is microseconds relative to the owning frame's stamp.
	TimeOffset float64
}

// NewPoint returns a bare geometry point.
func NewPoint(x, y, z float64) Point {
	return Point{Position: r3.Vector{X: x, Y: y, Z: z}}
}

// NewPointWithIntensity returns a point carrying a reflectance value.
func NewPointWithIntensity(x, y, z, intensity float64) Point {
	return Point{Position: r3.Vector{X: x, Y: y, Z: z}, Intensity: intensity}
}

// FiniteUnder reports whether every field the schema populates holds a
// finite value. Position is checked under every schema.
func (p Point) FiniteUnder(s Schema) bool {
	if !finite(p.Position.X) || !finite(p.Position.Y) || !finite(p.Position.Z) {
		return false
	}
	if s.HasIntensity() && !finite(p.Intensity) {
		return false
	}
	if s.HasTimeOffset() && !finite(p.TimeOffset) {
		return false
	}
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
