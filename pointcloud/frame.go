package pointcloud

import (
	"math"
)

// MetaData is data about what's stored in a frame: which optional
// attributes its schema populates and the bounding box of the points
// appended so far.
type MetaData struct {
	HasIntensity  bool
	HasTimeOffset bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData creates a new MetaData.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge updates the meta data with the new point.
func (meta *MetaData) Merge(p Point) {
	v := p.Position
	if v.X > meta.MaxX {
		meta.MaxX = v.X
	}
	if v.Y > meta.MaxY {
		meta.MaxY = v.Y
	}
	if v.Z > meta.MaxZ {
		meta.MaxZ = v.Z
	}
	if v.X < meta.MinX {
		meta.MinX = v.X
	}
	if v.Y < meta.MinY {
		meta.MinY = v.Y
	}
	if v.Z < meta.MinZ {
		meta.MinZ = v.Z
	}
}

// Frame is one normalized point cloud corresponding to a single
// ingested record. Points are kept in append order; the same position
// may appear more than once.
type Frame struct {
	// Stamp is the record's base timestamp in microseconds, copied
	// verbatim from the source header.
	Stamp int64

	// FrameID is the source coordinate frame identifier, copied
	// verbatim from the source header.
	FrameID string

	schema Schema
	points []Point
	meta   MetaData
}

// NewFrame returns an empty frame for the given schema.
func NewFrame(schema Schema) *Frame {
	return NewFrameWithPrealloc(schema, 0)
}

// NewFrameWithPrealloc returns an empty, preallocated frame for the
// given schema.
func NewFrameWithPrealloc(schema Schema, size int) *Frame {
	return &Frame{
		schema: schema,
		points: make([]Point, 0, size),
		meta:   NewMetaData(),
	}
}

// Schema returns the schema the frame's points populate.
func (f *Frame) Schema() Schema {
	return f.schema
}

// Size returns the number of points in the frame.
func (f *Frame) Size() int {
	return len(f.points)
}

// MetaData returns the merged meta data of all appended points.
func (f *Frame) MetaData() MetaData {
	meta := f.meta
	meta.HasIntensity = f.schema.HasIntensity()
	meta.HasTimeOffset = f.schema.HasTimeOffset()
	return meta
}

// At returns the i-th point in append order.
func (f *Frame) At(i int) Point {
	return f.points[i]
}

// Append adds a point to the end of the frame.
func (f *Frame) Append(p Point) {
	f.points = append(f.points, p)
	f.meta.Merge(p)
}

// Iterate calls fn for each point in append order, stopping early if
// fn returns false.
func (f *Frame) Iterate(fn func(p Point) bool) {
	for _, p := range f.points {
		if !fn(p) {
			return
		}
	}
}
