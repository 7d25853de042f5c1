package loader

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/lukekulik/lidar-align/pointcloud"
	"github.com/lukekulik/lidar-align/ros"
)

// Normalize converts one serialized point cloud record into a frame in
// the richest representation the record's declared schema supports.
//
// A record declaring a per-point timing attribute is decoded into the
// full representation and trusted as-is. A record declaring intensity
// but no timing is decoded point by point, dropping any point with a
// non-finite position or intensity. A bare geometry record is decoded
// the same way, checking position only. The second return value is the
// number of points dropped; a frame with zero surviving points is a
// valid result, not an error.
//
// An error means the record's schema could not be decoded at all
// (missing geometry fields, truncated data blob, unknown field
// datatype); callers treat that as a per-record skip.
func Normalize(msg *ros.PointCloud2Message) (*pointcloud.Frame, int, error) {
	names := make([]string, 0, len(msg.Data.Fields))
	for _, f := range msg.Data.Fields {
		names = append(names, f.Name)
	}
	schema := pointcloud.SchemaForAttributes(names)

	dec, err := newPointDecoder(msg, schema)
	if err != nil {
		return nil, 0, err
	}

	frame := pointcloud.NewFrameWithPrealloc(schema, dec.count)
	frame.Stamp = stampMicros(msg.Data.Header.Stamp.Secs, msg.Data.Header.Stamp.Nsecs)
	frame.FrameID = msg.Data.Header.FrameID

	var dropped int
	for i := 0; i < dec.count; i++ {
		p := dec.at(i)
		if schema != pointcloud.Full && !p.FiniteUnder(schema) {
			dropped++
			continue
		}
		frame.Append(p)
	}
	return frame, dropped, nil
}

// stampMicros converts a record header stamp to whole microseconds,
// truncating the nanosecond remainder.
func stampMicros(secs, nsecs int64) int64 {
	return secs*1000000 + nsecs/1000
}

// fieldRef locates one attribute inside a record's packed point layout.
type fieldRef struct {
	offset   int
	datatype uint8
}

// pointDecoder reads points out of a PointCloud2 data blob using the
// record's own declared layout.
type pointDecoder struct {
	data  []byte
	step  int
	count int
	order binary.ByteOrder

	x, y, z    fieldRef
	intensity  fieldRef
	timeOffset fieldRef
	schema     pointcloud.Schema
}

func newPointDecoder(msg *ros.PointCloud2Message, schema pointcloud.Schema) (*pointDecoder, error) {
	dec := &pointDecoder{
		data:   msg.Data.Data,
		step:   int(msg.Data.PointStep),
		count:  int(msg.Data.Width) * int(msg.Data.Height),
		schema: schema,
	}
	dec.order = binary.LittleEndian
	if msg.Data.IsBigendian {
		dec.order = binary.BigEndian
	}
	if dec.step <= 0 {
		return nil, errors.Errorf("invalid point step %d", dec.step)
	}
	if dec.count*dec.step > len(dec.data) {
		return nil, errors.Errorf("data blob holds %d bytes, record declares %d points of %d bytes",
			len(dec.data), dec.count, dec.step)
	}

	required := map[string]*fieldRef{"x": &dec.x, "y": &dec.y, "z": &dec.z}
	if schema.HasIntensity() {
		required[pointcloud.IntensityAttr] = &dec.intensity
	}
	if schema.HasTimeOffset() {
		required[pointcloud.TimeOffsetAttr] = &dec.timeOffset
	}
	for _, f := range msg.Data.Fields {
		ref, ok := required[f.Name]
		if !ok {
			continue
		}
		size := fieldSize(f.Datatype)
		if size == 0 {
			return nil, errors.Errorf("unsupported datatype %d for point field %q", f.Datatype, f.Name)
		}
		if int(f.Offset)+size > dec.step {
			return nil, errors.Errorf("point field %q overruns point step %d", f.Name, dec.step)
		}
		*ref = fieldRef{offset: int(f.Offset), datatype: f.Datatype}
		delete(required, f.Name)
	}
	for _, name := range []string{"x", "y", "z", pointcloud.IntensityAttr, pointcloud.TimeOffsetAttr} {
		if _, missing := required[name]; missing {
			return nil, errors.Errorf("record schema declares no %q field", name)
		}
	}
	return dec, nil
}

func (dec *pointDecoder) at(i int) pointcloud.Point {
	base := dec.data[i*dec.step : (i+1)*dec.step]
	p := pointcloud.Point{
		Position: pointcloud.NewVector(
			dec.read(base, dec.x),
			dec.read(base, dec.y),
			dec.read(base, dec.z),
		),
	}
	if dec.schema.HasIntensity() {
		p.Intensity = dec.read(base, dec.intensity)
	}
	if dec.schema.HasTimeOffset() {
		p.TimeOffset = dec.read(base, dec.timeOffset)
	}
	return p
}

func (dec *pointDecoder) read(base []byte, ref fieldRef) float64 {
	b := base[ref.offset:]
	switch ref.datatype {
	case ros.PointFieldInt8:
		return float64(int8(b[0]))
	case ros.PointFieldUint8:
		return float64(b[0])
	case ros.PointFieldInt16:
		return float64(int16(dec.order.Uint16(b)))
	case ros.PointFieldUint16:
		return float64(dec.order.Uint16(b))
	case ros.PointFieldInt32:
		return float64(int32(dec.order.Uint32(b)))
	case ros.PointFieldUint32:
		return float64(dec.order.Uint32(b))
	case ros.PointFieldFloat32:
		return float64(math.Float32frombits(dec.order.Uint32(b)))
	case ros.PointFieldFloat64:
		return math.Float64frombits(dec.order.Uint64(b))
	}
	// Datatypes were validated when the decoder was built.
	return math.NaN()
}

func fieldSize(datatype uint8) int {
	switch datatype {
	case ros.PointFieldInt8, ros.PointFieldUint8:
		return 1
	case ros.PointFieldInt16, ros.PointFieldUint16:
		return 2
	case ros.PointFieldInt32, ros.PointFieldUint32, ros.PointFieldFloat32:
		return 4
	case ros.PointFieldFloat64:
		return 8
	}
	return 0
}
