package pointcloud

// Attribute names a lidar driver may declare on a point cloud record.
// Only these two change how a record is decoded; anything else rides
// along unread.
const (
	TimeOffsetAttr = "time_offset_us"
	IntensityAttr  = "intensity"
)

// Schema identifies which optional per-point attributes a record
// declares. It is resolved once per record and selects the
// normalization branch; the set is closed.
type Schema int

const (
	// PositionOnly is bare geometry: x, y, z.
	PositionOnly Schema = iota
	// PositionIntensity adds a reflectance value per point.
	PositionIntensity
	// Full adds both reflectance and a per-point time offset
	// relative to the frame stamp.
	Full
)

// String implements fmt.Stringer.
func (s Schema) String() string {
	switch s {
	case PositionOnly:
		return "position"
	case PositionIntensity:
		return "position+intensity"
	case Full:
		return "full"
	}
	return "unknown"
}

// HasIntensity reports whether points under this schema carry a
// reflectance value.
func (s Schema) HasIntensity() bool {
	return s == PositionIntensity || s == Full
}

// HasTimeOffset reports whether points under this schema carry a time
// offset.
func (s Schema) HasTimeOffset() bool {
	return s == Full
}

// SchemaForAttributes resolves the richest schema the given declared
// attribute names support. A timing attribute wins over intensity.
func SchemaForAttributes(names []string) Schema {
	var hasTiming, hasIntensity bool
	for _, name := range names {
		switch name {
		case TimeOffsetAttr:
			hasTiming = true
		case IntensityAttr:
			hasIntensity = true
		}
	}
	switch {
	case hasTiming:
		return Full
	case hasIntensity:
		return PositionIntensity
	default:
		return PositionOnly
	}
}
