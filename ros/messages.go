package ros

// ROS PointField datatype codes (sensor_msgs/PointField).
const (
	PointFieldInt8    = 1
	PointFieldUint8   = 2
	PointFieldInt16   = 3
	PointFieldUint16  = 4
	PointFieldInt32   = 5
	PointFieldUint32  = 6
	PointFieldFloat32 = 7
	PointFieldFloat64 = 8
)

// Header is a ROS std_msgs/Header as extracted from a bag record.
type Header struct {
	Seq   int
	Stamp struct {
		Secs  int64
		Nsecs int64
	}
	FrameID string `json:"frame_id"`
}

// PointField describes one attribute in a PointCloud2 record's declared
// schema.
type PointField struct {
	Name     string
	Offset   uint32
	Datatype uint8
	Count    uint32
}

// PointCloud2Message is a sensor_msgs/PointCloud2 record.
type PointCloud2Message struct {
	Meta struct {
		Secs  int64
		Nsecs int64
	}
	Data struct {
		Header      Header
		Height      uint32
		Width       uint32
		Fields      []PointField
		IsBigendian bool   `json:"is_bigendian"`
		PointStep   uint32 `json:"point_step"`
		RowStep     uint32 `json:"row_step"`
		Data        []byte
		IsDense     bool `json:"is_dense"`
	}
}

// PoseStampedMessage is a geometry_msgs/PoseStamped record.
type PoseStampedMessage struct {
	Meta struct {
		Secs  int64
		Nsecs int64
	}
	Data struct {
		Header Header
		Pose   struct {
			Position struct {
				X float64
				Y float64
				Z float64
			}
			Orientation struct {
				X float64
				Y float64
				Z float64
				W float64
			}
		}
	}
}
