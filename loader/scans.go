package loader

import (
	"github.com/lukekulik/lidar-align/pointcloud"
)

// ScanBuffer is a basic in-memory ScanAccumulator keeping every frame
// it receives. The per-source token is ignored.
type ScanBuffer struct {
	frames      []*pointcloud.Frame
	totalPoints int
}

// NewScanBuffer returns an empty ScanBuffer.
func NewScanBuffer() *ScanBuffer {
	return &ScanBuffer{}
}

// AddFrame stores the frame.
func (s *ScanBuffer) AddFrame(frame *pointcloud.Frame, _ interface{}) {
	s.frames = append(s.frames, frame)
	s.totalPoints += frame.Size()
}

// NumFrames returns the number of stored frames.
func (s *ScanBuffer) NumFrames() int {
	return len(s.frames)
}

// TotalPoints returns the number of points across all stored frames.
func (s *ScanBuffer) TotalPoints() int {
	return s.totalPoints
}

// Frame returns the i-th stored frame in arrival order.
func (s *ScanBuffer) Frame(i int) *pointcloud.Frame {
	return s.frames[i]
}
