package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a position and orientation stamped with the identifier of the
// reference frame it is expressed in.
type Pose struct {
	Point       r3.Vector
	Orientation quat.Number
	Frame       string
}

// NewPose returns a pose from a point, an orientation, and a frame identifier.
func NewPose(pt r3.Vector, o quat.Number, frame string) *Pose {
	return &Pose{Point: pt, Orientation: o, Frame: frame}
}
