package grasp

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/viam-labs/grasp-selection/spatialmath"
)

// Frame is the orthonormal frame of a grasp: approach, axis, and binormal
// vectors anchored at the grasp center.
type Frame struct {
	Center   r3.Vector
	Approach r3.Vector
	Axis     r3.Vector
	Binormal r3.Vector
}

// NewFrame returns the frame of a candidate.
func NewFrame(c *Candidate) Frame {
	return Frame{Center: c.Center, Approach: c.Approach, Axis: c.Axis, Binormal: c.Binormal}
}

// Rotate returns f rotated about its binormal by theta degrees. The rotation
// is applied to the negated approach vector, so the result's approach points
// the opposite way from the input's. The binormal is recomputed as
// axis x approach to keep the frame orthonormal rather than re-normalizing
// each vector independently.
func (f Frame) Rotate(thetaDeg float64) Frame {
	theta := thetaDeg * (math.Pi / 180.0)
	out := Frame{Center: f.Center}
	out.Axis = spatialmath.RotateVectorAboutAxis(f.Axis, f.Binormal, theta)
	out.Approach = spatialmath.RotateVectorAboutAxis(f.Approach.Mul(-1), f.Binormal, theta)
	out.Binormal = out.Axis.Cross(out.Approach)
	return out
}

// HandOrientations returns the two candidate hand orientations for a rotated
// frame: the nominal orientation and its antipode, rotated 180 degrees about
// the approach vector, since the hand can close on a grasp from either
// rotational side. axisOrder is the permutation mapping the logical
// approach/axis/binormal columns onto the gripper's mounting axes. Both
// quaternions are normalized before being returned.
func HandOrientations(f Frame, axisOrder [3]int) (quat.Number, quat.Number) {
	negApproach := f.Approach.Mul(-1)
	nominal := spatialmath.NewRotationMatrixFromCols(
		negApproach,
		f.Axis,
		negApproach.Cross(f.Axis),
	)

	flippedApproach := spatialmath.RotateVectorAboutAxis(f.Approach, f.Approach, math.Pi)
	flippedAxis := spatialmath.RotateVectorAboutAxis(f.Axis, f.Approach, math.Pi)
	antipode := spatialmath.NewRotationMatrixFromCols(
		flippedApproach,
		flippedAxis,
		flippedApproach.Cross(flippedAxis),
	)

	qA := spatialmath.Normalize(nominal.PermuteCols(axisOrder).Quaternion())
	qB := spatialmath.Normalize(antipode.PermuteCols(axisOrder).Quaternion())
	return qA, qB
}

// PregraspPose returns the standoff pose handed to the IK solver: the frame
// center pulled back along the negative approach direction by offset, paired
// with the given hand orientation, stamped with the planning frame.
func PregraspPose(f Frame, orientation quat.Number, offset float64, frameID string) *spatialmath.Pose {
	position := f.Center.Add(f.Approach.Mul(-offset))
	return spatialmath.NewPose(position, orientation, frameID)
}
