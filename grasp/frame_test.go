package grasp

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func testCandidate() *Candidate {
	return &Candidate{
		Center:        r3.Vector{X: 0.5, Z: 0.5},
		SurfaceCenter: r3.Vector{X: 0.5, Z: 0.5},
		Approach:      r3.Vector{Z: 1},
		Axis:          r3.Vector{X: 1},
		Binormal:      r3.Vector{Y: -1},
		Width:         0.05,
	}
}

func rotateByQuat(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

func vectorAlmostEqual(t *testing.T, got, want r3.Vector) {
	t.Helper()
	test.That(t, got.X, test.ShouldAlmostEqual, want.X, 1e-9)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, 1e-9)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z, 1e-9)
}

func TestRotateZeroNegatesApproach(t *testing.T) {
	f := NewFrame(testCandidate())
	rotated := f.Rotate(0)

	vectorAlmostEqual(t, rotated.Approach, r3.Vector{Z: -1})
	vectorAlmostEqual(t, rotated.Axis, r3.Vector{X: 1})
	vectorAlmostEqual(t, rotated.Binormal, r3.Vector{Y: 1})
	test.That(t, rotated.Center, test.ShouldResemble, f.Center)
}

func TestRotatePreservesOrthonormality(t *testing.T) {
	f := NewFrame(testCandidate())
	for _, theta := range []float64{-15, -5, 5, 15, 37.5} {
		rotated := f.Rotate(theta)
		test.That(t, rotated.Approach.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, rotated.Axis.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, rotated.Binormal.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, rotated.Approach.Dot(rotated.Axis), test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, rotated.Approach.Dot(rotated.Binormal), test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, rotated.Axis.Dot(rotated.Binormal), test.ShouldAlmostEqual, 0, 1e-9)
	}
}

func TestHandOrientationsAreUnit(t *testing.T) {
	f := NewFrame(testCandidate()).Rotate(7)
	qA, qB := HandOrientations(f, [3]int{0, 1, 2})
	test.That(t, quat.Abs(qA), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, quat.Abs(qB), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, qA, test.ShouldNotResemble, qB)
}

func TestHandOrientationColumns(t *testing.T) {
	f := NewFrame(testCandidate()).Rotate(0)
	// rotated frame: approach (0,0,-1), axis (1,0,0)
	qA, qB := HandOrientations(f, [3]int{0, 1, 2})

	// nominal: maps x to -approach, y to axis, z to their cross product
	vectorAlmostEqual(t, rotateByQuat(qA, r3.Vector{X: 1}), r3.Vector{Z: 1})
	vectorAlmostEqual(t, rotateByQuat(qA, r3.Vector{Y: 1}), r3.Vector{X: 1})
	vectorAlmostEqual(t, rotateByQuat(qA, r3.Vector{Z: 1}), r3.Vector{Y: 1})

	// antipode: rotated 180 degrees about the approach vector
	vectorAlmostEqual(t, rotateByQuat(qB, r3.Vector{X: 1}), r3.Vector{Z: -1})
	vectorAlmostEqual(t, rotateByQuat(qB, r3.Vector{Y: 1}), r3.Vector{X: -1})
	vectorAlmostEqual(t, rotateByQuat(qB, r3.Vector{Z: 1}), r3.Vector{Y: 1})
}

func TestHandOrientationsAxisOrder(t *testing.T) {
	f := NewFrame(testCandidate()).Rotate(0)
	qA, _ := HandOrientations(f, [3]int{2, 0, 1})

	// with this ordering the gripper's z axis carries the approach column
	vectorAlmostEqual(t, rotateByQuat(qA, r3.Vector{Z: 1}), r3.Vector{Z: 1})
	test.That(t, quat.Abs(qA), test.ShouldAlmostEqual, 1, 1e-9)
}

func TestPregraspPose(t *testing.T) {
	f := NewFrame(testCandidate()).Rotate(0)
	q := quat.Number{Real: 1}
	pose := PregraspPose(f, q, 0.1, "base")

	// rotated approach is (0,0,-1); pulling back 0.1 raises the pose
	vectorAlmostEqual(t, pose.Point, r3.Vector{X: 0.5, Z: 0.6})
	test.That(t, pose.Orientation, test.ShouldResemble, q)
	test.That(t, pose.Frame, test.ShouldEqual, "base")
}

func TestRotateMatchesAngleSign(t *testing.T) {
	f := NewFrame(testCandidate())
	plus := f.Rotate(15)
	minus := f.Rotate(-15)
	test.That(t, plus.Approach, test.ShouldNotResemble, minus.Approach)

	// both stay unit length and 15 degrees from the unrotated direction
	base := f.Rotate(0)
	cos15 := math.Cos(15 * math.Pi / 180)
	test.That(t, plus.Approach.Dot(base.Approach), test.ShouldAlmostEqual, cos15, 1e-9)
	test.That(t, minus.Approach.Dot(base.Approach), test.ShouldAlmostEqual, cos15, 1e-9)
}
