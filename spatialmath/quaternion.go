package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Normalize returns the unit quaternion of q.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// QuatFromAxisAngle returns the unit quaternion rotating by theta radians
// about the given axis, right-hand rule.
func QuatFromAxisAngle(axis r3.Vector, theta float64) quat.Number {
	axis = axis.Normalize()
	s := math.Sin(theta / 2)
	return quat.Number{
		Real: math.Cos(theta / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}
}

// RotateVectorAboutAxis rotates v by theta radians about the given axis via
// the quaternion sandwich product.
func RotateVectorAboutAxis(v, axis r3.Vector, theta float64) r3.Vector {
	q := QuatFromAxisAngle(axis, theta)
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}
