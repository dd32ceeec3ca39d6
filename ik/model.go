package ik

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Link is one revolute joint of a serial arm in standard Denavit-Hartenberg
// form: rotate by the joint angle about the local Z axis, translate D along
// Z, translate A along X, then twist by Alpha about X.
type Link struct {
	A     float64 // link length along the local X axis, meters
	Alpha float64 // link twist about the local X axis, radians
	D     float64 // link offset along the local Z axis, meters
	Min   float64 // joint limits, radians
	Max   float64
}

// Model is the serial arm used by the in-process numeric solver.
type Model struct {
	links []Link
}

// NewModel returns a serial arm made of the given links, base to end
// effector.
func NewModel(links []Link) *Model {
	return &Model{links: links}
}

// Dof returns the arm's number of joints.
func (m *Model) Dof() int {
	return len(m.links)
}

// limits returns the per-joint lower and upper bounds in radians.
func (m *Model) limits() ([]float64, []float64) {
	lower := make([]float64, len(m.links))
	upper := make([]float64, len(m.links))
	for i, link := range m.links {
		lower[i] = link.Min
		upper[i] = link.Max
	}
	return lower, upper
}

// transform returns the end effector transform for the given joint angles as
// a dual quaternion.
func (m *Model) transform(joints []float64) dualquat.Number {
	ee := dualquat.Number{Real: quat.Number{Real: 1}}
	for i, link := range m.links {
		ee = dualquat.Mul(ee, link.transform(joints[i]))
	}
	return ee
}

func (l Link) transform(theta float64) dualquat.Number {
	dq := newDualQuat(rotZ(theta), r3.Vector{})
	dq = dualquat.Mul(dq, newDualQuat(quat.Number{Real: 1}, r3.Vector{Z: l.D}))
	dq = dualquat.Mul(dq, newDualQuat(quat.Number{Real: 1}, r3.Vector{X: l.A}))
	return dualquat.Mul(dq, newDualQuat(rotX(l.Alpha), r3.Vector{}))
}

// newDualQuat builds the rigid transform that rotates by rot and then
// translates by t in the parent frame.
func newDualQuat(rot quat.Number, t r3.Vector) dualquat.Number {
	return dualquat.Number{
		Real: rot,
		Dual: quat.Mul(quat.Number{Imag: t.X / 2, Jmag: t.Y / 2, Kmag: t.Z / 2}, rot),
	}
}

// translation extracts the world-frame translation of a unit dual quaternion.
func translation(dq dualquat.Number) r3.Vector {
	t := quat.Mul(quat.Scale(2, dq.Dual), quat.Conj(dq.Real))
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

func rotZ(theta float64) quat.Number {
	return quat.Number{Real: math.Cos(theta / 2), Kmag: math.Sin(theta / 2)}
}

func rotX(alpha float64) quat.Number {
	return quat.Number{Real: math.Cos(alpha / 2), Imag: math.Sin(alpha / 2)}
}
