// Package spatialmath contains the rotation and pose math used to derive
// hand poses from grasp frames.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 rotation matrix stored in row-major order.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrixFromCols builds a rotation matrix from its three column
// vectors. The columns are assumed to form a right-handed orthonormal set;
// nothing is re-normalized here.
func NewRotationMatrixFromCols(c0, c1, c2 r3.Vector) *RotationMatrix {
	return &RotationMatrix{[9]float64{
		c0.X, c1.X, c2.X,
		c0.Y, c1.Y, c2.Y,
		c0.Z, c1.Z, c2.Z,
	}}
}

// At returns the value at the given row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// Row returns the given row as a vector.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[3*row], Y: rm.mat[3*row+1], Z: rm.mat[3*row+2]}
}

// Col returns the given column as a vector.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[3+col], Z: rm.mat[6+col]}
}

// PermuteCols returns a new matrix with this matrix's column i placed at
// column order[i]. order must be a permutation of {0, 1, 2}.
func (rm *RotationMatrix) PermuteCols(order [3]int) *RotationMatrix {
	out := &RotationMatrix{}
	for i, dst := range order {
		c := rm.Col(i)
		out.mat[dst] = c.X
		out.mat[3+dst] = c.Y
		out.mat[6+dst] = c.Z
	}
	return out
}

// Quaternion returns the quaternion representation of the rotation matrix,
// using Shepperd's method for numerical stability. The result is normalized
// to absorb floating point drift in the matrix.
func (rm *RotationMatrix) Quaternion() quat.Number {
	var q quat.Number
	m := rm.mat
	if tr := m[0] + m[4] + m[8]; tr > 0 {
		s := 0.5 / math.Sqrt(tr+1.0)
		q = quat.Number{
			Real: 0.25 / s,
			Imag: (m[7] - m[5]) * s,
			Jmag: (m[2] - m[6]) * s,
			Kmag: (m[3] - m[1]) * s,
		}
	} else if m[0] > m[4] && m[0] > m[8] {
		s := 2.0 * math.Sqrt(1.0+m[0]-m[4]-m[8])
		q = quat.Number{
			Real: (m[7] - m[5]) / s,
			Imag: 0.25 * s,
			Jmag: (m[1] + m[3]) / s,
			Kmag: (m[2] + m[6]) / s,
		}
	} else if m[4] > m[8] {
		s := 2.0 * math.Sqrt(1.0+m[4]-m[0]-m[8])
		q = quat.Number{
			Real: (m[2] - m[6]) / s,
			Imag: (m[1] + m[3]) / s,
			Jmag: 0.25 * s,
			Kmag: (m[5] + m[7]) / s,
		}
	} else {
		s := 2.0 * math.Sqrt(1.0+m[8]-m[0]-m[4])
		q = quat.Number{
			Real: (m[3] - m[1]) / s,
			Imag: (m[2] + m[6]) / s,
			Jmag: (m[5] + m[7]) / s,
			Kmag: 0.25 * s,
		}
	}
	return Normalize(q)
}
