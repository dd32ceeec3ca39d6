// Package grasp contains grasp candidate types and the frame geometry used
// to derive hand poses from them.
package grasp

import (
	"github.com/golang/geo/r3"

	"github.com/viam-labs/grasp-selection/spatialmath"
)

// Candidate is a grasp proposed by an upstream candidate generator, not yet
// validated for reachability. Approach, Axis, and Binormal are mutually
// orthogonal unit vectors.
type Candidate struct {
	Center        r3.Vector `json:"center"`
	SurfaceCenter r3.Vector `json:"surface_center"`
	Approach      r3.Vector `json:"approach"`
	Axis          r3.Vector `json:"axis"`
	Binormal      r3.Vector `json:"binormal"`
	Width         float64   `json:"width"`
}

// Scored is a reachable, collision-free grasp paired with the joint
// configuration that attains it. Score is left at zero here; ranking is a
// downstream concern.
type Scored struct {
	CandidateIndex int
	Pose           *spatialmath.Pose
	Approach       r3.Vector
	Width          float64
	JointPositions []float64
	Score          float64
}
