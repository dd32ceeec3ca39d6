// Package reach filters candidate grasps down to those a robot arm can reach
// without colliding with the sensed scene.
package reach

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/viam-labs/grasp-selection/ik"
)

// Params configures one Reacher. Fields are read once at construction and
// never mutated afterwards.
type Params struct {
	// Workspace is the reachable axis-aligned box in the planning frame:
	// xmin, xmax, ymin, ymax, zmin, zmax.
	Workspace           [6]float64 `json:"workspace"`
	MinAperture         float64    `json:"min_aperture"`
	MaxAperture         float64    `json:"max_aperture"`
	NumAdditionalGrasps int        `json:"num_additional_grasps"`
	// AxisOrder maps the hand's approach/axis/binormal onto the gripper's
	// mounting axes; it must be a permutation of {0, 1, 2}.
	AxisOrder     [3]int  `json:"axis_order"`
	PlanningFrame string  `json:"planning_frame"`
	HandOffset    float64 `json:"hand_offset"`
	ArmLink       string  `json:"arm_link"`
	MoveGroup     string  `json:"move_group"`
	// MaxCollidingPoints is how many cloud points may sit inside the
	// collision cylinder before a pose counts as colliding.
	MaxCollidingPoints int `json:"max_colliding_points"`
	// IKFirstJointIndex and IKLastJointIndex locate the arm's joints inside
	// the joint-space IK service's full-robot response vector.
	IKFirstJointIndex int `json:"ik_first_joint_index"`
	IKLastJointIndex  int `json:"ik_last_joint_index"`
	// JointStateFirstIndex and JointStateLastIndex locate the arm's joints
	// inside the robot's published joint state, for callers seeding from the
	// current configuration.
	JointStateFirstIndex int    `json:"joint_state_first_index"`
	JointStateLastIndex  int    `json:"joint_state_last_index"`
	Backend              string `json:"planning_backend"`
	Verbose              bool   `json:"verbose"`
}

// Validate checks every invariant the filter depends on.
func (p *Params) Validate() error {
	axes := []string{"x", "y", "z"}
	for i, name := range axes {
		if p.Workspace[2*i] > p.Workspace[2*i+1] {
			return errors.Errorf("workspace bounds inverted on the %s axis", name)
		}
	}
	if p.MinAperture > p.MaxAperture {
		return errors.New("min_aperture is greater than max_aperture")
	}
	if p.NumAdditionalGrasps < 0 {
		return errors.New("num_additional_grasps cannot be negative")
	}
	if !isAxisPermutation(p.AxisOrder) {
		return errors.Errorf("axis_order %v is not a permutation of {0, 1, 2}", p.AxisOrder)
	}
	if p.PlanningFrame == "" {
		return errors.New("planning_frame is required")
	}
	if p.HandOffset < 0 {
		return errors.New("hand_offset cannot be negative")
	}
	if p.MaxCollidingPoints < 0 {
		return errors.New("max_colliding_points cannot be negative")
	}
	if p.IKFirstJointIndex < 0 || p.IKLastJointIndex < p.IKFirstJointIndex {
		return errors.New("ik joint index range is inverted")
	}
	if p.JointStateFirstIndex < 0 || p.JointStateLastIndex < p.JointStateFirstIndex {
		return errors.New("joint state index range is inverted")
	}
	switch ik.Backend(p.Backend) {
	case ik.BackendJointSpace, ik.BackendClosedForm, ik.BackendNlopt:
	default:
		return errors.Errorf("unknown planning backend %q", p.Backend)
	}
	return nil
}

func isAxisPermutation(order [3]int) bool {
	var seen [3]bool
	for _, v := range order {
		if v < 0 || v > 2 || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// ReadParams reads and validates filter parameters from a JSON file.
func ReadParams(path string) (_ *Params, err error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	var params Params
	if err := json.NewDecoder(f).Decode(&params); err != nil {
		return nil, errors.Wrapf(err, "cannot parse params file %q", path)
	}
	if err := params.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid params file %q", path)
	}
	return &params, nil
}
