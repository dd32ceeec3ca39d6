package reach

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestParamsValidate(t *testing.T) {
	good := testParams()
	test.That(t, good.Validate(), test.ShouldBeNil)

	for name, mutate := range map[string]func(*Params){
		"inverted workspace":   func(p *Params) { p.Workspace = [6]float64{1, 0, -1, 1, 0, 1} },
		"inverted aperture":    func(p *Params) { p.MinAperture, p.MaxAperture = 0.2, 0.1 },
		"negative samples":     func(p *Params) { p.NumAdditionalGrasps = -1 },
		"bad axis order":       func(p *Params) { p.AxisOrder = [3]int{0, 1, 1} },
		"axis order range":     func(p *Params) { p.AxisOrder = [3]int{0, 1, 3} },
		"missing frame":        func(p *Params) { p.PlanningFrame = "" },
		"negative offset":      func(p *Params) { p.HandOffset = -0.1 },
		"negative tolerance":   func(p *Params) { p.MaxCollidingPoints = -1 },
		"inverted ik range":    func(p *Params) { p.IKFirstJointIndex, p.IKLastJointIndex = 5, 2 },
		"inverted state range": func(p *Params) { p.JointStateFirstIndex, p.JointStateLastIndex = 3, 1 },
		"unknown backend":      func(p *Params) { p.Backend = "analytic" },
	} {
		t.Run(name, func(t *testing.T) {
			params := testParams()
			mutate(params)
			test.That(t, params.Validate(), test.ShouldNotBeNil)
		})
	}
}

func TestReadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	contents := `{
		"workspace": [0, 1, -1, 1, 0, 1],
		"min_aperture": 0.01,
		"max_aperture": 0.1,
		"num_additional_grasps": 3,
		"axis_order": [2, 0, 1],
		"planning_frame": "base",
		"hand_offset": 0.12,
		"arm_link": "left_hand",
		"move_group": "left_arm",
		"max_colliding_points": 5,
		"ik_first_joint_index": 2,
		"ik_last_joint_index": 8,
		"joint_state_first_index": 2,
		"joint_state_last_index": 8,
		"planning_backend": "jointspace",
		"verbose": true
	}`
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	params, err := ReadParams(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, params.Workspace, test.ShouldResemble, [6]float64{0, 1, -1, 1, 0, 1})
	test.That(t, params.NumAdditionalGrasps, test.ShouldEqual, 3)
	test.That(t, params.AxisOrder, test.ShouldResemble, [3]int{2, 0, 1})
	test.That(t, params.PlanningFrame, test.ShouldEqual, "base")
	test.That(t, params.Backend, test.ShouldEqual, "jointspace")
	test.That(t, params.Verbose, test.ShouldBeTrue)
}

func TestReadParamsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	test.That(t, os.WriteFile(path, []byte(`{"planning_frame": ""}`), 0o600), test.ShouldBeNil)

	_, err := ReadParams(path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid params file")

	_, err = ReadParams(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
