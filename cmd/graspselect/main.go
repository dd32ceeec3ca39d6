// Package main runs one grasp reachability filtering pass from files: a
// params JSON, an optional point cloud (.ply or .pcd), and a JSON array of
// grasp candidates.
package main

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/viam-labs/grasp-selection/grasp"
	"github.com/viam-labs/grasp-selection/ik"
	"github.com/viam-labs/grasp-selection/pointcloud"
	"github.com/viam-labs/grasp-selection/reach"
)

var logger = golog.NewDevelopmentLogger("graspselect")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Params     string `flag:"params,required,usage=path to params JSON"`
	Cloud      string `flag:"cloud,usage=path to point cloud (.ply or .pcd); empty means an empty scene"`
	Candidates string `flag:"candidates,required,usage=path to grasp candidates JSON"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	params, err := reach.ReadParams(argsParsed.Params)
	if err != nil {
		return err
	}

	cloud := pointcloud.New()
	if argsParsed.Cloud != "" {
		if cloud, err = pointcloud.NewFromFile(argsParsed.Cloud, logger); err != nil {
			return err
		}
		logger.Infof("loaded %d cloud points from %s", cloud.Size(), argsParsed.Cloud)
	}

	candidates, err := readCandidates(argsParsed.Candidates)
	if err != nil {
		return err
	}

	solver, err := buildSolver(ctx, params, logger)
	if err != nil {
		return err
	}

	reacher, err := reach.NewReacher(params, solver, logger)
	if err != nil {
		return err
	}

	selected, err := reacher.SelectFeasibleGrasps(ctx, candidates, cloud)
	if err != nil {
		return err
	}

	logger.Infof("%d of %d candidates yielded %d feasible grasps",
		countCandidates(selected), len(candidates), len(selected))
	for _, g := range selected {
		logger.Infof("candidate %d: position (%1.3f, %1.3f, %1.3f), joints %v",
			g.CandidateIndex, g.Pose.Point.X, g.Pose.Point.Y, g.Pose.Point.Z, g.JointPositions)
	}
	return nil
}

func readCandidates(path string) (_ []grasp.Candidate, err error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	var candidates []grasp.Candidate
	if err := json.NewDecoder(f).Decode(&candidates); err != nil {
		return nil, errors.Wrapf(err, "cannot parse candidates file %q", path)
	}
	return candidates, nil
}

// buildSolver constructs the configured IK backend. The service-backed
// backends need a live collaborator to talk to, which a file-driven run does
// not have, so only the in-process solver is available here.
func buildSolver(ctx context.Context, params *reach.Params, logger golog.Logger) (ik.Solver, error) {
	switch backend := ik.Backend(params.Backend); backend {
	case ik.BackendNlopt:
		return ik.NewSolver(ctx, backend, ik.Services{Model: defaultArmModel()}, ik.Options{}, logger)
	case ik.BackendJointSpace, ik.BackendClosedForm:
		return nil, errors.Errorf("backend %q needs an external IK service; use the library API to supply one", params.Backend)
	default:
		return nil, errors.Errorf("unknown planning backend %q", params.Backend)
	}
}

// defaultArmModel is a UR5 in standard Denavit-Hartenberg parameters.
func defaultArmModel() *ik.Model {
	limit := 2 * math.Pi
	link := func(a, alpha, d float64) ik.Link {
		return ik.Link{A: a, Alpha: alpha, D: d, Min: -limit, Max: limit}
	}
	return ik.NewModel([]ik.Link{
		link(0, math.Pi/2, 0.089159),
		link(-0.425, 0, 0),
		link(-0.39225, 0, 0),
		link(0, math.Pi/2, 0.10915),
		link(0, -math.Pi/2, 0.09465),
		link(0, 0, 0.0823),
	})
}

func countCandidates(selected []grasp.Scored) int {
	seen := map[int]bool{}
	for _, g := range selected {
		seen[g.CandidateIndex] = true
	}
	return len(seen)
}
