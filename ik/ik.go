// Package ik solves inverse kinematics for pre-grasp poses, either through
// an external IK collaborator or with an in-process numeric solver.
package ik

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/viam-labs/grasp-selection/spatialmath"
)

// Solution is the outcome of one IK query. JointPositions covers exactly the
// arm's joints and is empty whenever Success is false.
type Solution struct {
	Success        bool
	JointPositions []float64
}

// Solver produces joint configurations that attain a target pose. A pose the
// arm cannot reach is an ordinary Solution with Success false; the error
// return is reserved for collaborator faults.
type Solver interface {
	Solve(ctx context.Context, pose *spatialmath.Pose) (Solution, error)
}

// Backend names a Solver implementation. It is chosen once at construction
// time and never switched per call.
type Backend string

const (
	// BackendJointSpace queries an external numeric IK service that answers
	// with a full-robot joint vector.
	BackendJointSpace Backend = "jointspace"
	// BackendClosedForm queries an external analytic IK service that answers
	// with the arm's joints directly.
	BackendClosedForm Backend = "closedform"
	// BackendNlopt solves in-process against a serial arm model.
	BackendNlopt Backend = "nlopt"
)

// Services bundles the collaborators a Solver may need; only the one the
// chosen backend uses has to be set.
type Services struct {
	Position   PositionService
	ClosedForm ClosedFormService
	Model      *Model
}

// NewSolver constructs the selected backend, blocking until its external
// service reports ready. The wait polls once per second with no upper bound;
// bound or cancel ctx to fail fast instead.
func NewSolver(ctx context.Context, backend Backend, svcs Services, opts Options, logger golog.Logger) (Solver, error) {
	switch backend {
	case BackendJointSpace:
		if svcs.Position == nil {
			return nil, errors.New("jointspace backend needs a position service")
		}
		if err := WaitForService(ctx, svcs.Position, logger); err != nil {
			return nil, err
		}
		return NewJointSpaceSolver(svcs.Position, opts, logger), nil
	case BackendClosedForm:
		if svcs.ClosedForm == nil {
			return nil, errors.New("closedform backend needs a closed-form service")
		}
		if err := WaitForService(ctx, svcs.ClosedForm, logger); err != nil {
			return nil, err
		}
		return NewClosedFormSolver(svcs.ClosedForm, logger), nil
	case BackendNlopt:
		if svcs.Model == nil {
			return nil, errors.New("nlopt backend needs an arm model")
		}
		return NewNloptSolver(svcs.Model, logger), nil
	default:
		return nil, errors.Errorf("unknown backend %q", backend)
	}
}
