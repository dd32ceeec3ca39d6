package ik

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/viam-labs/grasp-selection/spatialmath"
)

// ErrCodeNoIKSolution is the position service's distinguished "no solution"
// status. Any other code is trusted as success; validating the rest of the
// response is the collaborator's contract.
const ErrCodeNoIKSolution = -31

// Joint-space request defaults applied when Options leaves them zero.
const (
	defaultAttempts = 10
	defaultTimeout  = 100 * time.Millisecond
)

// PositionRequest asks the external numeric IK collaborator for a joint
// configuration reaching Pose with the named kinematic group and link.
type PositionRequest struct {
	Pose      *spatialmath.Pose
	MoveGroup string
	ArmLink   string
	Attempts  int
	Timeout   time.Duration
}

// PositionResponse is the collaborator's answer: a status code and the joint
// position vector of the full robot.
type PositionResponse struct {
	ErrorCode      int
	JointPositions []float64
}

// PositionService is the external numeric IK collaborator.
type PositionService interface {
	Ready(ctx context.Context) bool
	Solve(ctx context.Context, req *PositionRequest) (*PositionResponse, error)
}

// Options configures the joint-space backend's service requests and the
// sub-range of the response vector holding the arm's joints.
type Options struct {
	MoveGroup       string
	ArmLink         string
	Attempts        int
	Timeout         time.Duration
	FirstJointIndex int
	LastJointIndex  int
}

type jointSpaceSolver struct {
	service PositionService
	opts    Options
	logger  golog.Logger
}

// NewJointSpaceSolver returns a Solver backed by an external numeric IK
// service. The service answers with a full-robot joint vector; the solver
// extracts the configured [first, last] sub-range as the arm's solution.
func NewJointSpaceSolver(service PositionService, opts Options, logger golog.Logger) Solver {
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &jointSpaceSolver{service: service, opts: opts, logger: logger}
}

func (s *jointSpaceSolver) Solve(ctx context.Context, pose *spatialmath.Pose) (Solution, error) {
	resp, err := s.service.Solve(ctx, &PositionRequest{
		Pose:      pose,
		MoveGroup: s.opts.MoveGroup,
		ArmLink:   s.opts.ArmLink,
		Attempts:  s.opts.Attempts,
		Timeout:   s.opts.Timeout,
	})
	if err != nil {
		return Solution{}, errors.Wrap(err, "position IK service")
	}
	if resp.ErrorCode == ErrCodeNoIKSolution {
		return Solution{}, nil
	}
	joints := extractJointPositions(resp.JointPositions, s.opts.FirstJointIndex, s.opts.LastJointIndex)
	return Solution{Success: true, JointPositions: joints}, nil
}

// extractJointPositions slices the arm's joints out of a full-robot joint
// vector. The service contract guarantees the vector covers [first, last].
func extractJointPositions(full []float64, first, last int) []float64 {
	numJoints := last - first + 1
	out := make([]float64, numJoints)
	copy(out, full[first:first+numJoints])
	return out
}
