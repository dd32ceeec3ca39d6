package ik

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/viam-labs/grasp-selection/spatialmath"
)

// ClosedFormResponse is the analytic IK collaborator's answer. Unlike the
// position service, JointPositions is already restricted to the arm's joints.
type ClosedFormResponse struct {
	Success        bool
	JointPositions []float64
}

// ClosedFormService is the external analytic IK collaborator.
type ClosedFormService interface {
	Ready(ctx context.Context) bool
	Solve(ctx context.Context, pose *spatialmath.Pose) (*ClosedFormResponse, error)
}

type closedFormSolver struct {
	service ClosedFormService
	logger  golog.Logger
}

// NewClosedFormSolver returns a Solver backed by an external analytic IK
// service.
func NewClosedFormSolver(service ClosedFormService, logger golog.Logger) Solver {
	return &closedFormSolver{service: service, logger: logger}
}

func (s *closedFormSolver) Solve(ctx context.Context, pose *spatialmath.Pose) (Solution, error) {
	resp, err := s.service.Solve(ctx, pose)
	if err != nil {
		return Solution{}, errors.Wrap(err, "closed-form IK service")
	}
	if !resp.Success {
		return Solution{}, nil
	}
	return Solution{Success: true, JointPositions: resp.JointPositions}, nil
}
