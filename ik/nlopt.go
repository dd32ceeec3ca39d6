package ik

import (
	"context"
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/go-nlopt/nlopt"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"github.com/viam-labs/grasp-selection/spatialmath"
)

// Orientation error terms are small relative to translation; weight them up
// so the optimizer does not trade orientation for position.
const orientationWeight = 10.0

type nloptSolver struct {
	model       *Model
	logger      golog.Logger
	epsilon     float64
	jump        float64
	maxRestarts int
	randSeed    *rand.Rand
}

// NewNloptSolver returns a Solver that minimizes pose error over a serial
// arm model with SLSQP, restarting from random seeds within the joint limits
// when an attempt stalls.
func NewNloptSolver(model *Model, logger golog.Logger) Solver {
	return &nloptSolver{
		model:   model,
		logger:  logger,
		epsilon: 0.01,
		// joint perturbation used to estimate the gradient
		jump:        1e-8,
		maxRestarts: 30,
		randSeed:    rand.New(rand.NewSource(1)),
	}
}

func (s *nloptSolver) Solve(ctx context.Context, pose *spatialmath.Pose) (Solution, error) {
	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(s.model.Dof()))
	if err != nil {
		return Solution{}, errors.Wrap(err, "nlopt creation")
	}
	defer opt.Destroy()

	lower, upper := s.model.limits()
	goalPoint := pose.Point
	goalOrient := spatialmath.Normalize(pose.Orientation)

	minFunc := func(x, gradient []float64) float64 {
		dist := squaredNorm(s.poseDelta(x, goalPoint, goalOrient))
		if len(gradient) > 0 {
			for i := range gradient {
				xBak := append([]float64{}, x...)
				xBak[i] += s.jump
				dist2 := squaredNorm(s.poseDelta(xBak, goalPoint, goalOrient))
				gradient[i] = (dist2 - dist) / s.jump
			}
		}
		return dist
	}

	floatEpsilon := math.Nextafter(1, 2) - 1
	err = multierr.Combine(
		opt.SetFtolAbs(floatEpsilon),
		opt.SetFtolRel(floatEpsilon),
		opt.SetLowerBounds(lower),
		opt.SetUpperBounds(upper),
		opt.SetMinObjective(minFunc),
		opt.SetStopVal(s.epsilon*s.epsilon),
		opt.SetXtolAbs1(floatEpsilon),
		opt.SetXtolRel(floatEpsilon),
		opt.SetMaxEval(8001),
	)
	if err != nil {
		return Solution{}, errors.Wrap(err, "nlopt configuration")
	}

	seed := make([]float64, s.model.Dof())
	for attempt := 0; attempt < s.maxRestarts; attempt++ {
		select {
		case <-ctx.Done():
			return Solution{}, ctx.Err()
		default:
		}
		joints, residual, nloptErr := opt.Optimize(seed)
		if nloptErr == nil && residual < s.epsilon*s.epsilon {
			return Solution{Success: true, JointPositions: joints}, nil
		}
		// Failed attempts just happen in randomized nonlinear problems;
		// restart from a fresh seed within the joint limits.
		seed = s.randomSeed(lower, upper)
	}
	return Solution{}, nil
}

func (s *nloptSolver) randomSeed(lower, upper []float64) []float64 {
	seed := make([]float64, len(lower))
	for i := range seed {
		seed[i] = lower[i] + s.randSeed.Float64()*(upper[i]-lower[i])
	}
	return seed
}

// poseDelta returns the six-component error between the end effector at the
// given joint angles and the goal: the translation difference and the
// weighted vector part of the orientation difference.
func (s *nloptSolver) poseDelta(joints []float64, goalPoint r3.Vector, goalOrient quat.Number) []float64 {
	ee := s.model.transform(joints)
	t := translation(ee)
	q := quat.Mul(goalOrient, quat.Conj(spatialmath.Normalize(ee.Real)))
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return []float64{
		goalPoint.X - t.X,
		goalPoint.Y - t.Y,
		goalPoint.Z - t.Z,
		orientationWeight * q.Imag,
		orientationWeight * q.Jmag,
		orientationWeight * q.Kmag,
	}
}

func squaredNorm(vec []float64) float64 {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	return norm
}
