package reach

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/viam-labs/grasp-selection/collision"
	"github.com/viam-labs/grasp-selection/grasp"
	"github.com/viam-labs/grasp-selection/ik"
	"github.com/viam-labs/grasp-selection/pointcloud"
)

// Additional grasps are sampled from this closed interval of rotations about
// the binormal, in degrees.
const (
	minSampleAngle = -15.0
	maxSampleAngle = 15.0
)

// Reacher evaluates grasp candidates for reachability and collisions. It is
// not safe for concurrent use; one filtering pass assumes exclusive access to
// the point cloud snapshot it is given.
type Reacher struct {
	params *Params
	solver ik.Solver
	logger golog.Logger
}

// NewReacher returns a Reacher using the given solver. The params are
// validated once here and treated as immutable afterwards.
func NewReacher(params *Params, solver ik.Solver, logger golog.Logger) (*Reacher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Reacher{params: params, solver: solver, logger: logger}, nil
}

// SelectFeasibleGrasps returns every (candidate, angle, orientation)
// combination that lies inside the workspace, fits the hand's aperture
// limits, has an IK solution, and is collision-free against the cloud.
// Output order is deterministic: candidate order, then increasing sampled
// angle, then nominal orientation before its antipode. Rejections are
// ordinary outcomes of the search and never abort the batch; the error
// return is reserved for solver collaborator faults.
func (r *Reacher) SelectFeasibleGrasps(
	ctx context.Context,
	candidates []grasp.Candidate,
	cloud pointcloud.PointCloud,
) ([]grasp.Scored, error) {
	var selected []grasp.Scored

	for i := range candidates {
		c := &candidates[i]
		r.vlogf("checking if grasp %d, position (%1.2f, %1.2f, %1.2f), can be reached",
			i, c.Center.X, c.Center.Y, c.Center.Z)
		if !r.inWorkspace(c.SurfaceCenter) {
			r.vlogf("grasp %d lies outside the workspace", i)
			continue
		}
		if c.Width < r.params.MinAperture || c.Width > r.params.MaxAperture {
			r.vlogf("grasp %d is too small/large for the hand (min, max): %.4f (%.4f, %.4f)",
				i, c.Width, r.params.MinAperture, r.params.MaxAperture)
			continue
		}

		frame := grasp.NewFrame(c)
		for _, theta := range sampleAngles(r.params.NumAdditionalGrasps) {
			rotated := frame.Rotate(theta)
			qA, qB := grasp.HandOrientations(rotated, r.params.AxisOrder)

			// The collision volume depends only on the frame's position and
			// approach direction, which both orientations share, so the
			// check runs at most once per rotated frame.
			collisionChecked := false
			collisionFree := false
			for k, orientation := range []quat.Number{qA, qB} {
				if collisionChecked && !collisionFree {
					// the second orientation cannot do better
					break
				}

				pose := grasp.PregraspPose(rotated, orientation, r.params.HandOffset, r.params.PlanningFrame)

				ikStart := time.Now()
				solution, err := r.solver.Solve(ctx, pose)
				if err != nil {
					return nil, err
				}
				r.vlogf("IK runtime: %.4fs", time.Since(ikStart).Seconds())
				if !solution.Success {
					r.vlogf("IK failed for grasp %d, approach %.1f, orientation %d", i, theta, k)
					continue
				}

				if !collisionChecked {
					collisionChecked = true
					collStart := time.Now()
					collisionFree = collision.Free(pose.Point, rotated.Approach, cloud, r.params.MaxCollidingPoints)
					r.vlogf("collision checker runtime: %.4fs", time.Since(collStart).Seconds())
				}
				if !collisionFree {
					r.vlogf("grasp %d, approach %.1f, orientation %d collides with the point cloud", i, theta, k)
					continue
				}

				r.vlogf("IK solution: %v", solution.JointPositions)
				selected = append(selected, grasp.Scored{
					CandidateIndex: i,
					Pose:           pose,
					Approach:       rotated.Approach,
					Width:          c.Width,
					JointPositions: solution.JointPositions,
				})
			}
		}
	}

	return selected, nil
}

// inWorkspace reports whether the point lies inside the workspace box,
// boundaries included.
func (r *Reacher) inWorkspace(p r3.Vector) bool {
	w := r.params.Workspace
	return p.X >= w[0] && p.X <= w[1] &&
		p.Y >= w[2] && p.Y <= w[3] &&
		p.Z >= w[4] && p.Z <= w[5]
}

// sampleAngles returns the rotation angles to try for each candidate, in
// degrees. With no additional grasps only the unrotated frame is evaluated;
// otherwise numAdditional+1 angles are spaced evenly over the closed sample
// interval.
func sampleAngles(numAdditional int) []float64 {
	if numAdditional <= 0 {
		return []float64{0}
	}
	n := numAdditional + 1
	angles := make([]float64, n)
	step := (maxSampleAngle - minSampleAngle) / float64(n-1)
	for i := range angles {
		angles[i] = minSampleAngle + float64(i)*step
	}
	return angles
}

func (r *Reacher) vlogf(format string, args ...interface{}) {
	if r.params.Verbose {
		r.logger.Infof(format, args...)
	}
}
