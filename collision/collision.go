// Package collision tests pre-grasp poses against a point cloud using a
// swept-cylinder approximation of the volume the hand moves through on its
// final approach.
package collision

import (
	"github.com/golang/geo/r3"

	"github.com/viam-labs/grasp-selection/pointcloud"
)

const (
	// cylinderRadius and cylinderLength define the swept volume in meters.
	cylinderRadius = 0.06
	cylinderLength = 0.1
	// planeOffset shifts the supporting plane slightly along the approach
	// direction to discount invalid sensor measurements on object sides.
	planeOffset = 0.005
)

// Free reports whether the swept cylinder whose upper cap sits at position
// and whose axis runs back along approach is free of cloud points, tolerating
// up to maxColliding points inside the volume. A point count exactly equal to
// maxColliding is still free. The scan stops as soon as the tolerance is
// exceeded, so colliding poses are rejected in time bounded by the tolerance
// while free poses cost one full pass over the cloud.
func Free(position, approach r3.Vector, cloud pointcloud.PointCloud, maxColliding int) bool {
	r2 := cylinderRadius * cylinderRadius

	// lower and upper cylinder caps
	c0 := position
	c1 := c0.Sub(approach.Mul(cylinderLength))
	c := c0.Add(c1.Sub(c0).Mul(0.5))

	// supporting plane through the axis midpoint, normal facing the upper cap
	n := approach.Mul(-1)
	s := c.Sub(approach.Mul(planeOffset))

	count := 0
	free := true
	cloud.Iterate(func(p r3.Vector) bool {
		// a point collides when it faces the upper cap of the supporting
		// plane, lies between the two cap planes, and sits within the
		// cylinder radius of the axis
		if n.Dot(p.Sub(s)) < 0 && approach.Dot(p.Sub(c0)) < 0 && approach.Dot(p.Sub(c1)) > 0 {
			radial := p.Sub(c).Sub(approach.Mul(approach.Dot(p.Sub(c))))
			if radial.Norm2() <= r2 {
				count++
				if count > maxColliding {
					free = false
					return false
				}
			}
		}
		return true
	})
	return free
}
