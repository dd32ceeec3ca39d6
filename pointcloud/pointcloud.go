// Package pointcloud defines the minimal point cloud consumed by the
// collision checker: a container of 3-D points that can be scanned with
// early exit.
package pointcloud

import (
	"github.com/golang/geo/r3"
)

// PointCloud is an ordered container of 3-D points in the planning frame.
// Implementations are not safe for concurrent mutation during iteration.
type PointCloud interface {
	// Size returns the number of points in the cloud.
	Size() int

	// Add appends a point to the cloud.
	Add(p r3.Vector)

	// Iterate calls fn for every point in the cloud, in insertion order,
	// until fn returns false.
	Iterate(fn func(p r3.Vector) bool)
}

// basicPointCloud is a slice-backed PointCloud.
type basicPointCloud struct {
	points []r3.Vector
}

// New returns an empty PointCloud.
func New() PointCloud {
	return NewWithPrealloc(0)
}

// NewWithPrealloc returns an empty PointCloud with capacity for size points.
func NewWithPrealloc(size int) PointCloud {
	return &basicPointCloud{points: make([]r3.Vector, 0, size)}
}

func (cloud *basicPointCloud) Size() int {
	return len(cloud.points)
}

func (cloud *basicPointCloud) Add(p r3.Vector) {
	cloud.points = append(cloud.points, p)
}

func (cloud *basicPointCloud) Iterate(fn func(p r3.Vector) bool) {
	for _, p := range cloud.points {
		if !fn(p) {
			return
		}
	}
}
