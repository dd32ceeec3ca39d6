package ik

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
)

const serviceRetryInterval = time.Second

// ReadyChecker reports whether an external collaborator is reachable.
type ReadyChecker interface {
	Ready(ctx context.Context) bool
}

// WaitForService blocks until the service reports ready, polling once per
// second and logging a notice on each retry. It returns ctx.Err() if the
// context ends first; with a background context it waits forever, so callers
// that need to fail fast should bound ctx themselves.
func WaitForService(ctx context.Context, svc ReadyChecker, logger golog.Logger) error {
	return waitForService(ctx, svc, clock.New(), logger)
}

func waitForService(ctx context.Context, svc ReadyChecker, clk clock.Clock, logger golog.Logger) error {
	for !svc.Ready(ctx) {
		logger.Info("waiting for inverse kinematics service ...")
		t := clk.Timer(serviceRetryInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	logger.Info("inverse kinematics service is available")
	return nil
}
