// Package runnable adapts long running components to the controller
// manager.
package runnable

import (
	"context"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/manager"
)

// RunCall starts a component and blocks until ctx is done.
type RunCall func(ctx context.Context) error

// StopCall stops a component.
type StopCall func() error

// Graceful is a manager Runnable that calls stop once the manager context is
// done, like the sync scheduler disarming its timers.
type Graceful struct {
	run  RunCall
	stop StopCall

	leaderElection bool
	stopped        chan struct{}
	log            logr.Logger
}

var (
	_ manager.Runnable               = &Graceful{}
	_ manager.LeaderElectionRunnable = &Graceful{}
)

// Option is used to configure Graceful.
type Option func(*Graceful)

// WithLeaderElection sets whether the component only runs on the elected
// leader. Defaults to true.
func WithLeaderElection(required bool) Option {
	return func(g *Graceful) {
		g.leaderElection = required
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(g *Graceful) {
		g.log = l
	}
}

// NewGraceful returns a Graceful running run and stopping with stop.
func NewGraceful(run RunCall, stop StopCall, opts ...Option) *Graceful {
	g := &Graceful{
		run:            run,
		stop:           stop,
		leaderElection: true,
		stopped:        make(chan struct{}),
		log:            ctrl.Log.WithName("graceful-runnable"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start implements manager.Runnable.
func (g *Graceful) Start(ctx context.Context) error {
	go func() {
		defer close(g.stopped)
		<-ctx.Done()
		g.log.Info("stopping gracefully")
		if err := g.stop(); err != nil {
			g.log.Error(err, "failed to stop gracefully")
		}
	}()
	return g.run(ctx)
}

// Stopped is closed once stop has returned.
func (g *Graceful) Stopped() <-chan struct{} {
	return g.stopped
}

// NeedLeaderElection implements manager.LeaderElectionRunnable.
func (g *Graceful) NeedLeaderElection() bool {
	return g.leaderElection
}
