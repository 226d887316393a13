package backend

import (
	"context"
	"os/exec"
)

// Status of the serving container as reported by the container runtime.
type Status string

const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// Runtime controls the lifecycle of the serving backend container. The
// serving daemon itself is an external collaborator; we only start, stop and
// observe it.
type Runtime interface {
	Start(ctx context.Context, opts StartOptions) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (Status, error)
}

// StartOptions carries everything the runtime needs to launch the backend:
// the bundle to serve and the host directory holding it.
type StartOptions struct {
	ModelName  string
	BundleFile string
	StoreDir   string
}

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
