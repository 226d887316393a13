package archiver

import (
	"context"
	"os/exec"
)

// PackJob names the inputs of one packaging run: the checkpoint, the label
// mapping (as extra files), and the handler identifier the serving framework
// dispatches on.
type PackJob struct {
	ModelName      string
	Version        string
	SerializedFile string
	Handler        string
	ExtraFiles     []string
	ExportPath     string
	Force          bool
}

// Packer produces one deployable bundle from a pack job. The concrete
// archiving technology stays behind this interface so the surrounding tooling
// does not depend on it.
type Packer interface {
	Pack(ctx context.Context, job PackJob) (string, error)
}

// Runner executes an external command and returns its combined output.
// Split out so tests can record invocations without a real binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
