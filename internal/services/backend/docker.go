package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"

	"go.uber.org/zap"
)

const dockerBinary = "docker"

// DockerRuntime runs the serving backend inside a docker container,
// publishing the inference and management ports.
type DockerRuntime struct {
	cfg    *config.BackendConfig
	runner Runner
	logger *zap.Logger
}

func NewDockerRuntime(cfg *config.BackendConfig, logger *zap.Logger) *DockerRuntime {
	return &DockerRuntime{
		cfg:    cfg,
		runner: execRunner{},
		logger: logger.Named("backend"),
	}
}

// NewDockerRuntimeWithRunner injects a custom runner. Used by tests.
func NewDockerRuntimeWithRunner(cfg *config.BackendConfig, runner Runner, logger *zap.Logger) *DockerRuntime {
	return &DockerRuntime{cfg: cfg, runner: runner, logger: logger.Named("backend")}
}

func (d *DockerRuntime) Start(ctx context.Context, opts StartOptions) error {
	status, err := d.Status(ctx)
	if err == nil && status == StatusRunning {
		return fmt.Errorf("container %s is already running; stop it first", d.cfg.ContainerName)
	}

	args := []string{
		"run", "-d", "--rm",
		"--name", d.cfg.ContainerName,
		"-p", fmt.Sprintf("%d:8080", d.cfg.InferencePort),
		"-p", fmt.Sprintf("%d:8081", d.cfg.ManagementPort),
		"-v", fmt.Sprintf("%s:/home/model-server/model-store", opts.StoreDir),
		d.cfg.Image,
		"torchserve", "--start",
		"--model-store", "/home/model-server/model-store",
		"--models", fmt.Sprintf("%s=%s", opts.ModelName, opts.BundleFile),
		"--disable-token-auth",
	}

	d.logger.Info("Starting serving container",
		zap.String("container", d.cfg.ContainerName),
		zap.String("image", d.cfg.Image),
		zap.Int("inference_port", d.cfg.InferencePort),
		zap.Int("management_port", d.cfg.ManagementPort),
	)

	output, err := d.runner.Run(ctx, dockerBinary, args...)
	if err != nil {
		// A bound port or stale container surfaces here; the operator stops
		// the old container and retries.
		return fmt.Errorf("failed to start container: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (d *DockerRuntime) Stop(ctx context.Context) error {
	d.logger.Info("Stopping serving container", zap.String("container", d.cfg.ContainerName))

	output, err := d.runner.Run(ctx, dockerBinary, "stop", d.cfg.ContainerName)
	if err != nil {
		return fmt.Errorf("failed to stop container: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (d *DockerRuntime) Status(ctx context.Context) (Status, error) {
	output, err := d.runner.Run(ctx, dockerBinary,
		"ps", "--filter", "name="+d.cfg.ContainerName, "--format", "{{.Names}}")
	if err != nil {
		return StatusStopped, fmt.Errorf("failed to query container runtime: %w", err)
	}

	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if strings.TrimSpace(line) == d.cfg.ContainerName {
			return StatusRunning, nil
		}
	}

	return StatusStopped, nil
}
