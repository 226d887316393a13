package archiver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const archiverBinary = "torch-model-archiver"

// TorchArchiver packages a checkpoint plus extra files into a .mar bundle by
// invoking the external torch-model-archiver CLI.
type TorchArchiver struct {
	runner Runner
	logger *zap.Logger
}

func NewTorchArchiver(logger *zap.Logger) *TorchArchiver {
	return &TorchArchiver{
		runner: execRunner{},
		logger: logger.Named("archiver"),
	}
}

// NewTorchArchiverWithRunner injects a custom runner. Used by tests.
func NewTorchArchiverWithRunner(runner Runner, logger *zap.Logger) *TorchArchiver {
	return &TorchArchiver{runner: runner, logger: logger.Named("archiver")}
}

// Pack verifies the input artifacts exist, invokes the archiver, and returns
// the bundle path. A missing input fails before the archiver is ever run, and
// no bundle is produced.
func (a *TorchArchiver) Pack(ctx context.Context, job PackJob) (string, error) {
	if job.ModelName == "" {
		return "", fmt.Errorf("model name is required")
	}

	if err := requireFile(job.SerializedFile); err != nil {
		return "", fmt.Errorf("checkpoint missing: %w", err)
	}

	for _, extra := range job.ExtraFiles {
		if err := requireFile(extra); err != nil {
			return "", fmt.Errorf("extra file missing: %w", err)
		}
	}

	if err := os.MkdirAll(job.ExportPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create export path: %w", err)
	}

	args := buildArgs(job)
	a.logger.Info("Packaging model",
		zap.String("model_name", job.ModelName),
		zap.String("version", job.Version),
		zap.Strings("args", args),
	)

	output, err := a.runner.Run(ctx, archiverBinary, args...)
	if err != nil {
		return "", fmt.Errorf("archiver invocation failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	bundlePath := filepath.Join(job.ExportPath, job.ModelName+".mar")
	if err := requireFile(bundlePath); err != nil {
		return "", fmt.Errorf("archiver reported success but bundle is missing: %w", err)
	}

	a.logger.Info("Bundle created", zap.String("path", bundlePath))
	return bundlePath, nil
}

func buildArgs(job PackJob) []string {
	args := []string{
		"--model-name", job.ModelName,
		"--version", job.Version,
		"--serialized-file", job.SerializedFile,
		"--handler", job.Handler,
	}

	if len(job.ExtraFiles) > 0 {
		args = append(args, "--extra-files", strings.Join(job.ExtraFiles, ","))
	}

	args = append(args, "--export-path", job.ExportPath)

	if job.Force {
		args = append(args, "--force")
	}

	return args
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	return nil
}
