package archiver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type fakeRunner struct {
	calls  [][]string
	onRun  func(name string, args []string) error
	output []byte
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.onRun != nil {
		if err := f.onRun(name, args); err != nil {
			return f.output, err
		}
	}

	return f.output, nil
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("stub"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}

	return path
}

func TestPackBuildsArchiverInvocation(t *testing.T) {
	dir := t.TempDir()
	checkpoint := writeFile(t, dir, "resnet18.pth")
	labels := writeFile(t, dir, "index_to_name.json")
	exportPath := filepath.Join(dir, "model-store")

	runner := &fakeRunner{
		onRun: func(name string, args []string) error {
			// Simulate the archiver dropping the bundle into the export path.
			writeFile(t, exportPathFromArgs(t, args), "resnet.mar")
			return nil
		},
	}

	packer := NewTorchArchiverWithRunner(runner, zap.NewNop())
	bundle, err := packer.Pack(context.Background(), PackJob{
		ModelName:      "resnet",
		Version:        "1.0",
		SerializedFile: checkpoint,
		Handler:        "image_classifier",
		ExtraFiles:     []string{labels},
		ExportPath:     exportPath,
		Force:          true,
	})
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	if bundle != filepath.Join(exportPath, "resnet.mar") {
		t.Fatalf("bundle path = %q", bundle)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("archiver invoked %d times, want 1", len(runner.calls))
	}

	call := strings.Join(runner.calls[0], " ")
	for _, want := range []string{
		"torch-model-archiver",
		"--model-name resnet",
		"--version 1.0",
		"--serialized-file " + checkpoint,
		"--handler image_classifier",
		"--extra-files " + labels,
		"--force",
	} {
		if !strings.Contains(call, want) {
			t.Errorf("invocation missing %q: %s", want, call)
		}
	}
}

func TestPackMissingCheckpoint(t *testing.T) {
	dir := t.TempDir()
	labels := writeFile(t, dir, "index_to_name.json")

	runner := &fakeRunner{}
	packer := NewTorchArchiverWithRunner(runner, zap.NewNop())

	_, err := packer.Pack(context.Background(), PackJob{
		ModelName:      "resnet",
		Version:        "1.0",
		SerializedFile: filepath.Join(dir, "does-not-exist.pth"),
		Handler:        "image_classifier",
		ExtraFiles:     []string{labels},
		ExportPath:     filepath.Join(dir, "model-store"),
	})
	if err == nil {
		t.Fatal("expected error for missing checkpoint")
	}

	// The archiver must never be invoked, so no bundle can exist.
	if len(runner.calls) != 0 {
		t.Fatalf("archiver invoked despite missing checkpoint: %v", runner.calls)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "model-store", "resnet.mar")); statErr == nil {
		t.Fatal("bundle file produced despite failed packaging")
	}
}

func TestPackArchiverFailure(t *testing.T) {
	dir := t.TempDir()
	checkpoint := writeFile(t, dir, "resnet18.pth")

	runner := &fakeRunner{
		output: []byte("usage: torch-model-archiver"),
		onRun: func(name string, args []string) error {
			return os.ErrPermission
		},
	}

	packer := NewTorchArchiverWithRunner(runner, zap.NewNop())
	_, err := packer.Pack(context.Background(), PackJob{
		ModelName:      "resnet",
		Version:        "1.0",
		SerializedFile: checkpoint,
		Handler:        "image_classifier",
		ExportPath:     filepath.Join(dir, "model-store"),
	})
	if err == nil {
		t.Fatal("expected error when archiver exits non-zero")
	}
	if !strings.Contains(err.Error(), "torch-model-archiver") && !strings.Contains(err.Error(), "archiver") {
		t.Fatalf("unhelpful error: %v", err)
	}
}

func exportPathFromArgs(t *testing.T, args []string) string {
	t.Helper()
	for i, arg := range args {
		if arg == "--export-path" && i+1 < len(args) {
			return args[i+1]
		}
	}

	t.Fatal("no --export-path in args")
	return ""
}
