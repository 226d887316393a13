package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/services/labelmap"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/utils/hashutil"

	"github.com/cozy-creator/hf-hub/hub"
	"github.com/gammazero/workerpool"
	"go.uber.org/zap"
)

const maxDownloadWorkers = 2

// Artifact is one file the setup step must produce on disk, plus the check
// that decides whether an existing copy is usable.
type Artifact struct {
	Name   string
	Source *Source
	Dest   string
	Verify func(path string) error
}

// Downloader fetches the setup artifacts (checkpoint and label mapping) into
// the models directory.
type Downloader struct {
	hubClient *hub.Client
	logger    *zap.Logger
}

func NewDownloader(logger *zap.Logger) *Downloader {
	return &Downloader{
		hubClient: hub.DefaultClient(),
		logger:    logger.Named("downloader"),
	}
}

// CheckpointArtifact describes the pretrained weights file for the configured
// model source.
func CheckpointArtifact(cfg *config.Config) (Artifact, error) {
	source, err := ParseSource(cfg.Model.CheckpointSource)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to parse checkpoint source: %w", err)
	}

	return Artifact{
		Name:   "checkpoint",
		Source: source,
		Dest:   filepath.Join(cfg.ModelsDir, path.Base(source.Location)),
		Verify: verifyCheckpoint,
	}, nil
}

// LabelsArtifact describes the index-to-name mapping file.
func LabelsArtifact(cfg *config.Config) (Artifact, error) {
	source, err := ParseSource(cfg.Model.LabelsURL)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to parse labels source: %w", err)
	}

	return Artifact{
		Name:   "labels",
		Source: source,
		Dest:   filepath.Join(cfg.ModelsDir, "index_to_name.json"),
		Verify: verifyLabels,
	}, nil
}

// FetchAll downloads every artifact that is not already present and valid.
// Artifacts download concurrently through a bounded pool; the first error
// wins and is reported, everything else still runs to completion.
func (d *Downloader) FetchAll(ctx context.Context, artifacts []Artifact) error {
	wp := workerpool.New(maxDownloadWorkers)
	errorChan := make(chan error, len(artifacts))

	for _, artifact := range artifacts {
		artifact := artifact
		wp.Submit(func() {
			if err := d.Fetch(ctx, artifact); err != nil {
				errorChan <- fmt.Errorf("failed to fetch %s: %w", artifact.Name, err)
			}
		})
	}

	wp.StopWait()
	close(errorChan)

	for err := range errorChan {
		if err != nil {
			return err
		}
	}

	return nil
}

// Fetch downloads a single artifact to its destination, skipping the work
// when a valid copy already exists.
func (d *Downloader) Fetch(ctx context.Context, artifact Artifact) error {
	if artifact.Verify != nil {
		if err := artifact.Verify(artifact.Dest); err == nil {
			d.logger.Info("Artifact already downloaded",
				zap.String("artifact", artifact.Name),
				zap.String("path", artifact.Dest),
			)
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(artifact.Dest), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	switch artifact.Source.Type {
	case SourceTypeDirect:
		if err := d.downloadDirect(ctx, artifact.Source.Location, artifact.Dest); err != nil {
			return err
		}
	case SourceTypeHuggingface:
		if err := d.downloadHuggingFace(artifact.Source, artifact.Dest); err != nil {
			return err
		}
	case SourceTypeFile:
		if err := copyFile(artifact.Source.Location, artifact.Dest); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported source type: %s", artifact.Source.Type)
	}

	if artifact.Verify != nil {
		if err := artifact.Verify(artifact.Dest); err != nil {
			return fmt.Errorf("downloaded artifact failed verification: %w", err)
		}
	}

	digest, err := hashutil.Blake3HashFile(artifact.Dest)
	if err != nil {
		return fmt.Errorf("failed to hash artifact: %w", err)
	}

	d.logger.Info("Artifact downloaded",
		zap.String("artifact", artifact.Name),
		zap.String("path", artifact.Dest),
		zap.String("blake3", digest),
	)

	return nil
}

func (d *Downloader) downloadHuggingFace(source *Source, destPath string) error {
	repoID, fileName, err := source.SplitRepoFile()
	if err != nil {
		return err
	}

	d.logger.Info("Downloading from HuggingFace",
		zap.String("repo_id", repoID),
		zap.String("file", fileName),
	)

	repo := hub.NewRepo(repoID)
	cached, err := d.hubClient.FileDownload(repo.File(fileName), false, false)
	if err != nil {
		return fmt.Errorf("failed to download from HuggingFace: %w", err)
	}

	return copyFile(cached, destPath)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	return nil
}

func verifyCheckpoint(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checkpoint does not exist: %w", err)
	}

	// ResNet-18 weights are ~45MB; anything tiny is a truncated download or
	// an HTML error page.
	if info.Size() < 1024*1024 {
		return fmt.Errorf("checkpoint too small: %d bytes", info.Size())
	}

	ext := strings.ToLower(filepath.Ext(path))
	validExts := map[string]bool{
		".pt":          true,
		".pth":         true,
		".bin":         true,
		".ckpt":        true,
		".safetensors": true,
	}
	if !validExts[ext] {
		return fmt.Errorf("invalid checkpoint extension: %s", ext)
	}

	return nil
}

func verifyLabels(path string) error {
	if _, err := labelmap.Load(path); err != nil {
		return err
	}

	return nil
}
