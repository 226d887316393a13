package bundlestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
)

// LocalStore keeps bundles in the model store directory the serving container
// mounts.
type LocalStore struct {
	storeDir string
}

func NewLocalStore(cfg *config.Config) (*LocalStore, error) {
	if cfg.StoreDir == "" {
		return nil, fmt.Errorf("store directory is not configured")
	}

	return &LocalStore{storeDir: cfg.StoreDir}, nil
}

func (s *LocalStore) Put(ctx context.Context, bundlePath string) (string, error) {
	if err := os.MkdirAll(s.storeDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create store directory: %w", err)
	}

	dest := filepath.Join(s.storeDir, filepath.Base(bundlePath))
	if dest == bundlePath {
		// Already archived straight into the store.
		return dest, nil
	}

	in, err := os.Open(bundlePath)
	if err != nil {
		return "", fmt.Errorf("failed to open bundle: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create store file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("failed to copy bundle into store: %w", err)
	}

	return dest, nil
}
