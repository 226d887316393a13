package bundlestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
)

// Store publishes a packaged bundle to wherever the serving backend (or a
// teammate) will pick it up from: the local model store directory, or an S3
// bucket when configured.
type Store interface {
	// Put copies the bundle into the store and returns its resolved location.
	Put(ctx context.Context, bundlePath string) (string, error)
}

func NewBundleStore(cfg *config.Config) (Store, error) {
	filesystem := strings.ToLower(cfg.FilesystemType)

	if filesystem == config.FilesystemLocal {
		return NewLocalStore(cfg)
	} else if filesystem == config.FilesystemS3 {
		return NewS3Store(cfg)
	}

	return nil, fmt.Errorf("invalid filesystem type %s", cfg.FilesystemType)
}
