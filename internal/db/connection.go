package db

import (
	"fmt"
	"path/filepath"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/db/drivers"
)

// NewConnection opens the bundle registry database. Only sqlite makes sense
// for a single-operator local tool; the DSN defaults to a file in the
// workshop home.
func NewConnection(cfg *config.Config) (drivers.Driver, error) {
	driver := "sqlite"
	dsn := ""
	if cfg.DB != nil {
		if cfg.DB.Driver != "" {
			driver = cfg.DB.Driver
		}
		dsn = cfg.DB.DSN
	}

	if dsn == "" {
		dsn = "file:" + filepath.Join(cfg.WorkshopHome, "bundles.db")
	}

	if driver == "sqlite" {
		return drivers.NewSQLiteDriver(dsn, cfg.Environment == "dev")
	}

	return nil, fmt.Errorf("invalid database driver: %s", driver)
}
