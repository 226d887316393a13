package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Bundle is one packaging run: which checkpoint went in, which .mar came out.
type Bundle struct {
	bun.BaseModel `bun:"table:bundles"`

	ID             uuid.UUID    `bun:",type:uuid,pk"`
	Name           string       `bun:",notnull"`
	Version        string       `bun:",notnull"`
	Handler        string       `bun:",notnull"`
	CheckpointHash string       `bun:",notnull"`
	BundlePath     string       `bun:",notnull"`
	StoreLocation  string       `bun:",nullzero"`
	CreatedAt      bun.NullTime `bun:",nullzero,default:current_timestamp"`
}
