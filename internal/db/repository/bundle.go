package repository

import (
	"context"
	"time"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/db/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type IBundleRepository interface {
	Create(ctx context.Context, bundle *models.Bundle) (*models.Bundle, error)
	List(ctx context.Context) ([]models.Bundle, error)
	LatestByName(ctx context.Context, name string) (*models.Bundle, error)
}

type BundleRepository struct {
	db *bun.DB
}

func NewBundleRepository(db *bun.DB) *BundleRepository {
	return &BundleRepository{db: db}
}

func (r *BundleRepository) Create(ctx context.Context, bundle *models.Bundle) (*models.Bundle, error) {
	if bundle.ID == uuid.Nil {
		bundle.ID = uuid.New()
	}
	if bundle.CreatedAt.IsZero() {
		bundle.CreatedAt = bun.NullTime{Time: time.Now().UTC()}
	}

	if _, err := r.db.NewInsert().Model(bundle).Exec(ctx); err != nil {
		return nil, err
	}

	return bundle, nil
}

func (r *BundleRepository) List(ctx context.Context) ([]models.Bundle, error) {
	var bundles []models.Bundle
	err := r.db.NewSelect().
		Model(&bundles).
		Order("created_at DESC").
		Scan(ctx)
	return bundles, err
}

func (r *BundleRepository) LatestByName(ctx context.Context, name string) (*models.Bundle, error) {
	bundle := &models.Bundle{}
	err := r.db.NewSelect().
		Model(bundle).
		Where("name = ?", name).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return bundle, nil
}
