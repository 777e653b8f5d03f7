package grains

import (
	"context"
	"strings"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	"github.com/chirag847/kisaaan/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository wires together grain listing persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a grain row together with its image rows.
func (r *Repository) Create(ctx context.Context, grain *models.Grain) (*models.Grain, error) {
	if err := r.db.WithContext(ctx).Create(grain).Error; err != nil {
		return nil, err
	}
	return grain, nil
}

// FindByID loads a grain with its images and farmer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Grain, error) {
	var grain models.Grain
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Farmer").
		First(&grain, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &grain, nil
}

// FindByIDBare loads the grain row without associations.
func (r *Repository) FindByIDBare(ctx context.Context, id uuid.UUID) (*models.Grain, error) {
	var grain models.Grain
	if err := r.db.WithContext(ctx).First(&grain, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &grain, nil
}

// Update applies column updates to the grain row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Grain{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes the grain; image rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("grain_id = ?", id).Delete(&models.GrainImage{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Grain{}).Error
}

// ListImagePaths returns the stored image paths for a grain.
func (r *Repository) ListImagePaths(ctx context.Context, grainID uuid.UUID) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&models.GrainImage{}).
		Where("grain_id = ?", grainID).
		Order("position ASC").
		Pluck("path", &paths).
		Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// List returns a page of public listings matching the filters. Only
// available listings with stock left are surfaced.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Grain, int64, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Grain{}).
		Where("status = ?", enums.GrainStatusAvailable).
		Where("available_quantity > 0")

	if filters.GrainType != nil {
		qb = qb.Where("grain_type = ?", *filters.GrainType)
	}
	if filters.Quality != nil {
		qb = qb.Where("quality = ?", *filters.Quality)
	}
	if filters.MinPrice != nil {
		qb = qb.Where("price_per_quintal >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		qb = qb.Where("price_per_quintal <= ?", *filters.MaxPrice)
	}
	if filters.OrganicOnly {
		qb = qb.Where("organic = ?", true)
	}
	if search := strings.TrimSpace(filters.Location); search != "" {
		qb = qb.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Grain
	err := qb.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Farmer").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByFarmer returns all listings owned by a farmer, newest first.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Grain, error) {
	var rows []models.Grain
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// DecrementAvailable subtracts qty from available_quantity, guarded so the
// column never goes negative. Returns false when there was not enough stock.
func (r *Repository) DecrementAvailable(ctx context.Context, grainID uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Grain{}).
		Where("id = ? AND available_quantity >= ?", grainID, qty).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RestoreAvailable adds qty back to available_quantity, capped at the
// listing's total quantity.
func (r *Repository) RestoreAvailable(ctx context.Context, grainID uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Grain{}).
		Where("id = ?", grainID).
		UpdateColumn("available_quantity", gorm.Expr(
			"CASE WHEN available_quantity + ? > quantity THEN quantity ELSE available_quantity + ? END",
			qty, qty,
		)).Error
}
