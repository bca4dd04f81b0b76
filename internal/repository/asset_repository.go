package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"assetverse/internal/model"
)

// AssetRepository defines asset persistence operations.
type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	Update(ctx context.Context, asset *model.Asset) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	ListAll(ctx context.Context) ([]model.Asset, error)
	ListByHR(ctx context.Context, hrEmail string) ([]model.Asset, error)
	Search(ctx context.Context, text string, limit, offset int) ([]model.Asset, int64, error)
	// DecrementAvailable takes one unit of stock and reports false when none is left.
	DecrementAvailable(ctx context.Context, id uuid.UUID) (bool, error)
}

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new asset repository.
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

// Create creates a new asset.
func (r *assetRepository) Create(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// Update updates an existing asset.
func (r *assetRepository) Update(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// Delete removes an asset permanently.
func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Asset{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds an asset by ID.
func (r *assetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindByIDForUpdate finds an asset by ID with row-level lock for update.
func (r *assetRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListAll lists every asset, newest first.
func (r *assetRepository) ListAll(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := r.db.WithContext(ctx).Order("date_added DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// ListByHR lists the assets owned by an HR's company.
func (r *assetRepository) ListByHR(ctx context.Context, hrEmail string) ([]model.Asset, error) {
	var assets []model.Asset
	if err := r.db.WithContext(ctx).Where("hr_email = ?", hrEmail).
		Order("date_added DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Search does a case-insensitive substring match on product name and returns one page plus the total.
func (r *assetRepository) Search(ctx context.Context, text string, limit, offset int) ([]model.Asset, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Asset{})
	if text != "" {
		query = query.Where("LOWER(product_name) LIKE ?", likePattern(text))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assets []model.Asset
	if err := query.Order("date_added DESC").Limit(limit).Offset(offset).Find(&assets).Error; err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// DecrementAvailable is a single conditional statement, safe under concurrent approvals.
func (r *assetRepository) DecrementAvailable(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ? AND available_quantity > 0", id).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// likePattern lowercases text and escapes LIKE wildcards.
func likePattern(text string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(text))
	return "%" + escaped + "%"
}
