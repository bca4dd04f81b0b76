package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"assetverse/internal/model"
)

// PackageRepository defines package catalog persistence operations.
type PackageRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, packages []model.Package) error
	List(ctx context.Context) ([]model.Package, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Package, error)
}

type packageRepository struct {
	db *gorm.DB
}

// NewPackageRepository creates a new package repository.
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Package{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *packageRepository) CreateBatch(ctx context.Context, packages []model.Package) error {
	if len(packages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(packages, 100).Error
}

// List returns the catalog ordered by price.
func (r *packageRepository) List(ctx context.Context) ([]model.Package, error) {
	var packages []model.Package
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *packageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Package, error) {
	var pkg model.Package
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}
