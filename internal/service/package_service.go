package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"assetverse/internal/cache"
	"assetverse/internal/model"
	"assetverse/internal/repository"
)

const (
	packageCatalogKey = "packages:catalog"
	packageCatalogTTL = 10 * time.Minute
)

// PackageService serves the subscription catalog.
type PackageService interface {
	List(ctx context.Context) ([]model.Package, error)
	// EnsureCatalog seeds the default catalog into an empty store and reports how many were added.
	EnsureCatalog(ctx context.Context) (int, error)
}

type packageService struct {
	repo  repository.PackageRepository
	cache *cache.Client
}

// NewPackageService creates a new package service.
func NewPackageService(repo repository.PackageRepository, cache *cache.Client) PackageService {
	return &packageService{repo: repo, cache: cache}
}

func (s *packageService) List(ctx context.Context) ([]model.Package, error) {
	var cached []model.Package
	if s.cache.GetJSON(ctx, packageCatalogKey, &cached) {
		return cached, nil
	}

	packages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	s.cache.SetJSON(ctx, packageCatalogKey, packages, packageCatalogTTL)
	return packages, nil
}

func (s *packageService) EnsureCatalog(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count packages: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	defaults := model.DefaultPackages()
	if err := s.repo.CreateBatch(ctx, defaults); err != nil {
		return 0, fmt.Errorf("seed packages: %w", err)
	}
	_ = s.cache.Delete(ctx, packageCatalogKey)

	log.WithField("packages", len(defaults)).Info("package catalog seeded")
	return len(defaults), nil
}
