package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"assetverse/internal/auth"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/export"
	"assetverse/internal/model"
	"assetverse/internal/repository"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// CreateAssetInput describes a new inventory item.
type CreateAssetInput struct {
	ProductName     string
	ProductType     string
	ProductImage    string
	ProductQuantity int
}

// UpdateAssetInput holds the editable asset fields; nil means unchanged.
type UpdateAssetInput struct {
	ProductName     *string
	ProductType     *string
	ProductImage    *string
	ProductQuantity *int
}

// SearchResult is one page of the public catalog.
type SearchResult struct {
	Assets []model.Asset `json:"assets"`
	Total  int64         `json:"total"`
}

// AssetService manages a company's inventory.
type AssetService interface {
	Create(ctx context.Context, caller auth.Principal, in CreateAssetInput) (*model.Asset, error)
	List(ctx context.Context, caller auth.Principal) ([]model.Asset, error)
	SearchPublic(ctx context.Context, text string, limit, offset int) (*SearchResult, error)
	Update(ctx context.Context, caller auth.Principal, id uuid.UUID, in UpdateAssetInput) (*model.Asset, error)
	Delete(ctx context.Context, caller auth.Principal, id uuid.UUID) error
	Export(ctx context.Context, caller auth.Principal) (*bytes.Buffer, error)
}

type assetService struct {
	assetRepo  repository.AssetRepository
	userRepo   repository.UserRepository
	transactor repository.Transactor
}

// NewAssetService creates a new asset service.
func NewAssetService(assetRepo repository.AssetRepository, userRepo repository.UserRepository, transactor repository.Transactor) AssetService {
	return &assetService{
		assetRepo:  assetRepo,
		userRepo:   userRepo,
		transactor: transactor,
	}
}

// Create adds an asset owned by the caller's company with every unit available.
func (s *assetService) Create(ctx context.Context, caller auth.Principal, in CreateAssetInput) (*model.Asset, error) {
	if !caller.IsHR() {
		return nil, apperrors.ErrForbidden
	}
	if in.ProductQuantity < 0 {
		return nil, apperrors.ErrInvalidQuantity
	}

	hr, err := s.userRepo.FindByEmail(ctx, caller.Email)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrForbidden)
	}
	if !hr.IsHR() {
		return nil, apperrors.ErrForbidden
	}

	asset := &model.Asset{
		ProductName:       strings.TrimSpace(in.ProductName),
		ProductType:       in.ProductType,
		ProductImage:      in.ProductImage,
		ProductQuantity:   in.ProductQuantity,
		AvailableQuantity: in.ProductQuantity,
		HREmail:           hr.Email,
		CompanyName:       hr.CompanyName,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	log.WithFields(log.Fields{"asset": asset.ID, "hr": hr.Email}).Info("asset created")
	return asset, nil
}

// List shows HR their own inventory and employees every asset.
func (s *assetService) List(ctx context.Context, caller auth.Principal) ([]model.Asset, error) {
	if caller.IsHR() {
		return s.assetRepo.ListByHR(ctx, caller.Email)
	}
	return s.assetRepo.ListAll(ctx)
}

func (s *assetService) SearchPublic(ctx context.Context, text string, limit, offset int) (*SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	assets, total, err := s.assetRepo.Search(ctx, strings.TrimSpace(text), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search assets: %w", err)
	}
	return &SearchResult{Assets: assets, Total: total}, nil
}

// Update edits an asset. A quantity change moves the available count by the same delta.
func (s *assetService) Update(ctx context.Context, caller auth.Principal, id uuid.UUID, in UpdateAssetInput) (*model.Asset, error) {
	if !caller.IsHR() {
		return nil, apperrors.ErrForbidden
	}

	var updated *model.Asset
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		asset, err := repos.Assets.FindByIDForUpdate(ctx, id)
		if err != nil {
			return orNotFound(err, apperrors.ErrAssetNotFound)
		}
		if !caller.Can(auth.IsEmail(asset.HREmail)) {
			return apperrors.ErrForbidden
		}

		if in.ProductName != nil {
			asset.ProductName = strings.TrimSpace(*in.ProductName)
		}
		if in.ProductType != nil {
			asset.ProductType = *in.ProductType
		}
		if in.ProductImage != nil {
			asset.ProductImage = *in.ProductImage
		}
		if in.ProductQuantity != nil {
			if err := applyQuantity(asset, *in.ProductQuantity); err != nil {
				return err
			}
		}

		if err := repos.Assets.Update(ctx, asset); err != nil {
			return fmt.Errorf("update asset: %w", err)
		}
		updated = asset
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyQuantity keeps the number of units handed out constant.
func applyQuantity(asset *model.Asset, quantity int) error {
	if quantity < 0 {
		return apperrors.ErrInvalidQuantity
	}
	available := asset.AvailableQuantity + (quantity - asset.ProductQuantity)
	if available < 0 {
		return apperrors.ErrInvalidQuantity
	}
	asset.ProductQuantity = quantity
	asset.AvailableQuantity = available
	return nil
}

func (s *assetService) Delete(ctx context.Context, caller auth.Principal, id uuid.UUID) error {
	if !caller.IsHR() {
		return apperrors.ErrForbidden
	}

	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return orNotFound(err, apperrors.ErrAssetNotFound)
	}
	if !caller.Can(auth.IsEmail(asset.HREmail)) {
		return apperrors.ErrForbidden
	}

	if err := s.assetRepo.Delete(ctx, id); err != nil {
		return orNotFound(err, apperrors.ErrAssetNotFound)
	}
	log.WithFields(log.Fields{"asset": id, "hr": caller.Email}).Info("asset deleted")
	return nil
}

// Export renders the caller's inventory as a spreadsheet.
func (s *assetService) Export(ctx context.Context, caller auth.Principal) (*bytes.Buffer, error) {
	if !caller.IsHR() {
		return nil, apperrors.ErrForbidden
	}
	assets, err := s.assetRepo.ListByHR(ctx, caller.Email)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return export.AssetsXLSX(assets)
}
