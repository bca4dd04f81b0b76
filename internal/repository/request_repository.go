package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"assetverse/internal/model"
)

// RequestRepository defines asset request persistence operations.
type RequestRepository interface {
	Create(ctx context.Context, request *model.AssetRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error)
	FindPending(ctx context.Context, assetID uuid.UUID, requesterEmail string) (*model.AssetRequest, error)
	// Transition moves a request from one status to another and reports false when it was not in `from`.
	Transition(ctx context.Context, id uuid.UUID, from, to model.RequestStatus, processedBy string, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByHR(ctx context.Context, hrEmail string) ([]model.AssetRequest, error)
	ListByRequester(ctx context.Context, requesterEmail string) ([]model.AssetRequest, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// Create inserts a pending request. A concurrent duplicate fails with gorm.ErrDuplicatedKey.
func (r *requestRepository) Create(ctx context.Context, request *model.AssetRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// FindByID finds a request by ID.
func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error) {
	var request model.AssetRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindByIDForUpdate finds a request by ID with row-level lock for update.
func (r *requestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error) {
	var request model.AssetRequest
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPending finds the pending request of a requester for an asset.
func (r *requestRepository) FindPending(ctx context.Context, assetID uuid.UUID, requesterEmail string) (*model.AssetRequest, error) {
	var request model.AssetRequest
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND requester_email = ? AND status = ?", assetID, requesterEmail, model.RequestStatusPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Transition clears the pending marker when leaving the pending state.
func (r *requestRepository) Transition(ctx context.Context, id uuid.UUID, from, to model.RequestStatus, processedBy string, at time.Time) (bool, error) {
	fields := map[string]interface{}{
		"status":       to,
		"processed_by": processedBy,
		"processed_at": at,
	}
	if to != model.RequestStatusPending {
		fields["pending_key"] = nil
	}
	res := r.db.WithContext(ctx).Model(&model.AssetRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Delete removes a request permanently.
func (r *requestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AssetRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByHR lists requests addressed to an HR, newest first.
func (r *requestRepository) ListByHR(ctx context.Context, hrEmail string) ([]model.AssetRequest, error) {
	var requests []model.AssetRequest
	if err := r.db.WithContext(ctx).Where("hr_email = ?", hrEmail).
		Order("request_date DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListByRequester lists an employee's requests, newest first.
func (r *requestRepository) ListByRequester(ctx context.Context, requesterEmail string) ([]model.AssetRequest, error) {
	var requests []model.AssetRequest
	if err := r.db.WithContext(ctx).Where("requester_email = ?", requesterEmail).
		Order("request_date DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
