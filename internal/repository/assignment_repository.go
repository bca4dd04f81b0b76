package repository

import (
	"context"

	"gorm.io/gorm"

	"assetverse/internal/model"
)

// AssignmentRepository defines assigned asset persistence operations.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.AssignedAsset) error
	ListByEmployee(ctx context.Context, employeeEmail string) ([]model.AssignedAsset, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// Create creates a new assignment record.
func (r *assignmentRepository) Create(ctx context.Context, assignment *model.AssignedAsset) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// ListByEmployee lists an employee's assignments, newest first.
func (r *assignmentRepository) ListByEmployee(ctx context.Context, employeeEmail string) ([]model.AssignedAsset, error) {
	var assignments []model.AssignedAsset
	if err := r.db.WithContext(ctx).Where("employee_email = ?", employeeEmail).
		Order("assignment_date DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
