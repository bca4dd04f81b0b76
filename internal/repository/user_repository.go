package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"assetverse/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByEmailForUpdate(ctx context.Context, email string) (*model.User, error)
	ListByCompany(ctx context.Context, companyName string) ([]model.User, error)
	ListEmployeesByHR(ctx context.Context, hrEmail string) ([]model.User, error)
	CountEmployeesByHR(ctx context.Context, hrEmail string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateFields writes only the given columns, including zero values.
func (r *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailForUpdate finds a user by email with row-level lock for update.
func (r *userRepository) FindByEmailForUpdate(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByCompany returns every active member of a company, HR included.
func (r *userRepository) ListByCompany(ctx context.Context, companyName string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("company_name = ? AND (status IS NULL OR status <> ?)", companyName, model.MemberStatusRemoved).
		Order("role DESC, name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListEmployeesByHR returns the approved roster of an HR.
func (r *userRepository) ListEmployeesByHR(ctx context.Context, hrEmail string) ([]model.User, error) {
	var users []model.User
	err := r.employeesOf(ctx, hrEmail).Order("joined_at DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountEmployeesByHR(ctx context.Context, hrEmail string) (int64, error) {
	var count int64
	if err := r.employeesOf(ctx, hrEmail).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) employeesOf(ctx context.Context, hrEmail string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ? AND hr_email = ? AND status = ?", model.RoleEmployee, hrEmail, model.MemberStatusApproved)
}
