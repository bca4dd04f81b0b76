package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to the same connection or transaction.
type Repositories struct {
	Users       UserRepository
	Assets      AssetRepository
	Requests    RequestRepository
	Assignments AssignmentRepository
	Packages    PackageRepository
	Payments    PaymentRepository
}

// NewRepositories builds the repository set over db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:       NewUserRepository(db),
		Assets:      NewAssetRepository(db),
		Requests:    NewRequestRepository(db),
		Assignments: NewAssignmentRepository(db),
		Packages:    NewPackageRepository(db),
		Payments:    NewPaymentRepository(db),
	}
}

// Transactor runs multi-repository units of work atomically.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// WithTransaction executes fn within a database transaction; any error rolls back every write.
func (t *gormTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}
