package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Package is a subscription tier purchasable by HR.
type Package struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	EmployeeLimit int             `json:"employeeLimit" gorm:"not null"`
	Features      []string        `json:"features" gorm:"serializer:json;type:text"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DefaultPackages is the catalog seeded into an empty store.
func DefaultPackages() []Package {
	return []Package{
		{Name: "Basic", Price: decimal.NewFromInt(5), EmployeeLimit: 5, Features: []string{"5 Employees", "Basic Tracking"}},
		{Name: "Pro", Price: decimal.NewFromInt(10), EmployeeLimit: 10, Features: []string{"10 Employees", "Priority Support"}},
		{Name: "Enterprise", Price: decimal.NewFromInt(15), EmployeeLimit: 15, Features: []string{"15 Employees", "All Access"}},
	}
}
