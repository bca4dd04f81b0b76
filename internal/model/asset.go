package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is an inventory item owned by an HR's company.
type Asset struct {
	ID                uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProductName       string    `json:"productName" gorm:"size:255;not null;index"`
	ProductType       string    `json:"productType" gorm:"size:50;not null"`
	ProductImage      string    `json:"productImage,omitempty" gorm:"size:1024"`
	ProductQuantity   int       `json:"productQuantity" gorm:"not null;check:chk_assets_total,product_quantity >= 0"`
	AvailableQuantity int       `json:"availableQuantity" gorm:"not null;check:chk_assets_available,available_quantity >= 0 AND available_quantity <= product_quantity"`
	HREmail           string    `json:"hrEmail" gorm:"size:255;not null;index"`
	CompanyName       string    `json:"companyName" gorm:"size:255;index"`
	DateAdded         time.Time `json:"dateAdded" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
