package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentStatusAssigned marks an asset handed over to an employee.
const AssignmentStatusAssigned = "assigned"

// AssignedAsset is the denormalized record of a completed assignment.
type AssignedAsset struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	AssetID        uuid.UUID `json:"assetId" gorm:"type:char(36);not null;index"`
	RequestID      uuid.UUID `json:"requestId" gorm:"type:char(36);not null;uniqueIndex"`
	AssetName      string    `json:"assetName" gorm:"size:255"`
	AssetImage     string    `json:"assetImage,omitempty" gorm:"size:1024"`
	AssetType      string    `json:"assetType" gorm:"size:50"`
	EmployeeEmail  string    `json:"employeeEmail" gorm:"size:255;not null;index"`
	EmployeeName   string    `json:"employeeName" gorm:"size:255"`
	HREmail        string    `json:"hrEmail" gorm:"size:255;not null;index"`
	CompanyName    string    `json:"companyName" gorm:"size:255"`
	AssignmentDate time.Time `json:"assignmentDate"`
	Status         string    `json:"status" gorm:"size:20;not null"`
}

// BeforeCreate sets UUID before creating the record.
func (a *AssignedAsset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
