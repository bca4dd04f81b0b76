package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the status of a payment.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment is the append-only audit record of a confirmed package purchase.
// TransactionID is the payment provider's session id and is unique.
type Payment struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	UserEmail     string          `json:"userEmail" gorm:"size:255;index"`
	PackageID     uuid.UUID       `json:"packageId" gorm:"type:char(36);not null"`
	PackageName   string          `json:"packageName" gorm:"size:100;not null"`
	EmployeeLimit int             `json:"employeeLimit" gorm:"not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency      string          `json:"currency" gorm:"size:10"`
	TransactionID string          `json:"transactionId" gorm:"size:255;not null;uniqueIndex"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentDate   time.Time       `json:"paymentDate"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
