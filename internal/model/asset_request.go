package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is the state of an asset request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// pendingMarker fills PendingKey while a request is pending.
const pendingMarker = "pending"

// AssetRequest is an employee's claim on an asset.
//
// Asset and company fields are a snapshot taken at submission time.
// PendingKey is non-NULL only while the request is pending; together with the
// unique index on (asset_id, requester_email, pending_key) it guarantees at
// most one pending request per asset and requester.
type AssetRequest struct {
	ID             uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	AssetID        uuid.UUID     `json:"assetId" gorm:"type:char(36);not null;uniqueIndex:idx_requests_pending,priority:1"`
	AssetName      string        `json:"assetName" gorm:"size:255"`
	AssetType      string        `json:"assetType" gorm:"size:50"`
	AssetImage     string        `json:"assetImage,omitempty" gorm:"size:1024"`
	RequesterEmail string        `json:"requesterEmail" gorm:"size:255;not null;index;uniqueIndex:idx_requests_pending,priority:2"`
	RequesterName  string        `json:"requesterName" gorm:"size:255"`
	HREmail        string        `json:"hrEmail" gorm:"size:255;not null;index"`
	CompanyName    string        `json:"companyName" gorm:"size:255"`
	Note           string        `json:"note,omitempty" gorm:"type:text"`
	Status         RequestStatus `json:"requestStatus" gorm:"type:varchar(20);not null;default:'pending';index"`
	PendingKey     *string       `json:"-" gorm:"size:10;uniqueIndex:idx_requests_pending,priority:3"`
	RequestDate    time.Time     `json:"requestDate" gorm:"autoCreateTime;index"`
	ProcessedBy    string        `json:"processedBy,omitempty" gorm:"size:255"`
	ProcessedAt    *time.Time    `json:"processedAt,omitempty"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// TableName keeps the collection name used by the original service.
func (AssetRequest) TableName() string {
	return "requests"
}

// BeforeCreate sets UUID and the pending marker before creating the record.
func (r *AssetRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RequestStatusPending
	}
	if r.Status == RequestStatusPending {
		marker := pendingMarker
		r.PendingKey = &marker
	}
	return nil
}

// IsPending reports whether the request still awaits a decision.
func (r *AssetRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
