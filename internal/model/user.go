package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access role carried by a user and its tokens.
type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// MemberStatus tracks an employee's affiliation with a company.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
	MemberStatusRemoved  MemberStatus = "removed"
)

const (
	// DefaultPackageLimit is the employee limit granted to a freshly registered HR.
	DefaultPackageLimit = 5
	// SubscriptionBasic is the subscription state before any paid package.
	SubscriptionBasic = "basic"
	// SubscriptionActive is set once a package payment is confirmed.
	SubscriptionActive = "active"
)

// User is either an HR (company owner) or an employee.
type User struct {
	ID           uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string       `json:"name" gorm:"size:255;not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string       `json:"-" gorm:"size:255"` // Never expose in JSON
	Role         Role         `json:"role" gorm:"type:varchar(20);not null;index"`
	Photo        string       `json:"photo,omitempty" gorm:"size:1024"`
	DateOfBirth  string       `json:"dateOfBirth,omitempty" gorm:"size:20"`
	CompanyName  string       `json:"companyName,omitempty" gorm:"size:255;index"`
	CompanyLogo  string       `json:"companyLogo,omitempty" gorm:"size:1024"`
	HREmail      string       `json:"hrEmail,omitempty" gorm:"size:255;index"`
	Status       MemberStatus `json:"status,omitempty" gorm:"type:varchar(20);index"`
	JoinedAt     *time.Time   `json:"joinedAt,omitempty"`

	// Subscription fields, only meaningful for HR users.
	PackageName  string `json:"packageName,omitempty" gorm:"size:100"`
	PackageLimit int    `json:"packageLimit,omitempty" gorm:"not null;default:0"`
	Subscription string `json:"subscription,omitempty" gorm:"size:20"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsHR reports whether the user administers a company.
func (u *User) IsHR() bool {
	return u.Role == RoleHR
}
