package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string
type OrgType string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	OrgHospital OrgType = "hospital"
	OrgClinic   OrgType = "clinic"
	OrgPersonal OrgType = "personal"
)

// Profile is the application-level user record, distinct from the raw
// auth identity. An empty FullName means the user has not completed
// onboarding yet.
type Profile struct {
	ID             string  `gorm:"primaryKey" json:"id"`
	Email          string  `gorm:"uniqueIndex;not null" json:"email"`
	FullName       string  `json:"full_name"`
	OrgType        OrgType `gorm:"type:VARCHAR(20)" json:"org_type"`
	Specialization string  `json:"specialization"`
	Role           Role    `gorm:"type:VARCHAR(10);default:'user'" json:"role"`
	Blocked        bool    `gorm:"default:false" json:"blocked"`
	PasswordHash   string  `json:"-"`

	Cart      *Cart     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// NeedsOnboarding reports whether the shopper still has to complete the
// one-time profile form. Admins are exempt.
func (p *Profile) NeedsOnboarding() bool {
	return p.FullName == "" && p.Role != RoleAdmin
}

func ValidOrgType(t OrgType) bool {
	switch t {
	case OrgHospital, OrgClinic, OrgPersonal:
		return true
	}
	return false
}
