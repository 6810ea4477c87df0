package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scholarship is a funded award definition created by a verified organization.
// expiredAt must be strictly in the future at creation and update; once a
// scholarship has expired it can no longer be edited.
type Scholarship struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrganizationID string  `gorm:"type:varchar(64);index;not null" json:"organization_id"`
	FundraiserID   *string `gorm:"type:uuid;index" json:"fundraiser_id,omitempty"`

	Title           string    `gorm:"not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	TotalAmount     float64   `gorm:"not null" json:"total_amount"`
	AllocatedAmount float64   `gorm:"default:0" json:"allocated_amount"`
	MaxFamilyIncome float64   `gorm:"not null" json:"max_family_income"`
	ExpiredAt       time.Time `gorm:"not null" json:"expired_at"`

	// Relationships
	Organization  User           `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Fundraiser    *Fundraiser    `gorm:"foreignKey:FundraiserID;constraint:OnDelete:SET NULL" json:"fundraiser,omitempty"`
	Applications  []Application  `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
	Disbursements []Disbursement `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"disbursements,omitempty"`
}

// Expired reports whether the scholarship has passed its expiry instant
func (s *Scholarship) Expired(now time.Time) bool {
	return !s.ExpiredAt.After(now)
}

func (s *Scholarship) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
