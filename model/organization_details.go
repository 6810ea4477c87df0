package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationDetails holds the registration record an organization submits.
// Verification is admin-only and one-directional: once verified the flag is
// never cleared through the API.
type OrganizationDetails struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"user_id"`

	OrganizationName   string `gorm:"not null" json:"organization_name"`
	RegistrationNumber string `gorm:"not null" json:"registration_number"`
	ContactPerson      string `gorm:"not null" json:"contact_person"`
	ContactEmail       string `gorm:"not null" json:"contact_email"`
	ContactNumber      string `gorm:"type:varchar(15);not null" json:"contact_number"`
	Address            string `gorm:"not null" json:"address"`
	WebsiteURL         string `json:"website_url,omitempty"`
	DocumentURL        string `gorm:"not null" json:"document_url"`

	Verified   bool       `gorm:"default:false" json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (o *OrganizationDetails) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
