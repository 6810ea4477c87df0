package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation links a donor to a fundraiser with a positive amount
type Donation struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	DonorID      string  `gorm:"type:varchar(64);index;not null" json:"donor_id"`
	FundraiserID string  `gorm:"type:uuid;index;not null" json:"fundraiser_id"`
	Amount       float64 `gorm:"not null" json:"amount"`

	// Relationships
	Donor      User       `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Fundraiser Fundraiser `gorm:"foreignKey:FundraiserID" json:"fundraiser,omitempty"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
