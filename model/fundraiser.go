package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fundraiser is a crowdfunding campaign organized by an organization.
// RaisedAmount is an aggregate over donations maintained by the hourly
// cron job; Completed is set by the daily deadline sweep.
type Fundraiser struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrganizationID string `gorm:"type:varchar(64);index;not null" json:"organization_id"`

	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	GoalAmount   float64   `gorm:"not null" json:"goal_amount"`
	RaisedAmount float64   `gorm:"default:0" json:"raised_amount"`
	Deadline     time.Time `gorm:"not null" json:"deadline"`
	Completed    bool      `gorm:"default:false" json:"completed"`

	// Relationships
	Organization User          `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Donations    []Donation    `gorm:"foreignKey:FundraiserID;constraint:OnDelete:CASCADE" json:"donations,omitempty"`
	Scholarships []Scholarship `gorm:"foreignKey:FundraiserID" json:"scholarships,omitempty"`
}

func (f *Fundraiser) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
