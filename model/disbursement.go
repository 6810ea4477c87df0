package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DisbursementStatus represents the payout state of a disbursement
type DisbursementStatus string

const (
	DisbursementPending    DisbursementStatus = "PENDING"
	DisbursementProcessing DisbursementStatus = "PROCESSING"
	DisbursementCompleted  DisbursementStatus = "COMPLETED"
	DisbursementFailed     DisbursementStatus = "FAILED"
)

// ValidDisbursementStatus reports whether s is a member of the status enumeration
func ValidDisbursementStatus(s DisbursementStatus) bool {
	switch s {
	case DisbursementPending, DisbursementProcessing, DisbursementCompleted, DisbursementFailed:
		return true
	}
	return false
}

// Disbursement records funds paid out against a scholarship to a student.
// Both referenced records must exist at creation time.
type Disbursement struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ScholarshipID string `gorm:"type:uuid;index;not null" json:"scholarship_id"`
	StudentID     string `gorm:"type:varchar(64);index;not null" json:"student_id"`

	Amount float64            `gorm:"not null" json:"amount"`
	Status DisbursementStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	// Relationships
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID" json:"scholarship,omitempty"`
	Student     User        `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (d *Disbursement) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = DisbursementPending
	}
	return nil
}
