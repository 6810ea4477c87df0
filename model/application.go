package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus represents the lifecycle state of an application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// ValidApplicationStatus reports whether s is a member of the status enumeration
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// CanTransition reports whether an application may move from one status to
// another. PENDING may move to APPROVED or REJECTED; both are terminal.
func CanTransition(from, to ApplicationStatus) bool {
	if from == to {
		return false
	}
	return from == ApplicationPending &&
		(to == ApplicationApproved || to == ApplicationRejected)
}

// Application links a student to a scholarship. At most one application may
// exist per (student, scholarship) pair.
type Application struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StudentID     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_student_scholarship" json:"student_id"`
	ScholarshipID string `gorm:"type:uuid;not null;uniqueIndex:idx_student_scholarship" json:"scholarship_id"`

	ScholarshipReason string            `gorm:"type:text;not null" json:"scholarship_reason"`
	Status            ApplicationStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	// Relationships
	Student     User        `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID" json:"scholarship,omitempty"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	return nil
}
