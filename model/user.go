package model

import (
	"time"
)

// Role represents the platform role of a user
type Role string

const (
	RoleStudent      Role = "STUDENT"
	RoleOrganization Role = "ORGANIZATION"
	RoleDonor        Role = "DONOR"
	RoleAdmin        Role = "ADMIN"
)

// ValidRole reports whether r is a member of the role enumeration
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleOrganization, RoleDonor, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered user. The ID is supplied by the external
// identity provider at registration; the role is immutable after creation.
type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      Role      `gorm:"type:varchar(20);not null" json:"role"`

	// Relationships
	StudentDetails      *StudentDetails      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student_details,omitempty"`
	OrganizationDetails *OrganizationDetails `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"organization_details,omitempty"`
	Scholarships        []Scholarship        `gorm:"foreignKey:OrganizationID" json:"-"`
	Fundraisers         []Fundraiser         `gorm:"foreignKey:OrganizationID" json:"-"`
	Applications        []Application        `gorm:"foreignKey:StudentID" json:"-"`
	Donations           []Donation           `gorm:"foreignKey:DonorID" json:"-"`
	Disbursements       []Disbursement       `gorm:"foreignKey:StudentID" json:"-"`
}
