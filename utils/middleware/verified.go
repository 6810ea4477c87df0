package middleware

import (
	"github.com/edu-empower/backend/model"
	"gorm.io/gorm"
)

// Decision is the result of an authorization check, produced once and
// consumed uniformly by handlers instead of re-deriving role conditionals.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a positive decision
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a negative decision with a reason
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CheckVerified decides whether a user is verified for its role: students
// need a verified StudentDetails record, organizations a verified
// OrganizationDetails record. Other roles are never "verified".
func CheckVerified(db *gorm.DB, user *model.User) (Decision, error) {
	switch user.Role {
	case model.RoleStudent:
		var details model.StudentDetails
		err := db.Where("user_id = ?", user.ID).First(&details).Error
		if err == gorm.ErrRecordNotFound {
			return Deny("student profile not submitted"), nil
		}
		if err != nil {
			return Decision{}, err
		}
		if !details.Verified {
			return Deny("student profile not verified"), nil
		}
		return Allow(), nil

	case model.RoleOrganization:
		var details model.OrganizationDetails
		err := db.Where("user_id = ?", user.ID).First(&details).Error
		if err == gorm.ErrRecordNotFound {
			return Deny("organization details not submitted"), nil
		}
		if err != nil {
			return Decision{}, err
		}
		if !details.Verified {
			return Deny("organization not verified"), nil
		}
		return Allow(), nil
	}

	return Deny("role cannot be verified"), nil
}
