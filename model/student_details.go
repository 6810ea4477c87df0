package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentDetails holds the profile a student submits before applying for
// scholarships. Dates are stored in the canonical YYYY-MM-DD form.
// The four document fields carry object-storage URLs plus the storage keys
// needed to remove the files when the record is deleted.
type StudentDetails struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"user_id"`

	FullName        string `gorm:"not null" json:"full_name"`
	DateOfBirth     string `gorm:"type:varchar(10);not null" json:"date_of_birth"`
	Gender          string `gorm:"type:varchar(10)" json:"gender"`
	Nationality     string `json:"nationality,omitempty"`
	ContactNumber   string `gorm:"type:varchar(15);not null" json:"contact_number"`
	Address         string `gorm:"not null" json:"address"`
	FatherName      string `gorm:"not null" json:"father_name"`
	MotherName      string `gorm:"not null" json:"mother_name"`
	GuardianName    string `json:"guardian_name,omitempty"`
	GuardianContact string `gorm:"type:varchar(15)" json:"guardian_contact,omitempty"`
	AboutMe         string `gorm:"type:text" json:"about_me,omitempty"`

	// Uploaded documents (object storage URLs and keys)
	TenthResult     string `json:"tenth_result,omitempty"`
	TenthKey        string `json:"-"`
	TwelfthResult   string `json:"twelfth_result,omitempty"`
	TwelfthKey      string `json:"-"`
	IncomeCert      string `json:"income_cert,omitempty"`
	IncomeCertKey   string `json:"-"`
	DomicileCert    string `json:"domicile_cert,omitempty"`
	DomicileCertKey string `json:"-"`

	// FamilyIncome is declared by the student; ExtractedIncome is filled in
	// by the income-certificate extraction pipeline for cross-checking.
	FamilyIncome    float64  `gorm:"default:0" json:"family_income"`
	ExtractedIncome *float64 `json:"extracted_income,omitempty"`
	Verified        bool     `gorm:"default:false" json:"verified"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// DocumentKeys returns the storage keys of all uploaded documents
func (s *StudentDetails) DocumentKeys() []string {
	var keys []string
	for _, k := range []string{s.TenthKey, s.TwelfthKey, s.IncomeCertKey, s.DomicileCertKey} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *StudentDetails) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
