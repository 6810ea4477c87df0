package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentRanking scores an application within a scholarship.
// Score is bounded to [0,100]; Rank is a positive integer.
type StudentRanking struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationID string `gorm:"type:uuid;index;not null" json:"application_id"`
	ScholarshipID string `gorm:"type:uuid;index;not null" json:"scholarship_id"`

	Score float64 `gorm:"not null" json:"score"`
	Rank  int     `gorm:"not null" json:"rank"`

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"application,omitempty"`
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"scholarship,omitempty"`
}

func (r *StudentRanking) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
