package database

import (
	"fmt"
	"time"

	"github.com/edu-empower/backend/model"
	"gorm.io/gorm"
)

// RunSeeds populates the database with development fixtures. Existing rows
// are left untouched so the seeder is safe to run repeatedly.
func RunSeeds(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	if err := seedOrganizationDetails(db); err != nil {
		return fmt.Errorf("seeding organization details: %w", err)
	}
	if err := seedFundraisers(db); err != nil {
		return fmt.Errorf("seeding fundraisers: %w", err)
	}
	if err := seedScholarships(db); err != nil {
		return fmt.Errorf("seeding scholarships: %w", err)
	}
	return nil
}

func seedUsers(db *gorm.DB) error {
	users := []model.User{
		{ID: "seed_admin", Name: "Platform Admin", Email: "admin@edu-empower.local", Role: model.RoleAdmin},
		{ID: "seed_org_1", Name: "Bright Future Trust", Email: "trust@edu-empower.local", Role: model.RoleOrganization},
		{ID: "seed_student_1", Name: "Asha Verma", Email: "asha@edu-empower.local", Role: model.RoleStudent},
		{ID: "seed_donor_1", Name: "Rohan Mehta", Email: "rohan@edu-empower.local", Role: model.RoleDonor},
	}

	for _, user := range users {
		var existing model.User
		err := db.Where("id = ?", user.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		fmt.Printf("  ✓ Created user %s (%s)\n", user.Name, user.Role)
	}
	return nil
}

func seedOrganizationDetails(db *gorm.DB) error {
	var existing model.OrganizationDetails
	err := db.Where("user_id = ?", "seed_org_1").First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	now := time.Now()
	details := model.OrganizationDetails{
		UserID:             "seed_org_1",
		OrganizationName:   "Bright Future Trust",
		RegistrationNumber: "BFT-2019-0042",
		ContactPerson:      "Meera Iyer",
		ContactEmail:       "contact@brightfuture.local",
		ContactNumber:      "+919812345670",
		Address:            "14 MG Road, Pune, Maharashtra",
		Verified:           true,
		VerifiedAt:         &now,
	}
	if err := db.Create(&details).Error; err != nil {
		return err
	}
	fmt.Println("  ✓ Created organization details for Bright Future Trust")
	return nil
}

func seedFundraisers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Fundraiser{}).
		Where("organization_id = ?", "seed_org_1").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	fundraiser := model.Fundraiser{
		OrganizationID: "seed_org_1",
		Title:          "Laptops for First-Generation Learners",
		Description:    "Raising funds to equip first-generation college students with laptops.",
		GoalAmount:     500000,
		Deadline:       time.Now().AddDate(0, 3, 0),
	}
	if err := db.Create(&fundraiser).Error; err != nil {
		return err
	}
	fmt.Println("  ✓ Created fundraiser: Laptops for First-Generation Learners")
	return nil
}

func seedScholarships(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Scholarship{}).
		Where("organization_id = ?", "seed_org_1").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	scholarships := []model.Scholarship{
		{
			OrganizationID:  "seed_org_1",
			Title:           "Merit Scholarship 2026",
			Description:     "Annual merit scholarship for undergraduate students.",
			TotalAmount:     200000,
			MaxFamilyIncome: 300000,
			ExpiredAt:       time.Now().AddDate(0, 6, 0),
		},
		{
			OrganizationID:  "seed_org_1",
			Title:           "STEM Excellence Grant",
			Description:     "Support for students pursuing science and engineering degrees.",
			TotalAmount:     150000,
			MaxFamilyIncome: 500000,
			ExpiredAt:       time.Now().AddDate(0, 2, 0),
		},
	}

	for _, scholarship := range scholarships {
		if err := db.Create(&scholarship).Error; err != nil {
			return err
		}
		fmt.Printf("  ✓ Created scholarship: %s\n", scholarship.Title)
	}
	return nil
}
