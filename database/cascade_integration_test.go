package database

import (
	"os"
	"testing"
	"time"

	"github.com/edu-empower/backend/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestDeleteUserCascade exercises the full delete cascade against a real
// database. Requires the DB_* environment variables of a running Postgres.
func TestDeleteUserCascade(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	store, err := StartGORM()
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := store.GetDB().(*gorm.DB)

	suffix := uuid.NewString()[:8]
	studentID := "itest_student_" + suffix
	orgID := "itest_org_" + suffix

	student := model.User{ID: studentID, Name: "Cascade Student", Email: "cascade-student-" + suffix + "@test.local", Role: model.RoleStudent}
	org := model.User{ID: orgID, Name: "Cascade Org", Email: "cascade-org-" + suffix + "@test.local", Role: model.RoleOrganization}
	for _, u := range []model.User{student, org} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	defer func() {
		DeleteUserCascade(db, orgID)
		DeleteUserCascade(db, studentID)
	}()

	details := model.StudentDetails{
		UserID:        studentID,
		FullName:      "Cascade Student",
		DateOfBirth:   "2001-04-15",
		Gender:        "Female",
		ContactNumber: "+919812345670",
		Address:       "12 Test Lane",
		FatherName:    "Father",
		MotherName:    "Mother",
	}
	if err := db.Create(&details).Error; err != nil {
		t.Fatalf("failed to create student details: %v", err)
	}

	fundraiser := model.Fundraiser{
		OrganizationID: orgID,
		Title:          "Cascade Fundraiser",
		Description:    "fixture",
		GoalAmount:     1000,
		Deadline:       time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&fundraiser).Error; err != nil {
		t.Fatalf("failed to create fundraiser: %v", err)
	}

	scholarship := model.Scholarship{
		OrganizationID: orgID,
		FundraiserID:   &fundraiser.ID,
		Title:          "Cascade Scholarship",
		Description:    "fixture",
		TotalAmount:    5000,
		ExpiredAt:      time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&scholarship).Error; err != nil {
		t.Fatalf("failed to create scholarship: %v", err)
	}

	application := model.Application{
		StudentID:         studentID,
		ScholarshipID:     scholarship.ID,
		ScholarshipReason: "fixture",
	}
	if err := db.Create(&application).Error; err != nil {
		t.Fatalf("failed to create application: %v", err)
	}

	ranking := model.StudentRanking{
		ApplicationID: application.ID,
		ScholarshipID: scholarship.ID,
		Score:         87.5,
		Rank:          1,
	}
	if err := db.Create(&ranking).Error; err != nil {
		t.Fatalf("failed to create ranking: %v", err)
	}

	disbursement := model.Disbursement{
		ScholarshipID: scholarship.ID,
		StudentID:     studentID,
		Amount:        2500,
	}
	if err := db.Create(&disbursement).Error; err != nil {
		t.Fatalf("failed to create disbursement: %v", err)
	}

	if err := DeleteUserCascade(db, studentID); err != nil {
		t.Fatalf("cascade delete failed: %v", err)
	}

	// Every row owned by or referencing the student must be gone
	var count int64
	db.Model(&model.User{}).Where("id = ?", studentID).Count(&count)
	if count != 0 {
		t.Error("user row survived the cascade")
	}
	db.Model(&model.StudentDetails{}).Where("user_id = ?", studentID).Count(&count)
	if count != 0 {
		t.Error("student details survived the cascade")
	}
	db.Model(&model.Application{}).Where("student_id = ?", studentID).Count(&count)
	if count != 0 {
		t.Error("application survived the cascade")
	}
	db.Model(&model.StudentRanking{}).Where("application_id = ?", application.ID).Count(&count)
	if count != 0 {
		t.Error("ranking survived the cascade")
	}
	db.Model(&model.Disbursement{}).Where("student_id = ?", studentID).Count(&count)
	if count != 0 {
		t.Error("disbursement survived the cascade")
	}

	// The organization's scholarship is untouched by a student deletion
	db.Model(&model.Scholarship{}).Where("id = ?", scholarship.ID).Count(&count)
	if count != 1 {
		t.Error("scholarship should survive deletion of an applicant")
	}

	// Deleting the organization removes the scholarship and fundraiser too
	if err := DeleteUserCascade(db, orgID); err != nil {
		t.Fatalf("organization cascade delete failed: %v", err)
	}
	db.Model(&model.Scholarship{}).Where("id = ?", scholarship.ID).Count(&count)
	if count != 0 {
		t.Error("scholarship survived organization deletion")
	}
	db.Model(&model.Fundraiser{}).Where("id = ?", fundraiser.ID).Count(&count)
	if count != 0 {
		t.Error("fundraiser survived organization deletion")
	}
}
