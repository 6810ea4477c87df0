package database

import (
	"github.com/edu-empower/backend/model"
	"gorm.io/gorm"
)

// DeleteUserCascade removes a user and every dependent row in one transaction.
// Deletion runs in dependency order so no foreign-key violation can occur
// mid-cascade: rankings first (they reference applications), then
// disbursements, applications, donations, fundraisers and scholarships the
// user organized, the detail records, and finally the user row itself.
// A failure at any step rolls the whole cascade back.
func DeleteUserCascade(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Rankings referencing the user's applications or owned scholarships
		if err := tx.Where(
			"application_id IN (SELECT id FROM applications WHERE student_id = ?) OR scholarship_id IN (SELECT id FROM scholarships WHERE organization_id = ?)",
			userID, userID,
		).Delete(&model.StudentRanking{}).Error; err != nil {
			return err
		}

		// Disbursements to the user or against scholarships the user organized
		if err := tx.Where(
			"student_id = ? OR scholarship_id IN (SELECT id FROM scholarships WHERE organization_id = ?)",
			userID, userID,
		).Delete(&model.Disbursement{}).Error; err != nil {
			return err
		}

		// Applications by the user or to scholarships the user organized
		if err := tx.Where(
			"student_id = ? OR scholarship_id IN (SELECT id FROM scholarships WHERE organization_id = ?)",
			userID, userID,
		).Delete(&model.Application{}).Error; err != nil {
			return err
		}

		// Donations made by the user or to fundraisers the user organized
		if err := tx.Where(
			"donor_id = ? OR fundraiser_id IN (SELECT id FROM fundraisers WHERE organization_id = ?)",
			userID, userID,
		).Delete(&model.Donation{}).Error; err != nil {
			return err
		}

		// Detach surviving scholarships from fundraisers about to be removed
		if err := tx.Model(&model.Scholarship{}).
			Where("fundraiser_id IN (SELECT id FROM fundraisers WHERE organization_id = ?)", userID).
			Update("fundraiser_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("organization_id = ?", userID).
			Delete(&model.Fundraiser{}).Error; err != nil {
			return err
		}

		if err := tx.Where("organization_id = ?", userID).
			Delete(&model.Scholarship{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).
			Delete(&model.OrganizationDetails{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).
			Delete(&model.StudentDetails{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", userID).Delete(&model.User{}).Error
	})
}
