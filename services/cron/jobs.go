package cron

import (
	"fmt"
	"time"

	"github.com/edu-empower/backend/model"
)

// AggregateFundraiserTotals recomputes each fundraiser's raised amount as
// the sum of its donations. Runs hourly; keeps the denormalized column
// honest even if a donation write raced an earlier aggregate.
func (m *CronManager) AggregateFundraiserTotals() {
	jobName := "aggregate_fundraiser_totals"

	result := m.db.Exec(`
		UPDATE fundraisers f
		SET raised_amount = COALESCE(
			(SELECT SUM(d.amount) FROM donations d WHERE d.fundraiser_id = f.id), 0
		)
	`)
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("updated %d fundraisers", result.RowsAffected))
}

// SweepFundraiserDeadlines marks fundraisers whose deadline has passed as
// completed. Scholarship expiry needs no sweep: the active/expired listings
// derive state from expired_at at query time.
func (m *CronManager) SweepFundraiserDeadlines() {
	jobName := "fundraiser_deadline_sweep"

	result := m.db.Model(&model.Fundraiser{}).
		Where("deadline <= ? AND completed = ?", time.Now(), false).
		Update("completed", true)
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("completed %d fundraisers", result.RowsAffected))
}

// CleanupOldJobLogs removes cron job log rows older than 30 days
func (m *CronManager) CleanupOldJobLogs() {
	jobName := "cleanup_old_job_logs"

	cutoff := time.Now().AddDate(0, 0, -30)
	result := m.db.Where("started_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("deleted %d log rows", result.RowsAffected))
}
