package model

import (
	"testing"
	"time"
)

func TestScholarshipExpired(t *testing.T) {
	now := time.Now()

	active := Scholarship{ExpiredAt: now.Add(24 * time.Hour)}
	if active.Expired(now) {
		t.Error("scholarship expiring tomorrow should not be expired")
	}

	past := Scholarship{ExpiredAt: now.Add(-time.Minute)}
	if !past.Expired(now) {
		t.Error("scholarship past its expiry should be expired")
	}

	// Expiry exactly at the boundary counts as expired
	boundary := Scholarship{ExpiredAt: now}
	if !boundary.Expired(now) {
		t.Error("scholarship expiring exactly now should be expired")
	}
}
