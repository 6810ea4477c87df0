package model

import "testing"

func TestValidApplicationStatus(t *testing.T) {
	valid := []ApplicationStatus{ApplicationPending, ApplicationApproved, ApplicationRejected}
	for _, s := range valid {
		if !ValidApplicationStatus(s) {
			t.Errorf("expected %s to be a valid status", s)
		}
	}

	invalid := []ApplicationStatus{"", "pending", "DENIED", "CANCELLED"}
	for _, s := range invalid {
		if ValidApplicationStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{ApplicationPending, ApplicationApproved, true},
		{ApplicationPending, ApplicationRejected, true},
		{ApplicationPending, ApplicationPending, false},
		{ApplicationApproved, ApplicationRejected, false},
		{ApplicationApproved, ApplicationPending, false},
		{ApplicationRejected, ApplicationApproved, false},
		{ApplicationRejected, ApplicationPending, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
