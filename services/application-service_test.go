package services

import (
	"testing"

	"collabnest/backend/models"
)

func TestAllowedDecision(t *testing.T) {
	tests := []struct {
		status models.ApplicationStatus
		want   bool
	}{
		{models.ApplicationApproved, true},
		{models.ApplicationRejected, true},
		{models.ApplicationInterviewScheduled, true},
		{models.ApplicationPending, false},
		{models.ApplicationStatus("CLOSED"), false},
		{models.ApplicationStatus(""), false},
	}

	for _, tt := range tests {
		if got := allowedDecision(tt.status); got != tt.want {
			t.Errorf("allowedDecision(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestDecisionMessage(t *testing.T) {
	tests := []struct {
		status models.ApplicationStatus
		want   string
	}{
		{models.ApplicationApproved, `Your application for project "Smart Campus" has been approved!`},
		{models.ApplicationRejected, `Your application for project "Smart Campus" has been rejected.`},
		{models.ApplicationInterviewScheduled, `Your application for project "Smart Campus" has been interview scheduled.`},
	}

	for _, tt := range tests {
		if got := DecisionMessage("Smart Campus", tt.status); got != tt.want {
			t.Errorf("DecisionMessage(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestApplicationStatusTerminal(t *testing.T) {
	if !models.ApplicationApproved.Terminal() {
		t.Error("APPROVED should be terminal")
	}
	if !models.ApplicationRejected.Terminal() {
		t.Error("REJECTED should be terminal")
	}
	if models.ApplicationPending.Terminal() {
		t.Error("PENDING should not be terminal")
	}
	if models.ApplicationInterviewScheduled.Terminal() {
		t.Error("INTERVIEW_SCHEDULED should not be terminal")
	}
}
