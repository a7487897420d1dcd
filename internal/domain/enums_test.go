package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"patentdesk/internal/domain"
)

func TestApplicationStatus_Transitions(t *testing.T) {
	tests := []struct {
		from domain.ApplicationStatus
		to   domain.ApplicationStatus
		ok   bool
	}{
		{domain.StatusDraft, domain.StatusSubmitted, true},
		{domain.StatusDraft, domain.StatusApproved, false},
		{domain.StatusSubmitted, domain.StatusApproved, true},
		{domain.StatusSubmitted, domain.StatusFeedbackRequested, true},
		{domain.StatusFeedbackRequested, domain.StatusRejected, true},
		{domain.StatusFeedbackRequested, domain.StatusFeedbackRequested, false},
		{domain.StatusApproved, domain.StatusCancelled, false},
		{domain.StatusRejected, domain.StatusSubmitted, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestApplicationStatus_Terminal(t *testing.T) {
	assert.True(t, domain.StatusApproved.IsTerminal())
	assert.True(t, domain.StatusRejected.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusSubmitted.IsTerminal())
	assert.False(t, domain.ApplicationStatus("archived").IsValid())
}

func TestDocumentCategory_IsValid(t *testing.T) {
	for _, c := range domain.DocumentCategories {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, domain.DocumentCategory("invoice").IsValid())
}
