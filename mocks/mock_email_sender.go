package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"patentdesk/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendDecisionEmail(ctx context.Context, msg port.DecisionEmail) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockEmailSender) SendSubmissionReceipt(ctx context.Context, toEmail, toName, applicationNo string, amount int64, currency string) error {
	args := m.Called(ctx, toEmail, toName, applicationNo, amount, currency)
	return args.Error(0)
}
