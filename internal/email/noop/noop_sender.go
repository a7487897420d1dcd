package noop

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"patentdesk/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op EmailSender that logs notifications instead of sending them.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendDecisionEmail(_ context.Context, msg port.DecisionEmail) error {
	zap.L().Info("[NOOP EMAIL] decision",
		zap.String("to", msg.ToEmail),
		zap.String("application_no", msg.ApplicationNo),
		zap.String("decision", msg.Decision),
		zap.String("link", fmt.Sprintf("%s/view-feedback/%s", s.frontendURL, msg.ApplicationNo)))
	return nil
}

func (s *noopSender) SendSubmissionReceipt(_ context.Context, toEmail, _, applicationNo string, amount int64, currency string) error {
	zap.L().Info("[NOOP EMAIL] submission receipt",
		zap.String("to", toEmail),
		zap.String("application_no", applicationNo),
		zap.Int64("amount", amount),
		zap.String("currency", currency))
	return nil
}
