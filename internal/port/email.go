package port

import "context"

// DecisionEmail carries the content of a review outcome notification.
type DecisionEmail struct {
	ToEmail       string
	ToName        string
	ApplicationNo string
	Decision      string
	Message       string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendDecisionEmail(ctx context.Context, msg DecisionEmail) error
	SendSubmissionReceipt(ctx context.Context, toEmail, toName, applicationNo string, amount int64, currency string) error
}
