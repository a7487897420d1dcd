package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"patentdesk/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendDecisionEmail(ctx context.Context, msg port.DecisionEmail) error {
	link := fmt.Sprintf("%s/view-feedback/%s", s.frontendURL, msg.ApplicationNo)
	subject := fmt.Sprintf("Patent application %s: %s", msg.ApplicationNo, decisionLabel(msg.Decision))
	htmlBody := buildDecisionHTML(msg, link)
	textBody := fmt.Sprintf("Hi %s,\n\nYour patent application %s has been %s.\n\n%s\n\nDetails: %s\n\nPatent Office",
		msg.ToName, msg.ApplicationNo, decisionLabel(msg.Decision), msg.Message, link)

	return s.send(ctx, msg.ToEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendSubmissionReceipt(ctx context.Context, toEmail, toName, applicationNo string, amount int64, currency string) error {
	subject := fmt.Sprintf("Patent application %s received", applicationNo)
	amountText := fmt.Sprintf("%d.%02d %s", amount/100, amount%100, currency)
	htmlBody := buildReceiptHTML(toName, applicationNo, amountText)
	textBody := fmt.Sprintf("Hi %s,\n\nWe received your patent application %s and a payment of %s. It is now waiting for review.\n\nPatent Office",
		toName, applicationNo, amountText)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func decisionLabel(decision string) string {
	switch decision {
	case "feedback_requested":
		return "returned for changes"
	default:
		return strings.ReplaceAll(decision, "_", " ")
	}
}

func buildDecisionHTML(msg port.DecisionEmail, link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Application %s</h2>
  <p>Hi %s,</p>
  <p>Your patent application has been <strong>%s</strong>.</p>
  <blockquote style="border-left: 3px solid #ddd; padding-left: 12px; color: #555;">%s</blockquote>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View application</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Patent Office - Application Portal</p>
</body>
</html>`, html.EscapeString(msg.ApplicationNo), html.EscapeString(msg.ToName),
		decisionLabel(msg.Decision), html.EscapeString(msg.Message), link)
}

func buildReceiptHTML(name, applicationNo, amount string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Application received</h2>
  <p>Hi %s,</p>
  <p>We received your patent application <strong>%s</strong> and a payment of %s.</p>
  <p>You will be notified by email once a reviewer has made a decision.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Patent Office - Application Portal</p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(applicationNo), amount)
}
