package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ancook/bazaar/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailService defines the interface for sending transactional emails
type EmailService interface {
	SendOrderConfirmation(ctx context.Context, email string, order *models.Order, productTitle string) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendOrderConfirmation emails the buyer a receipt for a completed order
func (s *AWSSESEmailService) SendOrderConfirmation(ctx context.Context, email string, order *models.Order, productTitle string) error {
	subject := fmt.Sprintf("Order confirmation %s", order.Reference)

	textBody := fmt.Sprintf(`Thank you for your order!

Order reference: %s
Item: %s
Total: %.2f

Shipping to:
%s

We will notify the seller and keep you posted on the delivery.

This is an automated message. Please do not reply to this email.
`, order.Reference, productTitle, order.TotalAmount, order.ShippingAddress)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
    <h1>Thank you for your order!</h1>
    <p><strong>Order reference:</strong> %s</p>
    <p><strong>Item:</strong> %s</p>
    <p><strong>Total:</strong> %.2f</p>
    <p><strong>Shipping to:</strong><br>%s</p>
    <p>We will notify the seller and keep you posted on the delivery.</p>
    <p style="color:#666;font-size:12px">This is an automated message. Please do not reply to this email.</p>
</body>
</html>
`, order.Reference, productTitle, order.TotalAmount, order.ShippingAddress)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send order confirmation via SES",
			slog.String("reference", order.Reference),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("order confirmation sent",
		slog.String("reference", order.Reference),
		slog.String("message_id", *result.MessageId))

	return nil
}

// NoopEmailService satisfies EmailService when email delivery is disabled
type NoopEmailService struct {
	logger *slog.Logger
}

// NewNoopEmailService creates an email service that logs instead of sending
func NewNoopEmailService(logger *slog.Logger) *NoopEmailService {
	return &NoopEmailService{logger: logger}
}

func (s *NoopEmailService) SendOrderConfirmation(ctx context.Context, email string, order *models.Order, productTitle string) error {
	s.logger.Info("email delivery disabled, skipping order confirmation",
		slog.String("reference", order.Reference))
	return nil
}
