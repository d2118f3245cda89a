package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Receipt carries template data for a payment confirmation email.
type Receipt struct {
	RecipientName  string
	RecipientEmail string
	OrderID        string
	GatewayOrderID string
	CourseTitles   []string
	Amount         decimal.Decimal
	Currency       string
	PurchasedAt    time.Time
}

// Sender delivers payment receipts. Delivery is advisory: at-most-once,
// failures are logged by the caller, never retried.
type Sender interface {
	SendReceipt(ctx context.Context, receipt Receipt) error
}

// SMTPSender sends receipts through a plain SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
}

// NewSMTPSender constructs an SMTP-backed sender.
func NewSMTPSender(host, port, username, password string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password}
}

// SendReceipt delivers a confirmation email for a completed purchase.
func (s *SMTPSender) SendReceipt(_ context.Context, receipt Receipt) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := buildMessage(s.username, receipt)
	if err := smtp.SendMail(addr, auth, s.username, []string{receipt.RecipientEmail}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func buildMessage(from string, receipt Receipt) []byte {
	subject := fmt.Sprintf("Payment confirmation for order %s", receipt.OrderID)

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", receipt.RecipientName)
	fmt.Fprintf(&body, "Your payment of %s %s was received.\r\n\r\n", receipt.Amount.StringFixed(2), receipt.Currency)
	body.WriteString("Courses:\r\n")
	for _, title := range receipt.CourseTitles {
		fmt.Fprintf(&body, "  - %s\r\n", title)
	}
	fmt.Fprintf(&body, "\r\nOrder ID: %s\r\n", receipt.OrderID)
	if receipt.GatewayOrderID != "" {
		fmt.Fprintf(&body, "Transaction ID: %s\r\n", receipt.GatewayOrderID)
	}
	fmt.Fprintf(&body, "Date: %s\r\n", receipt.PurchasedAt.Format(time.RFC1123))
	body.WriteString("\r\nHappy learning!\r\n")

	msg := "From: " + from + "\r\n" +
		"To: " + receipt.RecipientEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body.String()
	return []byte(msg)
}

// NopSender is used when SMTP is not configured.
type NopSender struct {
	logger *slog.Logger
}

// NewNopSender constructs a sender that drops receipts with a debug log.
func NewNopSender(logger *slog.Logger) *NopSender {
	return &NopSender{logger: logger}
}

// SendReceipt drops the receipt.
func (s *NopSender) SendReceipt(_ context.Context, receipt Receipt) error {
	s.logger.Debug("mail disabled, dropping receipt", slog.String("order", receipt.OrderID))
	return nil
}
