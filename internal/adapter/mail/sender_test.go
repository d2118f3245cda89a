package mail

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBuildMessageContainsReceiptData(t *testing.T) {
	receipt := Receipt{
		RecipientName:  "Asha",
		RecipientEmail: "asha@example.com",
		OrderID:        "ORDER_1700000000000_abc123def",
		GatewayOrderID: "987654",
		CourseTitles:   []string{"Go Basics", "Advanced Go"},
		Amount:         decimal.NewFromInt(1498),
		Currency:       "INR",
		PurchasedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	msg := string(buildMessage("noreply@quickedu.example", receipt))

	for _, want := range []string{
		"To: asha@example.com",
		"Subject: Payment confirmation for order ORDER_1700000000000_abc123def",
		"1498.00 INR",
		"Go Basics",
		"Advanced Go",
		"Transaction ID: 987654",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildMessageOmitsEmptyTransactionID(t *testing.T) {
	msg := string(buildMessage("noreply@quickedu.example", Receipt{
		RecipientEmail: "a@b.c",
		OrderID:        "ORDER_1",
		Amount:         decimal.NewFromInt(999),
		Currency:       "INR",
	}))
	if strings.Contains(msg, "Transaction ID") {
		t.Fatal("transaction line should be omitted when gateway order id is empty")
	}
}

func TestNopSenderSwallowsReceipts(t *testing.T) {
	sender := NewNopSender(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if err := sender.SendReceipt(context.Background(), Receipt{OrderID: "ORDER_1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
