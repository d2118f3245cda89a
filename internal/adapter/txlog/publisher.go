package txlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/quickedu/checkout/internal/domain/model"
)

// Entry is one transaction log record mirrored to the remote log.
type Entry struct {
	OrderID        string          `json:"order_id"`
	GatewayOrderID string          `json:"cf_order_id,omitempty"`
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name,omitempty"`
	UserEmail      string          `json:"user_email,omitempty"`
	Courses        []EntryCourse   `json:"courses"`
	Amount         string          `json:"amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	RecordedAt     time.Time       `json:"recorded_at"`
}

// EntryCourse is one course line inside a log entry.
type EntryCourse struct {
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Price    string `json:"price"`
}

// Mirror records completed transactions in a remote log. Mirroring is
// best-effort: local state stays authoritative when a write fails.
type Mirror interface {
	Record(ctx context.Context, entry Entry) error
}

// messageWriter is the subset of kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMirror publishes transaction entries to a Kafka topic.
type KafkaMirror struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaMirror creates a mirror writing to the given brokers and topic.
func NewKafkaMirror(brokers []string, topic string, logger *slog.Logger) *KafkaMirror {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaMirror{writer: writer, logger: logger}
}

// Record publishes one entry, keyed by user ID.
func (m *KafkaMirror) Record(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(entry.UserID),
		Value: data,
	}
	if err := m.writer.WriteMessages(ctx, msg); err != nil {
		m.logger.Error("transaction mirror write failed",
			slog.String("order", entry.OrderID),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Close releases the underlying writer.
func (m *KafkaMirror) Close() error {
	return m.writer.Close()
}

// EntryFromPurchase converts a purchase record into its log representation.
func EntryFromPurchase(p *model.Purchase, name, email string, status string) Entry {
	courses := make([]EntryCourse, 0, len(p.Items))
	for _, item := range p.Items {
		courses = append(courses, EntryCourse{
			CourseID: item.CourseID,
			Title:    item.Title,
			Price:    item.Price.String(),
		})
	}
	return Entry{
		OrderID:        p.OrderID,
		GatewayOrderID: p.GatewayOrderID,
		UserID:         p.UserID,
		UserName:       name,
		UserEmail:      email,
		Courses:        courses,
		Amount:         p.TotalAmount.String(),
		Currency:       p.Currency,
		Status:         status,
		RecordedAt:     time.Now().UTC(),
	}
}

// NopMirror is used when no brokers are configured.
type NopMirror struct {
	logger *slog.Logger
}

// NewNopMirror constructs a mirror that drops entries with a debug log.
func NewNopMirror(logger *slog.Logger) *NopMirror {
	return &NopMirror{logger: logger}
}

// Record drops the entry.
func (m *NopMirror) Record(_ context.Context, entry Entry) error {
	m.logger.Debug("transaction mirror disabled, dropping entry", slog.String("order", entry.OrderID))
	return nil
}
