package cashfree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/quickedu/checkout/internal/domain/model"
)

const defaultWidgetURL = "https://sdk.cashfree.com/js/v3/cashfree.js"

// ErrWidgetUnavailable indicates the hosted checkout bootstrap could not be loaded.
var ErrWidgetUnavailable = errors.New("checkout widget unavailable")

// CheckoutOptions is what the UI needs to open the hosted payment widget.
type CheckoutOptions struct {
	PaymentSessionID string `json:"paymentSessionId"`
	ReturnURL        string `json:"returnUrl"`
	Mode             string `json:"mode"`
}

// Launcher prepares hosted checkout sessions. The widget bootstrap is fetched
// lazily and cached after the first successful load; a failed load is retried
// on the next attempt.
type Launcher struct {
	widgetURL  string
	mode       string
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.Mutex
	loaded bool
}

// NewLauncher creates a launcher for the given gateway mode (sandbox|production).
func NewLauncher(widgetURL, mode string, logger *slog.Logger) *Launcher {
	if widgetURL == "" {
		widgetURL = defaultWidgetURL
	}
	return &Launcher{
		widgetURL: widgetURL,
		mode:      mode,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Open resolves checkout options for an order session. The return URL carries
// the order ID so verification can be keyed on it after the round trip.
func (l *Launcher) Open(ctx context.Context, session *model.OrderSession, returnURLBase string) (*CheckoutOptions, error) {
	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return &CheckoutOptions{
		PaymentSessionID: session.SessionToken,
		ReturnURL:        fmt.Sprintf("%s/payment/success?order_id=%s", returnURLBase, session.OrderID),
		Mode:             l.mode,
	}, nil
}

func (l *Launcher) ensureLoaded(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.widgetURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWidgetUnavailable, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.logger.Error("widget bootstrap fetch failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrWidgetUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		l.logger.Error("widget bootstrap fetch rejected", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", ErrWidgetUnavailable, resp.StatusCode)
	}

	l.loaded = true
	l.logger.Info("checkout widget bootstrap loaded", slog.String("mode", l.mode))
	return nil
}
