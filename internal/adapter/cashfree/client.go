package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/quickedu/checkout/internal/config"
	"github.com/quickedu/checkout/internal/domain/model"
)

const apiVersion = "2023-08-01"

const (
	sandboxBaseURL    = "https://sandbox.cashfree.com/pg"
	productionBaseURL = "https://api.cashfree.com/pg"
)

// Gateway order statuses. StatusPaid is the only success sentinel; StatusActive
// means the order is still open for payment.
const (
	StatusActive = "ACTIVE"
	StatusPaid   = "PAID"
)

// ErrGatewayUnavailable indicates the gateway could not be reached at all.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// GatewayError carries a non-success upstream response verbatim so the relay
// can forward it unchanged.
type GatewayError struct {
	StatusCode int
	Body       []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway rejected request: status %d", e.StatusCode)
}

// BaseURLForEnv maps the configured gateway environment to the upstream base URL.
func BaseURLForEnv(env string) string {
	if env == config.EnvProduction {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// Client exposes order creation and status lookup against the payment gateway.
type Client interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.OrderSession, error)
	FetchOrder(ctx context.Context, orderID string) (*OrderState, error)
	RelayCreateOrder(ctx context.Context, payload []byte) (int, []byte, error)
	RelayFetchOrder(ctx context.Context, orderID string) (int, []byte, error)
}

// OrderState is the gateway's view of an order, as returned by status lookup.
type OrderState struct {
	GatewayOrderID string
	OrderID        string
	OrderStatus    string
	Raw            []byte
}

// HTTPClient implements Client via the gateway HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	appID      string
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

type customerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type orderMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
	NotifyURL string `json:"notify_url,omitempty"`
}

type orderPayload struct {
	OrderAmount     float64         `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	OrderID         string          `json:"order_id"`
	CustomerDetails customerDetails `json:"customer_details"`
	OrderMeta       orderMeta       `json:"order_meta"`
}

type orderResponse struct {
	CFOrderID        json.Number `json:"cf_order_id"`
	OrderID          string      `json:"order_id"`
	PaymentSessionID string      `json:"payment_session_id"`
	OrderStatus      string      `json:"order_status"`
}

// NewHTTPClient creates a gateway client with default timeout.
func NewHTTPClient(baseURL, appID, secretKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL:   parsed,
		appID:     appID,
		secretKey: secretKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateOrder registers an order with the gateway. Single attempt, no retry:
// the caller decides whether to re-invoke with a fresh order ID.
func (c *HTTPClient) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.OrderSession, error) {
	payload := orderPayload{
		OrderAmount:   req.Amount.InexactFloat64(),
		OrderCurrency: req.Currency,
		OrderID:       req.OrderID,
		CustomerDetails: customerDetails{
			CustomerID:    req.CustomerID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
		},
		OrderMeta: orderMeta{
			ReturnURL: req.ReturnURL,
			NotifyURL: req.NotifyURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	status, respBody, err := c.RelayCreateOrder(ctx, body)
	if err != nil {
		return nil, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		c.logger.Error("order creation rejected", slog.Int("status", status), slog.String("order", req.OrderID))
		return nil, &GatewayError{StatusCode: status, Body: respBody}
	}

	var data orderResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	if data.PaymentSessionID == "" {
		return nil, &GatewayError{StatusCode: status, Body: respBody}
	}

	return &model.OrderSession{
		OrderID:        req.OrderID,
		GatewayOrderID: data.CFOrderID.String(),
		SessionToken:   data.PaymentSessionID,
	}, nil
}

// FetchOrder queries the gateway for current order state.
func (c *HTTPClient) FetchOrder(ctx context.Context, orderID string) (*OrderState, error) {
	status, body, err := c.RelayFetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &GatewayError{StatusCode: status, Body: body}
	}

	var data orderResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode order state: %w", err)
	}

	return &OrderState{
		GatewayOrderID: data.CFOrderID.String(),
		OrderID:        data.OrderID,
		OrderStatus:    data.OrderStatus,
		Raw:            body,
	}, nil
}

// RelayCreateOrder posts a payload to the order creation endpoint verbatim and
// returns the upstream status and body unmodified.
func (c *HTTPClient) RelayCreateOrder(ctx context.Context, payload []byte) (int, []byte, error) {
	return c.do(ctx, http.MethodPost, "/orders", payload)
}

// RelayFetchOrder fetches the raw order document for a given order ID.
func (c *HTTPClient) RelayFetchOrder(ctx context.Context, orderID string) (int, []byte, error) {
	return c.do(ctx, http.MethodGet, path.Join("/orders", orderID), nil)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload []byte) (int, []byte, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.appID)
	req.Header.Set("x-client-secret", c.secretKey)
	req.Header.Set("x-api-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway request failed", slog.String("method", method), slog.String("error", err.Error()))
		return 0, nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return resp.StatusCode, body, nil
}
