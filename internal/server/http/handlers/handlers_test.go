package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/app"
	domainErrors "github.com/quickedu/checkout/internal/domain/errors"
	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/server/http/dto"
	"github.com/quickedu/checkout/internal/server/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func withIdentity(c *gin.Context) {
	c.Set(middleware.IdentityContextKey, &model.Identity{
		UserID: "u1",
		Name:   "Asha",
		Email:  "asha@example.com",
	})
}

func TestCurrentIdentity(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentIdentity(c); got != nil {
		t.Fatalf("expected nil when not set, got %+v", got)
	}

	withIdentity(c)
	if got := CurrentIdentity(c); got == nil || got.UserID != "u1" {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestRelayCreateOrderForwardsVerbatim(t *testing.T) {
	upstream := []byte(`{"cf_order_id":20001,"order_id":"ORDER_1","payment_session_id":"s","order_status":"ACTIVE"}`)
	handler := NewRelayHandler(&facadeStub{
		relayCreateOrderFn: func(ctx context.Context, payload []byte) (int, []byte, error) {
			if !bytes.Contains(payload, []byte("order_amount")) {
				t.Fatalf("payload not forwarded: %s", payload)
			}
			return http.StatusOK, upstream, nil
		},
	})

	resp := performRequest(t, http.MethodPost, "/api/create-order", handler.CreateOrder, nil, []byte(`{"order_amount":1498}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Equal(resp.Body.Bytes(), upstream) {
		t.Fatalf("body altered: %s", resp.Body.String())
	}
}

func TestRelayCreateOrderForwardsUpstreamFailures(t *testing.T) {
	handler := NewRelayHandler(&facadeStub{
		relayCreateOrderFn: func(ctx context.Context, payload []byte) (int, []byte, error) {
			return http.StatusUnauthorized, []byte(`{"message":"authentication failed"}`), nil
		},
	})

	resp := performRequest(t, http.MethodPost, "/api/create-order", handler.CreateOrder, nil, []byte(`{}`))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected upstream 401 to pass through, got %d", resp.Code)
	}
	if resp.Body.String() != `{"message":"authentication failed"}` {
		t.Fatalf("upstream body altered: %s", resp.Body.String())
	}
}

func TestRelayCreateOrderGatewayUnreachable(t *testing.T) {
	handler := NewRelayHandler(&facadeStub{
		relayCreateOrderFn: func(ctx context.Context, payload []byte) (int, []byte, error) {
			return 0, nil, cashfree.ErrGatewayUnavailable
		},
	})

	resp := performRequest(t, http.MethodPost, "/api/create-order", handler.CreateOrder, nil, []byte(`{}`))
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestRelayVerifyPayment(t *testing.T) {
	handler := NewRelayHandler(&facadeStub{
		relayFetchOrderFn: func(ctx context.Context, orderID string) (int, []byte, error) {
			if orderID != "ORDER_1" {
				t.Fatalf("unexpected order id %q", orderID)
			}
			return http.StatusOK, []byte(`{"order_status":"PAID"}`), nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/api/verify-payment/:orderId", handler.VerifyPayment, func(c *gin.Context) {
		c.Params = gin.Params{{Key: "orderId", Value: "ORDER_1"}}
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.String() != `{"order_status":"PAID"}` {
		t.Fatalf("body altered: %s", resp.Body.String())
	}
}

func TestRelayHealth(t *testing.T) {
	handler := NewRelayHandler(&facadeStub{})
	resp := performRequest(t, http.MethodGet, "/api/health", handler.Health, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var health dto.HealthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" {
		t.Fatalf("unexpected status %q", health.Status)
	}
}

func TestCartList(t *testing.T) {
	handler := NewCartHandler(&facadeStub{
		cartItemsFn: func(ctx context.Context, userID string) ([]model.CartItem, error) {
			return []model.CartItem{
				{CourseID: "c1", Price: decimal.NewFromInt(999), OriginalPrice: decimal.NewFromInt(1999)},
				{CourseID: "c2", Price: decimal.NewFromInt(499), OriginalPrice: decimal.NewFromInt(999)},
			}, nil
		},
		cartTotalsFn: func(ctx context.Context, userID string) (model.CartTotals, error) {
			return model.CartTotals{
				Total:         decimal.NewFromInt(1498),
				OriginalTotal: decimal.NewFromInt(2998),
				Savings:       decimal.NewFromInt(1500),
			}, nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/api/cart", handler.List, withIdentity, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var cart dto.CartResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cart.Count != 2 || !cart.Total.Equal(decimal.NewFromInt(1498)) {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestCartAdd(t *testing.T) {
	body, _ := json.Marshal(model.CartItem{CourseID: "c1", Title: "Go Basics", Price: decimal.NewFromInt(999)})

	added := NewCartHandler(&facadeStub{
		cartCountFn: func(ctx context.Context, userID string) (int, error) { return 1, nil },
	})
	resp := performRequest(t, http.MethodPost, "/api/cart", added.Add, withIdentity, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for new item, got %d", resp.Code)
	}

	duplicate := NewCartHandler(&facadeStub{
		addToCartFn: func(ctx context.Context, userID string, item model.CartItem) (bool, error) {
			return false, nil
		},
		cartCountFn: func(ctx context.Context, userID string) (int, error) { return 1, nil },
	})
	resp = performRequest(t, http.MethodPost, "/api/cart", duplicate.Add, withIdentity, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", resp.Code)
	}
	var result dto.AddCartItemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Added {
		t.Fatal("duplicate must report added=false")
	}
}

func TestCartAddRejectsInvalidPayload(t *testing.T) {
	handler := NewCartHandler(&facadeStub{})
	resp := performRequest(t, http.MethodPost, "/api/cart", handler.Add, withIdentity, []byte(`{"price":"oops"}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCartRemove(t *testing.T) {
	removed := ""
	handler := NewCartHandler(&facadeStub{
		removeFromCartFn: func(ctx context.Context, userID, courseID string) error {
			removed = courseID
			return nil
		},
	})

	resp := performRequest(t, http.MethodDelete, "/api/cart/:courseId", handler.Remove, func(c *gin.Context) {
		withIdentity(c)
		c.Params = gin.Params{{Key: "courseId", Value: "c1"}}
	}, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if removed != "c1" {
		t.Fatalf("expected removal of c1, got %q", removed)
	}
}

func TestCheckoutCartPath(t *testing.T) {
	handler := NewCheckoutHandler(&facadeStub{
		checkoutCartFn: func(ctx context.Context, identity *model.Identity, phone string) (*app.CheckoutResult, error) {
			if identity.UserID != "u1" {
				t.Fatalf("unexpected identity %+v", identity)
			}
			return &app.CheckoutResult{
				Session: &model.OrderSession{OrderID: "ORDER_1", GatewayOrderID: "20001", SessionToken: "s"},
				Options: &cashfree.CheckoutOptions{PaymentSessionID: "s", ReturnURL: "http://x/payment/success?order_id=ORDER_1", Mode: "sandbox"},
			}, nil
		},
	})

	resp := performRequest(t, http.MethodPost, "/api/checkout", handler.Checkout, withIdentity, []byte(`{}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result dto.CheckoutResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.OrderID != "ORDER_1" || result.Checkout.PaymentSessionID != "s" {
		t.Fatalf("unexpected response %+v", result)
	}
}

func TestCheckoutSingleCoursePath(t *testing.T) {
	var got model.CartItem
	handler := NewCheckoutHandler(&facadeStub{
		buyCourseFn: func(ctx context.Context, identity *model.Identity, item model.CartItem, phone string) (*app.CheckoutResult, error) {
			got = item
			return defaultResult(), nil
		},
	})

	body := []byte(`{"course":{"courseId":"c9","courseTitle":"Solo","price":"299"}}`)
	resp := performRequest(t, http.MethodPost, "/api/checkout", handler.Checkout, withIdentity, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.CourseID != "c9" {
		t.Fatalf("course not passed to facade: %+v", got)
	}
}

func TestCheckoutFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "empty order", err: domainErrors.ErrEmptyOrder, status: http.StatusBadRequest},
		{name: "invalid amount", err: domainErrors.ErrInvalidAmount, status: http.StatusBadRequest},
		{name: "unauthenticated", err: domainErrors.ErrUnauthenticated, status: http.StatusUnauthorized},
		{name: "gateway down", err: cashfree.ErrGatewayUnavailable, status: http.StatusBadGateway},
		{name: "gateway rejected", err: &cashfree.GatewayError{StatusCode: 401}, status: http.StatusBadGateway},
		{name: "widget down", err: cashfree.ErrWidgetUnavailable, status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCheckoutHandler(&facadeStub{
				checkoutCartFn: func(ctx context.Context, identity *model.Identity, phone string) (*app.CheckoutResult, error) {
					return nil, tt.err
				},
			})
			resp := performRequest(t, http.MethodPost, "/api/checkout", handler.Checkout, withIdentity, []byte(`{}`))
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestPaymentReturn(t *testing.T) {
	handler := NewCheckoutHandler(&facadeStub{
		confirmReturnFn: func(ctx context.Context, identity *model.Identity, orderID string) (*model.Purchase, error) {
			return &model.Purchase{OrderID: orderID, Status: model.PurchaseStatusCompleted}, nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/api/payment/return", handler.Return, func(c *gin.Context) {
		withIdentity(c)
		c.Request.URL.RawQuery = "order_id=ORDER_1"
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result dto.PaymentReturnResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success || result.Status != "COMPLETED" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestPaymentReturnFailedPayment(t *testing.T) {
	handler := NewCheckoutHandler(&facadeStub{
		confirmReturnFn: func(ctx context.Context, identity *model.Identity, orderID string) (*model.Purchase, error) {
			return &model.Purchase{OrderID: orderID, Status: model.PurchaseStatusFailed}, nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/api/payment/return", handler.Return, func(c *gin.Context) {
		withIdentity(c)
		c.Request.URL.RawQuery = "order_id=ORDER_1"
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result dto.PaymentReturnResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Success {
		t.Fatal("failed payment must not report success")
	}
}

func TestPaymentReturnValidation(t *testing.T) {
	handler := NewCheckoutHandler(&facadeStub{})
	resp := performRequest(t, http.MethodGet, "/api/payment/return", handler.Return, withIdentity, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without order_id, got %d", resp.Code)
	}

	missing := NewCheckoutHandler(&facadeStub{
		confirmReturnFn: func(ctx context.Context, identity *model.Identity, orderID string) (*model.Purchase, error) {
			return nil, domainErrors.ErrNotFound
		},
	})
	resp = performRequest(t, http.MethodGet, "/api/payment/return", missing.Return, func(c *gin.Context) {
		withIdentity(c)
		c.Request.URL.RawQuery = "order_id=ORDER_unknown"
	}, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", resp.Code)
	}
}

func TestHistoryPurchases(t *testing.T) {
	handler := NewHistoryHandler(&facadeStub{
		purchasesFn: func(ctx context.Context, userID string) ([]model.Purchase, error) {
			return []model.Purchase{{
				OrderID:     "ORDER_1",
				Status:      model.PurchaseStatusCompleted,
				TotalAmount: decimal.NewFromInt(1498),
				Currency:    "INR",
				Items: []model.PurchaseItem{
					{CourseID: "c1", Title: "Go Basics", Price: decimal.NewFromInt(999)},
				},
			}}, nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/api/purchases", handler.Purchases, withIdentity, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var purchases []dto.PurchaseResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &purchases); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(purchases) != 1 || purchases[0].OrderID != "ORDER_1" || len(purchases[0].Courses) != 1 {
		t.Fatalf("unexpected purchases %+v", purchases)
	}
}

func TestHistoryEntitlements(t *testing.T) {
	handler := NewHistoryHandler(&facadeStub{
		entitlementsFn: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"c1", "c2"}, nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/api/entitlements", handler.Entitlements, withIdentity, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result dto.EntitlementsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.CourseIDs) != 2 {
		t.Fatalf("unexpected entitlements %+v", result)
	}
}
