// Package httpgw implements the payment gateway contract against a
// remote JSON API. Transport-level failures and 5xx responses are
// marked retryable; 4xx responses map to domain errors and surface
// immediately.
package httpgw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"

	"github.com/tierforge/tierforge/internal/config"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

var _ gateway.Gateway = (*Client)(nil)

type errorBody struct {
	Message string            `json:"message"`
	Type    string            `json:"type,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func NewClient(cfg config.GatewayConfig, log *logger.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = log.GetRetryableHTTPLogger()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := retryClient.StandardClient()
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     log,
	}
}

func (c *Client) CreateCustomer(ctx context.Context, req *gateway.CreateCustomerRequest) (*gateway.CustomerResponse, error) {
	var out gateway.CustomerResponse
	if err := c.do(ctx, http.MethodPost, "/customers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePaymentMethod(ctx context.Context, req *gateway.CreatePaymentMethodRequest) (*gateway.PaymentMethodResponse, error) {
	var out gateway.PaymentMethodResponse
	if err := c.do(ctx, http.MethodPost, "/payment_methods", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProcessPayment(ctx context.Context, req *gateway.ProcessPaymentRequest) (*gateway.PaymentResponse, error) {
	var out gateway.PaymentResponse
	if err := c.do(ctx, http.MethodPost, "/payments", req, &out); err != nil {
		return nil, err
	}
	c.logger.Infow("payment created at gateway", "payment_id", out.ID, "status", out.Status, "amount", out.Amount)
	return &out, nil
}

func (c *Client) RefundPayment(ctx context.Context, req *gateway.RefundPaymentRequest) (*gateway.RefundResponse, error) {
	var out gateway.RefundResponse
	path := fmt.Sprintf("/payments/%s/refund", req.PaymentID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	c.logger.Infow("payment refunded at gateway", "payment_id", req.PaymentID, "refund_id", out.ID, "amount", out.Amount)
	return &out, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*gateway.PaymentResponse, error) {
	var out gateway.PaymentResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPayments(ctx context.Context, req *gateway.ListPaymentsRequest) ([]*gateway.PaymentResponse, error) {
	path := "/payments"
	if req != nil && req.CustomerID != "" {
		path += "?customer_id=" + req.CustomerID
	}
	var out []*gateway.PaymentResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSubscription(ctx context.Context, req *gateway.CreateSubscriptionRequest) (*gateway.SubscriptionResponse, error) {
	var out gateway.SubscriptionResponse
	if err := c.do(ctx, http.MethodPost, "/subscriptions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSubscription(ctx context.Context, req *gateway.UpdateSubscriptionRequest) (*gateway.SubscriptionResponse, error) {
	var out gateway.SubscriptionResponse
	path := "/subscriptions/" + req.SubscriptionID
	if err := c.do(ctx, http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*gateway.SubscriptionResponse, error) {
	var out gateway.SubscriptionResponse
	path := "/subscriptions/" + subscriptionID + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSubscriptions(ctx context.Context, customerID string) ([]*gateway.SubscriptionResponse, error) {
	path := "/subscriptions"
	if customerID != "" {
		path += "?customer_id=" + customerID
	}
	var out []*gateway.SubscriptionResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Invalid gateway request data").
				Mark(ierr.ErrInternal)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to build gateway request").
			Mark(ierr.ErrInternal)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.SetBasicAuth(c.apiKey, "")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Errorw("gateway request failed", "method", method, "path", path, "error", err)
		return ierr.WithError(err).
			WithHint("Unable to reach the payment gateway").
			Mark(ierr.ErrNetwork)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read gateway response").
			Mark(ierr.ErrNetwork)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp.StatusCode, respBody, path)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to parse gateway response").
				Mark(ierr.ErrInternal)
		}
	}
	return nil
}

func (c *Client) apiError(status int, body []byte, path string) error {
	message := fmt.Sprintf("gateway returned HTTP %d", status)
	details := map[string]interface{}{"status": status, "path": path}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
		if parsed.Type != "" {
			details["type"] = parsed.Type
		}
		if len(parsed.Errors) > 0 {
			details["errors"] = parsed.Errors
		}
	}

	c.logger.Errorw("gateway API error", "status", status, "path", path, "message", message)

	builder := ierr.NewError(message).WithReportableDetails(details)
	switch {
	case status == http.StatusPaymentRequired:
		return builder.WithHint("The gateway declined this payment").Mark(ierr.ErrPaymentDeclined)
	case status == http.StatusNotFound:
		return builder.WithHint("The referenced gateway resource does not exist").Mark(ierr.ErrNotFound)
	case status == http.StatusTooManyRequests || status >= 500:
		return builder.WithHint("Temporary gateway failure").Mark(ierr.ErrNetwork)
	case status >= 400:
		return builder.WithHint("The gateway rejected this request").Mark(ierr.ErrValidation)
	default:
		return builder.Mark(ierr.ErrInternal)
	}
}
