// Package backend is the HTTP/JSON client for the order-taking API that owns stores,
// products, delivery zones, coupons, orders and pricing.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/metrics"
)

const (
	defaultTimeout             = 15 * time.Second
	errorBodyReadLimit   int64 = 4096
	failureKindTransport       = "transport"
	failureKindStatus          = "status"
)

var errBaseURLRequired = errors.New("backend base url is required")

// Client talks to the backend API. It never retries: every call is issued exactly once.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.BackendMetrics
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default instrumented HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithMetrics(m *metrics.BackendMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds a backend client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// BaseURL returns the API origin the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError is returned when the backend answers with a non-success status.
type StatusError struct {
	Operation string
	Status    int
	Body      string
	detail    string
}

// NewStatusError builds the rejection for operation, reading the detail from the response body.
func NewStatusError(operation string, status int, body []byte) *StatusError {
	return &StatusError{
		Operation: operation,
		Status:    status,
		Body:      strings.TrimSpace(string(body)),
		detail:    parseDetail(body),
	}
}

func (e *StatusError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("backend %s: status %d: %s", e.Operation, e.Status, e.detail)
	}
	return fmt.Sprintf("backend %s: status %d", e.Operation, e.Status)
}

func (e *StatusError) HTTPStatus() int { return e.Status }

// Detail is the backend-supplied "detail" message, empty when the body carried none.
func (e *StatusError) Detail() string { return e.detail }

// AsStatusError extracts the backend status failure from err, if any.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+operation+" request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+operation+" request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(operation, failureKindTransport)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+operation+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncFailure(operation, failureKindStatus)
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		statusErr := NewStatusError(operation, resp.StatusCode, raw)
		c.debug(ctx, operation, resp.StatusCode)
		return classify(statusErr)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.metrics.IncFailure(operation, failureKindTransport)
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+operation+" response")
		}
	}
	c.metrics.IncSuccess(operation)
	return nil
}

func (c *Client) debug(ctx context.Context, operation string, status int) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{
		"backend_operation": operation,
		"backend_status":    status,
	})
	c.logg.Debug(ctx, "backend.request.rejected")
}

// classify maps a backend status onto the platform error codes. The message is the
// backend detail when present so callers can surface it verbatim.
func classify(statusErr *StatusError) error {
	message := statusErr.detail
	if message == "" {
		message = statusErr.Operation + " rejected by backend"
	}
	switch statusErr.Status {
	case http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, statusErr, message)
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, statusErr, message)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, statusErr, message)
	}
}

// parseDetail reads FastAPI-style {"detail": "..."} bodies. Structured validation
// details (lists) are not surfaced.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
