// Package client talks to the orders service over REST. Every call runs
// through a circuit breaker and carries an OpenTelemetry client span.
package client

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
	"strings"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/circuitbreaker"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "github.com/pro5598/Gearnixx-sub000/storefront-service/internal/client"
	maxResponseBody = 1 << 20 // 1MB
	userIDHeader    = "X-User-ID"
)

var (
	ErrServer        = errors.New("orders service error")
	ErrBadResponse   = errors.New("unexpected response from orders service")
	ErrInvalidConfig = errors.New("invalid orders service url")
)

type OrdersClient struct {
	baseURL *url.URL
	http    *http.Client
	breaker *circuitbreaker.Breaker
	tracer  trace.Tracer
	log     *slog.Logger
}

// NewOrdersClient builds a client for the orders service at baseURL.
// A nil breaker gets the default configuration.
func NewOrdersClient(baseURL string, timeout time.Duration, breaker *circuitbreaker.Breaker, log *slog.Logger) (*OrdersClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidConfig, baseURL)
	}
	log = logger.OrNop(log)
	if breaker == nil {
		breaker = circuitbreaker.New("orders-service", circuitbreaker.DefaultConfig(), log)
	}
	return &OrdersClient{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
		tracer:  otel.Tracer(tracerName),
		log:     log,
	}, nil
}

// BreakerState is exposed on the health endpoint.
func (c *OrdersClient) BreakerState() string {
	return c.breaker.State()
}

// call sends in as JSON and decodes the reply into out. 4xx replies with a
// JSON body are not errors: the body carries success=false and a message.
func (c *OrdersClient) call(ctx context.Context, op, method, path, userID string, in, out any) error {
	ctx, span := c.tracer.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	_, err := circuitbreaker.Do(c.breaker, func() (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, method, path, userID, in, out)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.WarnContext(ctx, "orders service call failed", "op", op, "error", err)
		return err
	}
	return nil
}

func (c *OrdersClient) roundTrip(ctx context.Context, method, path, userID string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s %s returned %d", ErrServer, method, path, resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s status %d: %v", ErrBadResponse, method, path, resp.StatusCode, err)
	}
	return nil
}

func userPath(userID, resource string) string {
	return "/api/v1/users/" + url.PathEscape(userID) + "/" + resource
}
