// Package apiclient talks to the ChainMetrics HTTP API and converts every
// failure of a domain operation into that operation's documented fallback.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/v1"

	maxResponseBytes = 8 * 1024 * 1024
)

// ErrFetchFailed is wrapped by every transport, status and decode failure.
var ErrFetchFailed = errors.New("fetch failed")

// APIError is returned for a non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.Status)
}

type Config struct {
	BaseURL string
	// RequestTimeout bounds a whole request. Zero leaves the http.Client
	// without a timeout.
	RequestTimeout time.Duration
	// SampleTokensFallback makes TopTokens fall back to the static sample
	// listing instead of an empty slice.
	SampleTokensFallback bool
	HTTPClient           *http.Client
	Logger               *log.Logger
}

type Client struct {
	http         *http.Client
	baseURL      string
	tracer       trace.Tracer
	logger       *log.Logger
	sampleTokens bool
}

func New(cfg Config, tracer trace.Tracer) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		http:         httpClient,
		baseURL:      baseURL,
		tracer:       tracer,
		logger:       logger.WithPrefix("apiclient"),
		sampleTokens: cfg.SampleTokensFallback,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// getJSON issues a GET against path and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrFetchFailed, path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodPost, path, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "apiclient.request", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	defer span.End()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if method == http.MethodPost {
		reqBody = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: build request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %s %s: %w", ErrFetchFailed, method, path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, apiErr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}
	return body, nil
}
