package rndc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"despachos/rndc-gateway/internal/logging"
)

// maxResponseBytes bounds how much of a reply is kept.
const maxResponseBytes = 1 << 20

// ErrorKind classifies a failed RNDC call.
type ErrorKind string

const (
	KindNetwork  ErrorKind = "network"
	KindTimeout  ErrorKind = "timeout"
	KindHTTP     ErrorKind = "http"
	KindRejected ErrorKind = "rejected"
)

// SubmissionError is returned for every call that did not end in an accepted
// document.
type SubmissionError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	RetryAfter time.Duration
	// Response is set for rejections.
	Response *Response
	Err      error
}

func (e *SubmissionError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("rndc responded with HTTP %d: %s", e.StatusCode, snippet(e.Body, 300))
	case KindRejected:
		if e.Response != nil && e.Response.Mensaje != "" {
			return "rndc rejected the document: " + e.Response.Mensaje
		}
		return "rndc rejected the document"
	case KindTimeout:
		return fmt.Sprintf("rndc request timed out: %v", e.Err)
	default:
		return fmt.Sprintf("rndc request failed: %v", e.Err)
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed. Business
// rejections and 4xx answers other than 429 are final.
func (e *SubmissionError) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout:
		return true
	case KindHTTP:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

// Recorder observes outbound calls. metrics.MetricsRegistry implements it.
type Recorder interface {
	ObserveRNDCCall(outcome string, duration time.Duration)
	IncRNDCRetry()
}

// Client posts envelopes to the RNDC SOAP endpoint.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	recorder   Recorder
}

type Option func(*Client)

// WithHTTPClient replaces the transport. Per-call timeouts still come from
// Config.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter shares an outbound rate limiter between callers.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func NewClient(opts ...Option) *Client {
	c := &Client{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewLimiter builds the limiter for a configured rate, or nil when unlimited.
func NewLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Submit registers a rendered document at cfg.SubmitURL. With the zero
// RetryPolicy exactly one attempt is made.
func (c *Client) Submit(ctx context.Context, envelope string, cfg Config) (*Response, error) {
	return c.withRetry(ctx, cfg.Retry, func() (*Response, error) {
		return c.Call(ctx, cfg.SubmitURL, envelope, cfg)
	})
}

// Query sends a consulta to cfg.QueryURL, falling back to cfg.SubmitURL.
func (c *Client) Query(ctx context.Context, envelope string, cfg Config) (*Response, error) {
	return c.withRetry(ctx, cfg.Retry, func() (*Response, error) {
		return c.Call(ctx, cfg.queryURL(), envelope, cfg)
	})
}

// Call performs one POST and classifies the reply. The call is bounded by
// cfg.Timeout whatever the caller's context allows.
func (c *Client) Call(ctx context.Context, url, envelope string, cfg Config) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &SubmissionError{Kind: KindNetwork, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	timeout := cfg.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.call(ctx, url, envelope, cfg)
	if c.recorder != nil {
		c.recorder.ObserveRNDCCall(outcomeLabel(err), time.Since(start))
	}
	return resp, err
}

func (c *Client) call(ctx context.Context, url, envelope string, cfg Config) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(envelope))
	if err != nil {
		return nil, &SubmissionError{Kind: KindNetwork, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", SOAPAction)
	req.SetBasicAuth(cfg.Usuario, cfg.Password)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &SubmissionError{
			Kind:       KindHTTP,
			StatusCode: httpResp.StatusCode,
			Body:       string(body),
			RetryAfter: parseRetryAfter(httpResp.Header.Get("Retry-After")),
		}
	}

	classified := Classify(string(body))
	if !classified.Success {
		return &classified, &SubmissionError{Kind: KindRejected, StatusCode: httpResp.StatusCode, Body: string(body), Response: &classified}
	}
	return &classified, nil
}

func transportError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &SubmissionError{Kind: KindTimeout, Err: err}
	}
	return &SubmissionError{Kind: KindNetwork, Err: err}
}

func (c *Client) withRetry(ctx context.Context, policy RetryPolicy, attempt func() (*Response, error)) (*Response, error) {
	var (
		resp    *Response
		lastErr error
	)
	for n := 0; n <= policy.MaxRetries; n++ {
		if n > 0 {
			wait := policy.delay(n, lastErr)
			logging.Warn("retrying RNDC call", "attempt", n+1, "wait", wait.String(), "error", lastErr.Error())
			if c.recorder != nil {
				c.recorder.IncRNDCRetry()
			}
			select {
			case <-ctx.Done():
				return resp, lastErr
			case <-time.After(wait):
			}
		}

		resp, lastErr = attempt()
		if lastErr == nil {
			return resp, nil
		}
		var subErr *SubmissionError
		if !errors.As(lastErr, &subErr) || !subErr.Retryable() {
			return resp, lastErr
		}
	}
	return resp, lastErr
}

// delay is Backoff doubled per attempt and capped at MaxBackoff. A
// Retry-After from the server wins.
func (p RetryPolicy) delay(attempt int, lastErr error) time.Duration {
	var subErr *SubmissionError
	if errors.As(lastErr, &subErr) && subErr.RetryAfter > 0 {
		return subErr.RetryAfter
	}
	backoff := p.Backoff * time.Duration(1<<uint(attempt-1))
	if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
		backoff = p.MaxBackoff
	}
	return backoff
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func outcomeLabel(err error) string {
	if err == nil {
		return "accepted"
	}
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return string(subErr.Kind)
	}
	return "error"
}
