package rndc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"despachos/rndc-gateway/internal/logging"
)

func configFor(url string) Config {
	cfg := testConfig
	cfg.SubmitURL = url
	cfg.Timeout = 2 * time.Second
	return cfg
}

type countingRecorder struct {
	calls   atomic.Int32
	retries atomic.Int32
}

func (r *countingRecorder) ObserveRNDCCall(string, time.Duration) { r.calls.Add(1) }
func (r *countingRecorder) IncRNDCRetry()                          { r.retries.Add(1) }

func TestSubmit_SendsSOAPRequest(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/xml; charset=utf-8", r.Header.Get("Content-Type"))
		assert.Equal(t, SOAPAction, r.Header.Get("SOAPAction"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "U", user)
		assert.Equal(t, "P", pass)
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(acceptedEnvelope))
	}))
	defer server.Close()

	rec := &countingRecorder{}
	client := NewClient(WithRecorder(rec))
	resp, err := client.Submit(context.Background(), "<x/>", configFor(server.URL))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "98765", resp.IngresoID)
	assert.Equal(t, "<x/>", gotBody)
	assert.Equal(t, int32(1), rec.calls.Load())
}

func TestSubmit_HTTP500ReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient().Submit(context.Background(), "<x/>", configFor(server.URL))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindHTTP, subErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, subErr.StatusCode)
	assert.True(t, subErr.Retryable())
}

func TestSubmit_RejectionIsSubmissionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rejectedEnvelope))
	}))
	defer server.Close()

	resp, err := NewClient().Submit(context.Background(), "<x/>", configFor(server.URL))
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.Success)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindRejected, subErr.Kind)
	assert.False(t, subErr.Retryable())
	assert.Contains(t, err.Error(), "REM020")
}

func TestSubmit_TimesOutWithinBound(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := configFor(server.URL)
	cfg.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := NewClient().Submit(context.Background(), "<x/>", cfg)
	elapsed := time.Since(start)

	require.Error(t, err)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindTimeout, subErr.Kind)
	assert.Less(t, elapsed, cfg.Timeout+time.Second)
}

func TestSubmit_NoRetryByDefault(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient().Submit(context.Background(), "<x/>", configFor(server.URL))
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSubmit_RetriesTransientFailures(t *testing.T) {
	logging.SetLogger(zap.NewNop())

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(acceptedEnvelope))
	}))
	defer server.Close()

	cfg := configFor(server.URL)
	cfg.Retry = RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}

	rec := &countingRecorder{}
	resp, err := NewClient(WithRecorder(rec)).Submit(context.Background(), "<x/>", cfg)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, int32(2), rec.retries.Load())
}

func TestSubmit_DoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := configFor(server.URL)
	cfg.Retry = RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}

	_, err := NewClient().Submit(context.Background(), "<x/>", cfg)
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestQuery_FallsBackToSubmitURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(consultaEnvelope))
	}))
	defer server.Close()

	resp, err := NewClient().Query(context.Background(), "<x/>", configFor(server.URL))
	require.NoError(t, err)
	assert.Len(t, resp.Documentos, 1)
}

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{Backoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, p.delay(1, nil))
	assert.Equal(t, 200*time.Millisecond, p.delay(2, nil))
	assert.Equal(t, 300*time.Millisecond, p.delay(3, nil))
	assert.Equal(t, 2*time.Second, p.delay(1, &SubmissionError{Kind: KindHTTP, StatusCode: 429, RetryAfter: 2 * time.Second}))
}

func TestConfigMissing(t *testing.T) {
	assert.Equal(t, []string{"usuario", "password", "empresa_nit", "submit_url"}, Config{}.Missing())
	assert.Empty(t, testConfig.Missing())
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("soon"))
	assert.Zero(t, parseRetryAfter(time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)))
}
