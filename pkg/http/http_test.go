package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trigg3rX/triggerx-performer/pkg/logging"
)

func newTestClient(t *testing.T, maxRetries int) *HTTPClient {
	cfg := DefaultHTTPRetryConfig()
	cfg.RetryConfig.MaxRetries = maxRetries
	cfg.RetryConfig.InitialDelay = time.Millisecond
	cfg.RetryConfig.MaxDelay = 5 * time.Millisecond
	client, err := NewHTTPClient(cfg, logging.NewNoOpLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestNewHTTPClient(t *testing.T) {
	t.Run("Success with defaults", func(t *testing.T) {
		client, err := NewHTTPClient(nil, logging.NewNoOpLogger())
		require.NoError(t, err)
		assert.NotNil(t, client.client)
		assert.NotNil(t, client.HTTPConfig.RetryConfig.ShouldRetry)
	})

	t.Run("Failure: Nil Logger", func(t *testing.T) {
		client, err := NewHTTPClient(nil, nil)
		assert.Nil(t, client)
		assert.EqualError(t, err, "logger cannot be nil")
	})

	t.Run("Failure: Invalid Timeout", func(t *testing.T) {
		cfg := DefaultHTTPRetryConfig()
		cfg.Timeout = 0
		client, err := NewHTTPClient(cfg, logging.NewNoOpLogger())
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "timeout must be positive")
	})
}

func TestHTTPClient_DoWithRetry(t *testing.T) {
	t.Run("Success: body is replayed on every attempt", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, `{"ping":true}`, string(body))
			if atomic.AddInt32(&attempts, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = fmt.Fprint(w, "ok")
		}))
		defer server.Close()

		client := newTestClient(t, 5)
		resp, err := client.Post(context.Background(), server.URL, "application/json", strings.NewReader(`{"ping":true}`))
		require.NoError(t, err)

		body, err := client.ReadBody(resp)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	})

	t.Run("Final retryable response is returned to the caller", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(t, 2)
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		_, _ = client.ReadBody(resp)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	})

	t.Run("Non retryable status is returned immediately", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, 3)
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		_, _ = client.ReadBody(resp)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	})

	t.Run("Single attempt config does not retry transport errors", func(t *testing.T) {
		client, err := NewHTTPClient(SingleAttemptHTTPConfig(time.Second), logging.NewNoOpLogger())
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "http://127.0.0.1:1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http request failed")
		assert.NotContains(t, err.Error(), "attempts")
	})
}

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, IsRetryableStatus(http.StatusTooManyRequests))
	assert.True(t, IsRetryableStatus(http.StatusServiceUnavailable))
	assert.False(t, IsRetryableStatus(http.StatusOK))
	assert.False(t, IsRetryableStatus(http.StatusBadRequest))
	assert.False(t, IsRetryableStatus(http.StatusInternalServerError))
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: 503, Message: "Service Unavailable"}
	assert.Equal(t, "HTTP 503: Service Unavailable", err.Error())
}
