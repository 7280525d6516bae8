package aggregator

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"time"

	httppkg "github.com/trigg3rX/triggerx-performer/pkg/http"
	"github.com/trigg3rX/triggerx-performer/pkg/logging"
)

const defaultRequestTimeout = 10 * time.Second

// AggregatorClient submits signed tasks to the aggregator's JSON-RPC endpoint
type AggregatorClient struct {
	logger     logging.Logger
	config     AggregatorClientConfig
	httpClient httppkg.HTTPClientInterface
}

// NewAggregatorClient creates a new instance of AggregatorClient.
// Submissions are single attempts; the HTTP client never retries.
func NewAggregatorClient(logger logging.Logger, cfg AggregatorClientConfig) (*AggregatorClient, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.AggregatorRPCUrl == "" {
		return nil, fmt.Errorf("RPC address cannot be empty")
	}
	parsed, err := url.Parse(cfg.AggregatorRPCUrl)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("invalid RPC address: %s", cfg.AggregatorRPCUrl)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	httpClient, err := httppkg.NewHTTPClient(httppkg.SingleAttemptHTTPConfig(cfg.RequestTimeout), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return newAggregatorClient(logger, cfg, httpClient), nil
}

func newAggregatorClient(logger logging.Logger, cfg AggregatorClientConfig, httpClient httppkg.HTTPClientInterface) *AggregatorClient {
	return &AggregatorClient{
		logger:     logger,
		config:     cfg,
		httpClient: httpClient,
	}
}

func (c *AggregatorClient) Close() {
	c.httpClient.Close()
}

// isDialError inspects an error to determine if it represents a network dialing error
// such as connection refused, host unreachable, or DNS resolution failures.
func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return true
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED, syscall.ENETUNREACH, syscall.EHOSTUNREACH, syscall.ETIMEDOUT:
				return true
			}
		}
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
