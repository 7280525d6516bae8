package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httppkg "github.com/trigg3rX/triggerx-performer/pkg/http"
	"github.com/trigg3rX/triggerx-performer/pkg/logging"
	"github.com/trigg3rX/triggerx-performer/pkg/types"
)

const tickerPricePath = "/api/v3/ticker/price"

// Custom error types
var (
	ErrPriceUnavailable = errors.New("price unavailable")
	ErrInvalidQuote     = errors.New("invalid price quote")
	ErrInvalidSymbol    = errors.New("invalid symbol")
)

// Oracle returns the current price for a trading symbol.
type Oracle interface {
	GetPrice(ctx context.Context, symbol string) (*types.PriceQuote, error)
}

// Config holds the configuration for the price feed client
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	// Total attempts for transient HTTP failures; 0 keeps the client default.
	MaxAttempts int
}

// PriceFeedClient reads spot prices from a Binance-compatible ticker API.
type PriceFeedClient struct {
	httpClient httppkg.HTTPClientInterface
	logger     logging.Logger
	config     Config
}

var _ Oracle = (*PriceFeedClient)(nil)

func NewPriceFeedClient(logger logging.Logger, cfg Config) (*PriceFeedClient, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("oracle base url cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}

	retryConfig := httppkg.DefaultHTTPRetryConfig()
	retryConfig.Timeout = cfg.RequestTimeout
	if cfg.MaxAttempts > 0 {
		retryConfig.RetryConfig.MaxRetries = cfg.MaxAttempts
	}

	httpClient, err := httppkg.NewHTTPClient(retryConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &PriceFeedClient{
		httpClient: httpClient,
		logger:     logger,
		config:     cfg,
	}, nil
}

// GetPrice fetches {base}/api/v3/ticker/price?symbol=SYMBOL. The price is
// returned exactly as the feed formatted it.
func (c *PriceFeedClient) GetPrice(ctx context.Context, symbol string) (*types.PriceQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + tickerPricePath + "?symbol=" + url.QueryEscape(symbol)

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		c.logger.Error("Failed to fetch price", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPriceUnavailable, err)
	}

	body, err := c.httpClient.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrPriceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Price feed returned non-200 status", "symbol", symbol, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %w", ErrPriceUnavailable, &httppkg.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		})
	}

	var quote types.PriceQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuote, err)
	}
	if quote.Price == "" {
		return nil, fmt.Errorf("%w: empty price for %s", ErrInvalidQuote, symbol)
	}
	if quote.Symbol == "" {
		quote.Symbol = symbol
	}

	c.logger.Debug("Fetched price", "symbol", quote.Symbol, "price", quote.Price)
	return &quote, nil
}

func (c *PriceFeedClient) Close() {
	c.httpClient.Close()
}
