package config

import (
	"fmt"
	"time"

	"github.com/trigg3rX/triggerx-performer/pkg/env"
)

const (
	version = "0.1.0"

	DefaultAPIPort           = "4003"
	DefaultMetricsPort       = "9009"
	DefaultOracleURL         = "https://api.binance.com"
	DefaultPriceSymbol       = "ETHUSDT"
	DefaultTaskResult        = "hello"
	DefaultOracleTimeout     = 5 * time.Second
	DefaultOracleMaxAttempts = 3
	DefaultAggregatorTimeout = 10 * time.Second
	DefaultRequestTimeout    = 30 * time.Second
	DefaultEnvironment       = "production"

	privateKeyLength = 32
)

// Params is everything needed to build a Config. Zero values of the
// optional fields are replaced by defaults in New.
type Params struct {
	PrivateKey       []byte
	AggregatorRPCUrl string

	APIPort     string
	MetricsPort string

	OracleURL   string
	PriceSymbol string
	// Attested alongside every price; fixed by the task schema.
	TaskResult string

	OracleTimeout     time.Duration
	AggregatorTimeout time.Duration
	RequestTimeout    time.Duration
	// Attempts per price fetch on transient HTTP failures.
	OracleMaxAttempts int

	DevMode     bool
	SentryDSN   string
	Environment string
}

// Config is the performer's immutable runtime configuration.
type Config struct {
	privateKey       []byte
	aggregatorRPCUrl string

	apiPort     string
	metricsPort string

	oracleURL   string
	priceSymbol string
	taskResult  []byte

	oracleTimeout     time.Duration
	aggregatorTimeout time.Duration
	requestTimeout    time.Duration
	oracleMaxAttempts int

	devMode     bool
	sentryDSN   string
	environment string
}

func New(p Params) (*Config, error) {
	applyDefaults(&p)
	if err := validate(p); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	key := make([]byte, len(p.PrivateKey))
	copy(key, p.PrivateKey)

	return &Config{
		privateKey:        key,
		aggregatorRPCUrl:  p.AggregatorRPCUrl,
		apiPort:           p.APIPort,
		metricsPort:       p.MetricsPort,
		oracleURL:         p.OracleURL,
		priceSymbol:       p.PriceSymbol,
		taskResult:        []byte(p.TaskResult),
		oracleTimeout:     p.OracleTimeout,
		aggregatorTimeout: p.AggregatorTimeout,
		requestTimeout:    p.RequestTimeout,
		oracleMaxAttempts: p.OracleMaxAttempts,
		devMode:           p.DevMode,
		sentryDSN:         p.SentryDSN,
		environment:       p.Environment,
	}, nil
}

func applyDefaults(p *Params) {
	if p.APIPort == "" {
		p.APIPort = DefaultAPIPort
	}
	if p.MetricsPort == "" {
		p.MetricsPort = DefaultMetricsPort
	}
	if p.OracleURL == "" {
		p.OracleURL = DefaultOracleURL
	}
	if p.PriceSymbol == "" {
		p.PriceSymbol = DefaultPriceSymbol
	}
	if p.TaskResult == "" {
		p.TaskResult = DefaultTaskResult
	}
	if p.OracleTimeout <= 0 {
		p.OracleTimeout = DefaultOracleTimeout
	}
	if p.AggregatorTimeout <= 0 {
		p.AggregatorTimeout = DefaultAggregatorTimeout
	}
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = DefaultRequestTimeout
	}
	if p.OracleMaxAttempts <= 0 {
		p.OracleMaxAttempts = DefaultOracleMaxAttempts
	}
	if p.Environment == "" {
		p.Environment = DefaultEnvironment
	}
}

func validate(p Params) error {
	if len(p.PrivateKey) != privateKeyLength {
		return fmt.Errorf("private key must be %d bytes, got %d", privateKeyLength, len(p.PrivateKey))
	}
	if !env.IsValidURL(p.AggregatorRPCUrl) {
		return fmt.Errorf("invalid aggregator rpc url: %q", p.AggregatorRPCUrl)
	}
	if !env.IsValidURL(p.OracleURL) {
		return fmt.Errorf("invalid oracle url: %q", p.OracleURL)
	}
	if !env.IsValidPort(p.APIPort) {
		return fmt.Errorf("invalid api port: %s", p.APIPort)
	}
	if !env.IsValidPort(p.MetricsPort) {
		return fmt.Errorf("invalid metrics port: %s", p.MetricsPort)
	}
	if p.APIPort == p.MetricsPort {
		return fmt.Errorf("api and metrics ports must differ: %s", p.APIPort)
	}
	return nil
}

// PrivateKey returns a copy of the raw signing key.
func (c *Config) PrivateKey() []byte {
	key := make([]byte, len(c.privateKey))
	copy(key, c.privateKey)
	return key
}

func (c *Config) AggregatorRPCUrl() string {
	return c.aggregatorRPCUrl
}

func (c *Config) APIPort() string {
	return c.apiPort
}

func (c *Config) MetricsPort() string {
	return c.metricsPort
}

func (c *Config) OracleURL() string {
	return c.oracleURL
}

func (c *Config) PriceSymbol() string {
	return c.priceSymbol
}

// TaskResult returns a copy of the placeholder result bytes.
func (c *Config) TaskResult() []byte {
	result := make([]byte, len(c.taskResult))
	copy(result, c.taskResult)
	return result
}

func (c *Config) OracleTimeout() time.Duration {
	return c.oracleTimeout
}

func (c *Config) AggregatorTimeout() time.Duration {
	return c.aggregatorTimeout
}

func (c *Config) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func (c *Config) OracleMaxAttempts() int {
	return c.oracleMaxAttempts
}

func (c *Config) IsDevMode() bool {
	return c.devMode
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) Environment() string {
	return c.environment
}

func (c *Config) Version() string {
	return version
}
