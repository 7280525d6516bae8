package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sdkecdsa "github.com/Layr-Labs/eigensdk-go/crypto/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/trigg3rX/triggerx-performer/pkg/env"
)

var (
	ErrMissingKey  = errors.New("no signing key configured: set PRIVATE_KEY or OPERATOR_ECDSA_KEY_STORE_PATH")
	ErrNoTerminal  = errors.New("keystore password not set and stdin is not a terminal")
	ErrInvalidFile = errors.New("invalid config file")
)

// FileConfig is the optional YAML overlay. Secrets are never read from it.
type FileConfig struct {
	AggregatorRPCUrl  string        `yaml:"aggregator_rpc_url"`
	APIPort           string        `yaml:"api_port"`
	MetricsPort       string        `yaml:"metrics_port"`
	OracleURL         string        `yaml:"oracle_url"`
	PriceSymbol       string        `yaml:"price_symbol"`
	TaskResult        string        `yaml:"task_result"`
	OracleTimeout     time.Duration `yaml:"oracle_timeout"`
	AggregatorTimeout time.Duration `yaml:"aggregator_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	OracleMaxAttempts int           `yaml:"oracle_max_attempts"`
	DevMode           bool          `yaml:"dev_mode"`
	Environment       string        `yaml:"environment"`
}

// PasswordPrompt reads the keystore password when none is configured.
var PasswordPrompt = promptPassword

// Load builds a Config from the environment. envFile and configFile are
// optional; values from the environment take precedence over the YAML file.
func Load(envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	} else {
		// .env in the working directory is optional
		_ = godotenv.Load()
	}

	var file FileConfig
	if configFile != "" {
		loaded, err := readFileConfig(configFile)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	privateKey, err := loadPrivateKey()
	if err != nil {
		return nil, err
	}

	return New(Params{
		PrivateKey:        privateKey,
		AggregatorRPCUrl:  env.GetEnvString("OTHENTIC_CLIENT_RPC_ADDRESS", file.AggregatorRPCUrl),
		APIPort:           env.GetEnvString("OPERATOR_RPC_PORT", file.APIPort),
		MetricsPort:       env.GetEnvString("OPERATOR_METRICS_PORT", file.MetricsPort),
		OracleURL:         env.GetEnvString("ORACLE_URL", file.OracleURL),
		PriceSymbol:       env.GetEnvString("PRICE_SYMBOL", file.PriceSymbol),
		TaskResult:        env.GetEnvString("TASK_RESULT", file.TaskResult),
		OracleTimeout:     env.GetEnvDuration("ORACLE_TIMEOUT", file.OracleTimeout),
		AggregatorTimeout: env.GetEnvDuration("AGGREGATOR_TIMEOUT", file.AggregatorTimeout),
		RequestTimeout:    env.GetEnvDuration("REQUEST_TIMEOUT", file.RequestTimeout),
		OracleMaxAttempts: env.GetEnvInt("ORACLE_MAX_ATTEMPTS", file.OracleMaxAttempts),
		DevMode:           env.GetEnvBool("DEV_MODE", file.DevMode),
		SentryDSN:         env.GetEnvString("SENTRY_DSN", ""),
		Environment:       env.GetEnvString("ENVIRONMENT", file.Environment),
	})
}

func readFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(handleHomeDirPath(path))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return &file, nil
}

// loadPrivateKey prefers PRIVATE_KEY and falls back to an encrypted keystore.
func loadPrivateKey() ([]byte, error) {
	if raw := env.GetEnvString("PRIVATE_KEY", ""); raw != "" {
		keyHex := env.TrimHexPrefix(strings.TrimSpace(raw))
		if !env.IsValidPrivateKey(keyHex) {
			return nil, fmt.Errorf("invalid private key: expected %d hex-encoded bytes", privateKeyLength)
		}
		return hex.DecodeString(keyHex)
	}

	keyStorePath := env.GetEnvString("OPERATOR_ECDSA_KEY_STORE_PATH", "")
	if keyStorePath == "" {
		return nil, ErrMissingKey
	}
	keyStorePath = handleHomeDirPath(keyStorePath)

	password, ok := os.LookupEnv("OPERATOR_ECDSA_KEY_PASSWORD")
	if !ok {
		var err error
		password, err = PasswordPrompt(fmt.Sprintf("Enter password for ECDSA keystore %s: ", filepath.Base(keyStorePath)))
		if err != nil {
			return nil, err
		}
	}

	key, err := sdkecdsa.ReadKey(keyStorePath, password)
	if err != nil {
		return nil, fmt.Errorf("failed to read ecdsa keystore: %w", err)
	}
	return crypto.FromECDSA(key), nil
}

func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func handleHomeDirPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
