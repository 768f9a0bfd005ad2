package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultExplorerURL    = "https://explorer.somnia.network"
	DefaultAPIBase        = "https://explorer.somnia.network/api/v2"
	DefaultTargetContract = "0x0000000000000000000000000000000000000000"
)

type Config struct {
	// Explorer
	ExplorerURL    string // human-facing explorer, used for links in alerts
	APIBase        string // Blockscout v2 API root
	TargetContract string
	RequestTimeout time.Duration

	// Listener
	PollInterval   time.Duration
	AlertThreshold decimal.Decimal // token units, normalized by decimals
	TokenSymbol    string

	// Session journal (never used to restore state)
	DBPath string

	// Dashboard, 0 disables it
	DashboardPort int

	LogLevel zerolog.Level
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ExplorerURL:    strings.TrimRight(envOr("SOMNIA_EXPLORER", DefaultExplorerURL), "/"),
		APIBase:        strings.TrimRight(envOr("SOMNIA_API_V2", DefaultAPIBase), "/"),
		TargetContract: envOr("TARGET_CONTRACT", DefaultTargetContract),
		RequestTimeout: time.Duration(envInt("REQUEST_TIMEOUT", 10000)) * time.Millisecond,

		PollInterval:   time.Duration(envInt("POLL_INTERVAL", 10000)) * time.Millisecond,
		AlertThreshold: envDecimal("ALERT_THRESHOLD", decimal.NewFromInt(1000)),
		TokenSymbol:    envOr("TOKEN_SYMBOL", "SCHWEPE"),

		DBPath:        envOr("DB_PATH", ":memory:"),
		DashboardPort: envInt("DASHBOARD_PORT", 0),
		LogLevel:      zerolog.InfoLevel,
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if !common.IsHexAddress(c.TargetContract) {
		return fmt.Errorf("TARGET_CONTRACT %q is not a valid hex address", c.TargetContract)
	}
	for name, raw := range map[string]string{"SOMNIA_API_V2": c.APIBase, "SOMNIA_EXPLORER": c.ExplorerURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s %q is not an absolute URL", name, raw)
		}
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.DashboardPort < 0 || c.DashboardPort > 65535 {
		return fmt.Errorf("DASHBOARD_PORT out of range: %d", c.DashboardPort)
	}
	return nil
}

// TransfersURL is the endpoint returning the most recent transfer of the target token.
func (c *Config) TransfersURL() string {
	return fmt.Sprintf("%s/tokens/%s/transfers?limit=1", c.APIBase, c.TargetContract)
}

func (c *Config) TokenPageURL() string {
	return fmt.Sprintf("%s/token/%s", c.ExplorerURL, c.TargetContract)
}

func (c *Config) TxURL(hash string) string {
	return fmt.Sprintf("%s/tx/%s", c.ExplorerURL, hash)
}

// ChecksumContract returns the EIP-55 form of the target contract.
func (c *Config) ChecksumContract() string {
	return common.HexToAddress(c.TargetContract).Hex()
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func envDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}
