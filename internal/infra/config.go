package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sniper_go/internal/domain"
)

const (
	// DefaultUserAgent is a browser-like user agent string; some public
	// price endpoints reject the Go default.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds every startup setting of the sniper. Loaded once by
// LoadConfig, then sensitive fields are overridden from the environment.
// Nothing here is re-validated per call.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Network string `yaml:"network"` // explorer link suffix only
	} `yaml:"app"`

	RPC struct {
		Endpoint   string `yaml:"endpoint"`
		WSEndpoint string `yaml:"ws_endpoint"`
		// RequestsPerSecond throttles the RPC client; 0 disables throttling.
		RequestsPerSecond int `yaml:"requests_per_second"`
	} `yaml:"rpc"`

	Wallet struct {
		// PrivateKey is base58; normally injected via SNIPER_PRIVATE_KEY.
		PrivateKey string `yaml:"private_key"`
	} `yaml:"wallet"`

	Trade struct {
		QuoteAmountLamports uint64 `yaml:"quote_amount_lamports"`
		MaxBuyRetries       int    `yaml:"max_buy_retries"`
		MaxSellRetries      int    `yaml:"max_sell_retries"`
		BuySlippageBps      uint64 `yaml:"buy_slippage_bps"`
		SellSlippageBps     uint64 `yaml:"sell_slippage_bps"`
		SingleFlight        bool   `yaml:"single_flight"`
	} `yaml:"trade"`

	Valuation struct {
		EntryFloorUSD   float64 `yaml:"entry_floor_usd"`
		EntryCeilUSD    float64 `yaml:"entry_ceil_usd"`
		ExitTargetUSD   float64 `yaml:"exit_target_usd"`
		CheckIntervalMS int     `yaml:"check_interval_ms"`
		CheckDurationMS int     `yaml:"check_duration_ms"`
	} `yaml:"valuation"`

	Relay struct {
		TipAccount  string `yaml:"tip_account"`
		TipLamports uint64 `yaml:"tip_lamports"`
		// ConfirmPollMS is the signature status poll cadence.
		ConfirmPollMS int `yaml:"confirm_poll_ms"`
	} `yaml:"relay"`

	Price struct {
		URL            string `yaml:"url"`
		PoolID         string `yaml:"pool_id"` // reference SOL/USDC pool
		RequestCeiling int    `yaml:"request_ceiling"`
		WindowSec      int    `yaml:"window_sec"`
	} `yaml:"price"`

	Listener struct {
		// UpdateAuthority gates which token metadata update authorities
		// are sniped; empty disables the check.
		UpdateAuthority string `yaml:"update_authority"`
	} `yaml:"listener"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the config file, applies environment
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !hasPrefix(c.RPC.Endpoint, "http://") && !hasPrefix(c.RPC.Endpoint, "https://") {
		return fmt.Errorf("invalid RPC endpoint: %s", c.RPC.Endpoint)
	}
	if !hasPrefix(c.RPC.WSEndpoint, "ws://") && !hasPrefix(c.RPC.WSEndpoint, "wss://") {
		return fmt.Errorf("invalid RPC WS endpoint: %s", c.RPC.WSEndpoint)
	}
	if c.Wallet.PrivateKey == "" {
		return fmt.Errorf("wallet private key is required (set SNIPER_PRIVATE_KEY)")
	}
	if c.Trade.QuoteAmountLamports == 0 {
		return fmt.Errorf("quote amount must be positive")
	}
	if c.Trade.MaxBuyRetries <= 0 || c.Trade.MaxSellRetries <= 0 {
		return fmt.Errorf("retry counts must be positive")
	}
	if c.Trade.BuySlippageBps >= 10000 || c.Trade.SellSlippageBps >= 10000 {
		return fmt.Errorf("slippage must be below 10000 bps")
	}
	if c.Valuation.EntryFloorUSD > c.Valuation.EntryCeilUSD {
		return fmt.Errorf("entry floor %v above ceiling %v", c.Valuation.EntryFloorUSD, c.Valuation.EntryCeilUSD)
	}
	if c.Price.RequestCeiling <= 0 || c.Price.WindowSec <= 0 {
		return fmt.Errorf("price request ceiling and window must be positive")
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv replaces sensitive settings from the environment when set.
func overrideWithEnv(cfg *Config) {
	if pk := os.Getenv("SNIPER_PRIVATE_KEY"); pk != "" {
		cfg.Wallet.PrivateKey = pk
	}
	if ep := os.Getenv("SNIPER_RPC_ENDPOINT"); ep != "" {
		cfg.RPC.Endpoint = ep
	}
	if ep := os.Getenv("SNIPER_RPC_WS_ENDPOINT"); ep != "" {
		cfg.RPC.WSEndpoint = ep
	}
}
