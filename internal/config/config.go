// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Rpc defines Solana network connectivity for transaction submission and account reads.
type Rpc struct {
	URL        string `yaml:"url"`
	Commitment string `yaml:"commitment"` // processed|confirmed|finalized
}

// Market configures the pump.fun coin-data HTTP source.
type Market struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Trade groups the knobs for a single buy or sell against the bonding curve.
type Trade struct {
	Mint           string  `yaml:"mint"`
	SolInLamports  uint64  `yaml:"sol_in_lamports"`
	SlippageBps    uint64  `yaml:"slippage_bps"`
	PriorityFeeSol float64 `yaml:"priority_fee_sol"`
	Mode           string  `yaml:"mode"` // execute|simulate
}

// Distribution controls the child-wallet pool and the fan-out amounts.
type Distribution struct {
	WalletsPath           string `yaml:"wallets_path"`
	WalletCount           int    `yaml:"wallet_count"`
	TokenAmount           uint64 `yaml:"token_amount"`
	FundLamports          uint64 `yaml:"fund_lamports"`
	SweepLamports         uint64 `yaml:"sweep_lamports"`
	RentExemptMinLamports uint64 `yaml:"rent_exempt_min_lamports"`
	DistributeToken       bool   `yaml:"distribute_token"`
	FundSol               bool   `yaml:"fund_sol"`
	SellFromChildren      bool   `yaml:"sell_from_children"`
}

// Retry consolidates the bounded-retry budget shared by every network mutation.
type Retry struct {
	MaxAttempts int `yaml:"max_attempts"`
	DelayMs     int `yaml:"delay_ms"`
}

// Delay returns the configured inter-attempt pause as a duration.
func (r Retry) Delay() time.Duration { return time.Duration(r.DelayMs) * time.Millisecond }

// Stream configures the live trade event websocket.
type Stream struct {
	URL string `yaml:"url"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App          App          `yaml:"app"`
	Rpc          Rpc          `yaml:"rpc"`
	Market       Market       `yaml:"market"`
	Trade        Trade        `yaml:"trade"`
	Distribution Distribution `yaml:"distribution"`
	Retry        Retry        `yaml:"retry"`
	Stream       Stream       `yaml:"stream"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
