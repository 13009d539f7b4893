package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "bumpbot-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.Rpc.URL != "https://rpc.test" {
		t.Fatalf("unexpected Rpc.URL: %s", cfg.Rpc.URL)
	}
	if cfg.Rpc.Commitment != "processed" {
		t.Fatalf("expected processed commitment, got %s", cfg.Rpc.Commitment)
	}
	if cfg.Market.BaseURL != "https://market.test" {
		t.Fatalf("unexpected Market.BaseURL: %s", cfg.Market.BaseURL)
	}
	if cfg.Market.TimeoutMs != 1500 {
		t.Fatalf("unexpected Market.TimeoutMs: %d", cfg.Market.TimeoutMs)
	}
	if cfg.Trade.Mint != "MintTest111" {
		t.Fatalf("unexpected Trade.Mint: %s", cfg.Trade.Mint)
	}
	if cfg.Trade.SolInLamports != 10000 {
		t.Fatalf("unexpected Trade.SolInLamports: %d", cfg.Trade.SolInLamports)
	}
	if cfg.Trade.SlippageBps != 2500 {
		t.Fatalf("unexpected Trade.SlippageBps: %d", cfg.Trade.SlippageBps)
	}
	if cfg.Trade.Mode != "execute" {
		t.Fatalf("unexpected Trade.Mode: %s", cfg.Trade.Mode)
	}
	if cfg.Distribution.WalletCount != 5 {
		t.Fatalf("unexpected Distribution.WalletCount: %d", cfg.Distribution.WalletCount)
	}
	if cfg.Distribution.TokenAmount != 42 {
		t.Fatalf("unexpected Distribution.TokenAmount: %d", cfg.Distribution.TokenAmount)
	}
	if cfg.Distribution.RentExemptMinLamports != 100 {
		t.Fatalf("unexpected Distribution.RentExemptMinLamports: %d", cfg.Distribution.RentExemptMinLamports)
	}
	if cfg.Distribution.FundSol {
		t.Fatalf("expected fund_sol disabled")
	}
	if !cfg.Distribution.SellFromChildren {
		t.Fatalf("expected sell_from_children enabled")
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Fatalf("unexpected Retry.MaxAttempts: %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.Delay() != 250*time.Millisecond {
		t.Fatalf("unexpected Retry.Delay: %s", cfg.Retry.Delay())
	}
	if cfg.Stream.URL != "wss://stream.test" {
		t.Fatalf("unexpected Stream.URL: %s", cfg.Stream.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Config{}
	in.App.Name = "roundtrip"
	in.Retry.MaxAttempts = 7

	if err := Save(path, in); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if out.App.Name != "roundtrip" || out.Retry.MaxAttempts != 7 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
