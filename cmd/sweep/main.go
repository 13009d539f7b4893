// Binary sweep returns SOL from the child wallets to the funding wallet.
// Children below the rent-and-fee floor are skipped.
package main

import (
	"context"
	"os"

	solana "github.com/gagliardetto/solana-go"

	"bumpbot-go/internal/config"
	"bumpbot-go/internal/distribute"
	"bumpbot-go/internal/ledger"
	"bumpbot-go/internal/util"
	"bumpbot-go/internal/wallet"
)

func main() {
	cfg, err := config.Load(getEnv("BUMPBOT_CONFIG", "internal/config/config.yaml"))
	if err != nil {
		boot := util.NewLogger("info")
		boot.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	fundingKey, err := wallet.FundingKeyFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("funding wallet")
	}
	funding := &solana.Wallet{PrivateKey: fundingKey}

	children, err := wallet.NewPool(cfg.Distribution.WalletsPath).Load()
	if err != nil {
		log.Fatal().Err(err).Msg("child wallet pool")
	}
	if len(children) == 0 {
		log.Fatal().Str("path", cfg.Distribution.WalletsPath).Msg("no child wallets to sweep")
	}

	chain := ledger.New(getEnv("SOLANA_RPC_URL", cfg.Rpc.URL), cfg.Rpc.Commitment, cfg.Trade.PriorityFeeSol, util.Component(log, "ledger"))
	orch := distribute.NewOrchestrator(chain, cfg.Distribution.RentExemptMinLamports, util.Component(log, "distribute"))

	results := orch.SweepSOL(context.Background(), children, funding.PublicKey(), cfg.Distribution.SweepLamports)

	var ok, skipped, failed int
	for _, r := range results {
		switch r.Status {
		case distribute.StatusOK:
			ok++
		case distribute.StatusSkipped:
			skipped++
		default:
			failed++
		}
	}
	log.Info().Int("swept", ok).Int("skipped", skipped).Int("failed", failed).Msg("sweep complete")
	if failed > 0 {
		os.Exit(1)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
