// Binary balances prints the funding and child wallet balances and exits.
package main

import (
	"context"
	"os"

	solana "github.com/gagliardetto/solana-go"

	"bumpbot-go/internal/config"
	"bumpbot-go/internal/ledger"
	"bumpbot-go/internal/report"
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

	children, err := wallet.NewPool(cfg.Distribution.WalletsPath).Load()
	if err != nil {
		log.Fatal().Err(err).Msg("child wallet pool")
	}

	mint, err := solana.PublicKeyFromBase58(cfg.Trade.Mint)
	if err != nil {
		log.Fatal().Err(err).Str("mint", cfg.Trade.Mint).Msg("bad mint")
	}

	chain := ledger.New(getEnv("SOLANA_RPC_URL", cfg.Rpc.URL), cfg.Rpc.Commitment, 0, util.Component(log, "ledger"))
	reporter := report.NewReporter(chain, util.Component(log, "report"))

	snap, err := reporter.Snapshot(context.Background(), fundingKey.PublicKey(), wallet.PublicKeys(children), mint)
	if err != nil {
		log.Fatal().Err(err).Msg("balance report")
	}
	reporter.Log("now", snap)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
