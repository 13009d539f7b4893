// Binary bumpbot runs the full sequence against one mint: report balances,
// buy from the bonding curve, distribute token and SOL to the child pool,
// optionally sell from the children, then report again.
package main

import (
	"context"
	"os"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"bumpbot-go/internal/config"
	"bumpbot-go/internal/distribute"
	"bumpbot-go/internal/ledger"
	"bumpbot-go/internal/metrics"
	"bumpbot-go/internal/pumpfun"
	"bumpbot-go/internal/report"
	"bumpbot-go/internal/retry"
	"bumpbot-go/internal/trade"
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

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	fundingKey, err := wallet.FundingKeyFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("funding wallet")
	}
	funding := &solana.Wallet{PrivateKey: fundingKey}

	pool := wallet.NewPool(cfg.Distribution.WalletsPath)
	children, err := pool.Ensure(cfg.Distribution.WalletCount)
	if err != nil {
		log.Fatal().Err(err).Msg("child wallet pool")
	}
	if len(children) == 0 {
		log.Fatal().Msg("child wallet pool is empty; set distribution.wallet_count")
	}
	childKeys := wallet.PublicKeys(children)

	mint, err := solana.PublicKeyFromBase58(cfg.Trade.Mint)
	if err != nil {
		log.Fatal().Err(err).Str("mint", cfg.Trade.Mint).Msg("bad mint")
	}

	chain := ledger.New(getEnv("SOLANA_RPC_URL", cfg.Rpc.URL), cfg.Rpc.Commitment, cfg.Trade.PriorityFeeSol, util.Component(log, "ledger"))
	market := pumpfun.NewMarketClient(cfg.Market.BaseURL, time.Duration(cfg.Market.TimeoutMs)*time.Millisecond)
	mode := trade.ParseMode(cfg.Trade.Mode)
	trader := trade.NewTrader(market, chain, cfg.Trade.SlippageBps, mode, util.Component(log, "trade"))
	orch := distribute.NewOrchestrator(chain, cfg.Distribution.RentExemptMinLamports, util.Component(log, "distribute"))
	reporter := report.NewReporter(chain, util.Component(log, "report"))

	retryCfg := retry.Config{MaxAttempts: cfg.Retry.MaxAttempts, Delay: cfg.Retry.Delay()}
	ctx := context.Background()

	if snap, err := reporter.Snapshot(ctx, funding.PublicKey(), childKeys, mint); err != nil {
		log.Warn().Err(err).Msg("pre-run balance report failed")
	} else {
		reporter.Log("before", snap)
	}

	outcome, err := retry.Do(retryCfg, retryReporter(log, "buy"), func() (*trade.Outcome, error) {
		return trader.Buy(ctx, funding.PrivateKey, mint, cfg.Trade.SolInLamports)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("buy failed")
	}
	logOutcome(log, "buy", mode, outcome)

	if cfg.Distribution.DistributeToken && mode == trade.Execute {
		amount := cfg.Distribution.TokenAmount
		if amount == 0 {
			// Default split: the funding wallet's balance divided evenly.
			held, err := chain.TokenBalance(ctx, funding.PublicKey(), mint)
			if err != nil {
				log.Fatal().Err(err).Msg("funding token balance")
			}
			amount = held / uint64(len(children))
		}
		if amount == 0 {
			log.Warn().Msg("nothing to distribute")
		} else {
			results, err := orch.DistributeToken(ctx, funding, childKeys, mint, amount)
			if err != nil {
				log.Fatal().Err(err).Msg("token distribution aborted")
			}
			logResults(log, "distribute_token", results)
		}
	}

	if cfg.Distribution.FundSol && mode == trade.Execute {
		results, err := orch.FundSOL(ctx, funding, childKeys, cfg.Distribution.FundLamports)
		if err != nil {
			log.Fatal().Err(err).Msg("sol funding aborted")
		}
		logResults(log, "fund_sol", results)
	}

	// Children can only pay sell fees after FundSol has run, so selling stays
	// behind its own switch.
	if cfg.Distribution.SellFromChildren && mode == trade.Execute {
		for _, r := range trader.SellAll(ctx, children, mint) {
			event := log.Info()
			if r.Err != nil {
				event = log.Error().Err(r.Err)
			}
			event.Str("stage", "sell_children").Str("wallet", r.Wallet.String()).Bool("skipped", r.Skipped).Msg("child sell")
		}
	}

	if snap, err := reporter.Snapshot(ctx, funding.PublicKey(), childKeys, mint); err != nil {
		log.Warn().Err(err).Msg("post-run balance report failed")
	} else {
		reporter.Log("after", snap)
	}
	log.Info().Msg("run complete")
}

func retryReporter(log zerolog.Logger, op string) func(int, error) {
	return func(attempt int, err error) {
		metrics.RetryAttemptsTotal.WithLabelValues(op).Inc()
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("attempt failed, will retry")
	}
}

func logOutcome(log zerolog.Logger, stage string, mode trade.Mode, outcome *trade.Outcome) {
	if mode == trade.Simulate {
		log.Info().Str("stage", stage).Strs("logs", outcome.SimulationLogs).Msg("simulated")
		return
	}
	log.Info().Str("stage", stage).Str("sig", outcome.Signature.String()).Msg("confirmed")
}

func logResults(log zerolog.Logger, stage string, results []distribute.Result) {
	for _, r := range results {
		event := log.Info()
		if r.Err != nil {
			event = log.Error().Err(r.Err)
		}
		event.Str("stage", stage).Str("wallet", r.Wallet.String()).Str("status", string(r.Status)).Str("sig", r.Signature.String()).Msg("transfer")
	}
	if failed := distribute.Failed(results); len(failed) > 0 {
		log.Warn().Str("stage", stage).Int("failed", len(failed)).Msg("some wallets need a re-run")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
