// Binary watch streams live bonding-curve trades for the configured mint.
package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"bumpbot-go/internal/config"
	"bumpbot-go/internal/ledger"
	"bumpbot-go/internal/metrics"
	"bumpbot-go/internal/pumpfun"
	"bumpbot-go/internal/util"
)

func main() {
	cfg, err := config.Load(getEnv("BUMPBOT_CONFIG", "internal/config/config.yaml"))
	if err != nil {
		boot := util.NewLogger("info")
		boot.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)

	mint, err := solana.PublicKeyFromBase58(cfg.Trade.Mint)
	if err != nil {
		log.Fatal().Err(err).Str("mint", cfg.Trade.Mint).Msg("bad mint")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logCurveState(ctx, cfg, mint, log)

	stream := pumpfun.NewStream(cfg.Stream.URL, mint, util.Component(log, "stream"))
	events := make(chan pumpfun.TradeEvent, 256)

	go func() {
		if err := stream.Run(ctx, events); err != nil {
			log.Error().Err(err).Msg("stream stopped")
			cancel()
		}
	}()

	log.Info().Str("mint", mint.String()).Msg("watching curve trades")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case ev := <-events:
			log.Info().
				Str("sig", ev.Signature).
				Str("side", ev.TxType).
				Float64("tokens", ev.TokenAmount).
				Float64("sol", ev.SolAmount).
				Str("trader", ev.TraderPubkey).
				Msg("curve trade")
		}
	}
}

// logCurveState cross-checks the HTTP coin data against the on-chain curve
// account before streaming. Best effort: a failure here only logs a warning.
func logCurveState(ctx context.Context, cfg *config.Config, mint solana.PublicKey, log zerolog.Logger) {
	market := pumpfun.NewMarketClient(cfg.Market.BaseURL, time.Duration(cfg.Market.TimeoutMs)*time.Millisecond)
	coin, err := market.CoinData(ctx, mint)
	if err != nil {
		log.Warn().Err(err).Msg("coin data unavailable")
		return
	}
	log.Info().
		Uint64("virtual_token_reserves", coin.VirtualTokenReserves).
		Uint64("virtual_sol_reserves", coin.VirtualSolReserves).
		Str("curve", coin.BondingCurve.String()).
		Msg("api curve snapshot")

	chain := ledger.New(getEnv("SOLANA_RPC_URL", cfg.Rpc.URL), cfg.Rpc.Commitment, 0, util.Component(log, "ledger"))
	data, err := chain.AccountData(ctx, coin.BondingCurve)
	if err != nil {
		log.Warn().Err(err).Msg("curve account fetch failed")
		return
	}
	state, err := pumpfun.DecodeBondingCurve(data)
	if err != nil {
		log.Warn().Err(err).Msg("curve account decode failed")
		return
	}
	log.Info().
		Uint64("virtual_token_reserves", state.VirtualTokenReserves).
		Uint64("virtual_sol_reserves", state.VirtualSolReserves).
		Bool("complete", state.Complete).
		Msg("on-chain curve snapshot")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
