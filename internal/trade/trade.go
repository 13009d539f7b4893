// Package trade orchestrates single buys and sells against the bonding curve.
package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"bumpbot-go/internal/curve"
	"bumpbot-go/internal/metrics"
	"bumpbot-go/internal/pumpfun"
)

// ErrNoTokenAccount means the trading wallet has no holding account for the
// mint. Creating one is the distributor's job; the trade path never creates
// accounts.
var ErrNoTokenAccount = errors.New("trade: token account does not exist")

// Mode selects the terminal step of a trade. It is fixed for a whole call.
type Mode string

const (
	// Execute submits the signed transaction and waits for confirmation.
	Execute Mode = "execute"
	// Simulate dry-runs against current ledger state without committing.
	Simulate Mode = "simulate"
)

// ParseMode maps a config string onto a Mode, defaulting to Simulate so a
// misconfigured run never spends by accident.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(Execute)) {
		return Execute
	}
	return Simulate
}

// MarketSource supplies fresh curve snapshots.
type MarketSource interface {
	CoinData(ctx context.Context, mint solana.PublicKey) (*pumpfun.CoinData, error)
}

// Ledger is the slice of the ledger client the trader needs.
type Ledger interface {
	AccountExists(ctx context.Context, account solana.PublicKey) (bool, error)
	AssociatedTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error)
	TokenBalance(ctx context.Context, owner, mint solana.PublicKey) (uint64, error)
	Submit(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, extraSigners ...solana.PrivateKey) (solana.Signature, error)
	Simulate(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, extraSigners ...solana.PrivateKey) ([]string, error)
}

// Outcome is the terminal state of one trade: a confirmed signature when
// executing, or the program logs when simulating.
type Outcome struct {
	Signature      solana.Signature
	SimulationLogs []string
}

// Trader runs the fetch → resolve → quote → build → submit pipeline.
type Trader struct {
	market      MarketSource
	ledger      Ledger
	slippageBps uint64
	mode        Mode
	log         zerolog.Logger
}

// NewTrader wires a trader; mode and slippage apply to every trade it runs.
func NewTrader(market MarketSource, ledger Ledger, slippageBps uint64, mode Mode, log zerolog.Logger) *Trader {
	return &Trader{market: market, ledger: ledger, slippageBps: slippageBps, mode: mode, log: log}
}

// Buy spends solInLamports on the curve. Failures below submit propagate
// unmodified so the caller's retry wrapper can classify them.
func (t *Trader) Buy(ctx context.Context, payer solana.PrivateKey, mint solana.PublicKey, solInLamports uint64) (*Outcome, error) {
	outcome, err := t.run(ctx, payer, mint, func(coin *pumpfun.CoinData, accts pumpfun.TradeAccounts) (solana.Instruction, error) {
		quote, err := curve.QuoteBuy(coin.VirtualSolReserves, coin.VirtualTokenReserves, solInLamports, t.slippageBps)
		if err != nil {
			return nil, err
		}
		t.log.Info().
			Uint64("sol_in", solInLamports).
			Uint64("token_out", quote.TokenOut).
			Uint64("max_sol_cost", quote.MaxSolCost).
			Msg("buy quoted")
		return pumpfun.BuyInstruction(accts, quote.TokenOut, quote.MaxSolCost), nil
	})
	t.count("buy", err)
	return outcome, err
}

// Sell swaps tokenAmount back into SOL on the curve.
func (t *Trader) Sell(ctx context.Context, payer solana.PrivateKey, mint solana.PublicKey, tokenAmount uint64) (*Outcome, error) {
	outcome, err := t.run(ctx, payer, mint, func(coin *pumpfun.CoinData, accts pumpfun.TradeAccounts) (solana.Instruction, error) {
		minSolOut, err := curve.QuoteSell(coin.VirtualSolReserves, coin.VirtualTokenReserves, tokenAmount, t.slippageBps)
		if err != nil {
			return nil, err
		}
		t.log.Info().
			Uint64("token_in", tokenAmount).
			Uint64("min_sol_out", minSolOut).
			Msg("sell quoted")
		return pumpfun.SellInstruction(accts, tokenAmount, minSolOut), nil
	})
	t.count("sell", err)
	return outcome, err
}

func (t *Trader) run(ctx context.Context, payer solana.PrivateKey, mint solana.PublicKey, build func(*pumpfun.CoinData, pumpfun.TradeAccounts) (solana.Instruction, error)) (*Outcome, error) {
	coin, err := t.market.CoinData(ctx, mint)
	if err != nil {
		return nil, err
	}

	owner := payer.PublicKey()
	tokenAccount, err := t.ledger.AssociatedTokenAccount(owner, mint)
	if err != nil {
		return nil, err
	}
	exists, err := t.ledger.AccountExists(ctx, tokenAccount)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoTokenAccount, tokenAccount)
	}

	instruction, err := build(coin, pumpfun.TradeAccounts{
		Mint:                   mint,
		BondingCurve:           coin.BondingCurve,
		AssociatedBondingCurve: coin.AssociatedBondingCurve,
		UserTokenAccount:       tokenAccount,
		Owner:                  owner,
	})
	if err != nil {
		return nil, err
	}

	if t.mode == Simulate {
		logs, err := t.ledger.Simulate(ctx, []solana.Instruction{instruction}, payer)
		if err != nil {
			return nil, err
		}
		return &Outcome{SimulationLogs: logs}, nil
	}

	sig, err := t.ledger.Submit(ctx, []solana.Instruction{instruction}, payer)
	if err != nil {
		return nil, err
	}
	return &Outcome{Signature: sig}, nil
}

func (t *Trader) count(side string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "err"
	}
	metrics.TradesTotal.WithLabelValues(side, string(t.mode), outcome).Inc()
}

// SellResult records the outcome of one child wallet's sell in SellAll.
type SellResult struct {
	Wallet  solana.PublicKey
	Outcome *Outcome
	Skipped bool // zero token balance, nothing to sell
	Err     error
}

// SellAll liquidates each wallet's full token balance back into the curve.
// Wallets with no balance are skipped; a failing wallet never aborts the rest.
func (t *Trader) SellAll(ctx context.Context, wallets []*solana.Wallet, mint solana.PublicKey) []SellResult {
	results := make([]SellResult, 0, len(wallets))
	for _, w := range wallets {
		owner := w.PublicKey()
		balance, err := t.ledger.TokenBalance(ctx, owner, mint)
		if err != nil {
			t.log.Error().Err(err).Str("wallet", owner.String()).Msg("token balance lookup failed")
			results = append(results, SellResult{Wallet: owner, Err: err})
			continue
		}
		if balance == 0 {
			t.log.Info().Str("wallet", owner.String()).Msg("no tokens to sell, skipping")
			results = append(results, SellResult{Wallet: owner, Skipped: true})
			continue
		}
		outcome, err := t.Sell(ctx, w.PrivateKey, mint, balance)
		if err != nil {
			t.log.Error().Err(err).Str("wallet", owner.String()).Msg("sell failed")
			results = append(results, SellResult{Wallet: owner, Err: err})
			continue
		}
		results = append(results, SellResult{Wallet: owner, Outcome: outcome})
	}
	return results
}
