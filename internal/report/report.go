// Package report reads and logs wallet balances around a run. Advisory only:
// nothing here mutates the ledger and nothing is retried.
package report

import (
	"context"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
)

// Ledger is the read-only slice of the ledger client the reporter needs.
type Ledger interface {
	SolBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	TokenBalance(ctx context.Context, owner, mint solana.PublicKey) (uint64, error)
}

// Balance pairs one wallet with its token and native holdings. A missing
// holding account reads as zero tokens.
type Balance struct {
	Wallet   solana.PublicKey
	Tokens   uint64
	Lamports uint64
}

// Snapshot is the funding wallet plus every child, in pool order.
type Snapshot struct {
	Funding  Balance
	Children []Balance
}

// Reporter queries balances and writes them to the log.
type Reporter struct {
	ledger Ledger
	log    zerolog.Logger
}

// NewReporter wires a reporter.
func NewReporter(ledger Ledger, log zerolog.Logger) *Reporter {
	return &Reporter{ledger: ledger, log: log}
}

// Snapshot reads every wallet's balances. Read failures propagate directly;
// there is no retry because reporting is not transactional.
func (r *Reporter) Snapshot(ctx context.Context, funding solana.PublicKey, children []solana.PublicKey, mint solana.PublicKey) (*Snapshot, error) {
	fundingBal, err := r.balance(ctx, funding, mint)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Funding: fundingBal, Children: make([]Balance, 0, len(children))}
	for _, child := range children {
		bal, err := r.balance(ctx, child, mint)
		if err != nil {
			return nil, err
		}
		snap.Children = append(snap.Children, bal)
	}
	return snap, nil
}

func (r *Reporter) balance(ctx context.Context, owner, mint solana.PublicKey) (Balance, error) {
	tokens, err := r.ledger.TokenBalance(ctx, owner, mint)
	if err != nil {
		return Balance{}, err
	}
	lamports, err := r.ledger.SolBalance(ctx, owner)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Wallet: owner, Tokens: tokens, Lamports: lamports}, nil
}

// Log writes a snapshot, one line per wallet.
func (r *Reporter) Log(stage string, snap *Snapshot) {
	r.log.Info().
		Str("stage", stage).
		Str("wallet", snap.Funding.Wallet.String()).
		Uint64("tokens", snap.Funding.Tokens).
		Uint64("lamports", snap.Funding.Lamports).
		Msg("funding balance")
	for _, child := range snap.Children {
		r.log.Info().
			Str("stage", stage).
			Str("wallet", child.Wallet.String()).
			Uint64("tokens", child.Tokens).
			Uint64("lamports", child.Lamports).
			Msg("child balance")
	}
}
