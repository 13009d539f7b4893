// Package distribute fans token and SOL out from the funding wallet to the
// child pool, and sweeps SOL back. Every per-wallet failure is captured in the
// result list instead of aborting the run.
package distribute

import (
	"context"
	"errors"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/rs/zerolog"

	"bumpbot-go/internal/metrics"
)

// ErrInsufficientBalance aborts a fan-out before any transfer is attempted.
var ErrInsufficientBalance = errors.New("distribute: insufficient source balance")

// feeLamports is the flat per-signature network fee.
const feeLamports = 5000

// Status classifies one wallet's outcome.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
	// StatusSkipped marks a sweep source below the ledger's minimum-balance
	// floor. A deliberate no-op, not an error.
	StatusSkipped Status = "skipped"
)

// Result records one wallet's settlement, in pool order.
type Result struct {
	Wallet    solana.PublicKey
	Signature solana.Signature
	Status    Status
	Err       error
}

// Ledger is the slice of the ledger client the orchestrator needs.
type Ledger interface {
	SolBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	AccountExists(ctx context.Context, account solana.PublicKey) (bool, error)
	AssociatedTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error)
	Submit(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, extraSigners ...solana.PrivateKey) (solana.Signature, error)
}

// Orchestrator sequences transfers strictly one at a time: each settlement is
// its own signed transaction, and serial submission keeps one in-flight
// mutation per signing key so blockhashes are never raced.
type Orchestrator struct {
	ledger        Ledger
	rentExemptMin uint64
	log           zerolog.Logger
}

// NewOrchestrator wires the orchestrator; rentExemptMin is the ledger's
// minimum balance an account must keep to stay alive.
func NewOrchestrator(ledger Ledger, rentExemptMin uint64, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{ledger: ledger, rentExemptMin: rentExemptMin, log: log}
}

// DistributeToken sends amount of mint from source to every destination. The
// source holding account is resolved or created once up front; a destination
// holding account is created in the same transaction as its transfer on first
// use.
func (o *Orchestrator) DistributeToken(ctx context.Context, source *solana.Wallet, destinations []solana.PublicKey, mint solana.PublicKey, amount uint64) ([]Result, error) {
	sourceATA, err := o.ledger.AssociatedTokenAccount(source.PublicKey(), mint)
	if err != nil {
		return nil, err
	}
	exists, err := o.ledger.AccountExists(ctx, sourceATA)
	if err != nil {
		return nil, err
	}
	if !exists {
		create := associatedtokenaccount.NewCreateInstruction(source.PublicKey(), source.PublicKey(), mint).Build()
		if _, err := o.ledger.Submit(ctx, []solana.Instruction{create}, source.PrivateKey); err != nil {
			return nil, fmt.Errorf("create source token account %s: %w", sourceATA, err)
		}
	}

	results := make([]Result, 0, len(destinations))
	for _, dest := range destinations {
		result := o.transferTokenTo(ctx, source, sourceATA, dest, mint, amount)
		o.record("token", result)
		results = append(results, result)
	}
	return results, nil
}

func (o *Orchestrator) transferTokenTo(ctx context.Context, source *solana.Wallet, sourceATA, dest, mint solana.PublicKey, amount uint64) Result {
	destATA, err := o.ledger.AssociatedTokenAccount(dest, mint)
	if err != nil {
		return Result{Wallet: dest, Status: StatusFailed, Err: err}
	}
	exists, err := o.ledger.AccountExists(ctx, destATA)
	if err != nil {
		return Result{Wallet: dest, Status: StatusFailed, Err: err}
	}

	var instructions []solana.Instruction
	if !exists {
		o.log.Info().Str("wallet", dest.String()).Str("ata", destATA.String()).Msg("creating token account")
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(source.PublicKey(), dest, mint).Build())
	}
	instructions = append(instructions,
		token.NewTransferInstruction(amount, sourceATA, destATA, source.PublicKey(), nil).Build())

	sig, err := o.ledger.Submit(ctx, instructions, source.PrivateKey)
	if err != nil {
		o.log.Error().Err(err).Str("wallet", dest.String()).Msg("token transfer failed")
		return Result{Wallet: dest, Status: StatusFailed, Err: err}
	}
	o.log.Info().Str("wallet", dest.String()).Str("sig", sig.String()).Uint64("amount", amount).Msg("token transferred")
	return Result{Wallet: dest, Signature: sig, Status: StatusOK}
}

// FundSOL moves lamports from source to every destination so children can pay
// their own fees later. The source must cover every transfer plus fees before
// anything is submitted.
func (o *Orchestrator) FundSOL(ctx context.Context, source *solana.Wallet, destinations []solana.PublicKey, lamports uint64) ([]Result, error) {
	balance, err := o.ledger.SolBalance(ctx, source.PublicKey())
	if err != nil {
		return nil, err
	}
	need := (lamports + feeLamports) * uint64(len(destinations))
	if balance < need {
		return nil, fmt.Errorf("%w: have %d lamports, need %d", ErrInsufficientBalance, balance, need)
	}

	results := make([]Result, 0, len(destinations))
	for _, dest := range destinations {
		instruction := system.NewTransferInstruction(lamports, source.PublicKey(), dest).Build()
		sig, err := o.ledger.Submit(ctx, []solana.Instruction{instruction}, source.PrivateKey)
		result := Result{Wallet: dest, Signature: sig, Status: StatusOK}
		if err != nil {
			o.log.Error().Err(err).Str("wallet", dest.String()).Msg("sol funding failed")
			result = Result{Wallet: dest, Status: StatusFailed, Err: err}
		} else {
			o.log.Info().Str("wallet", dest.String()).Str("sig", sig.String()).Uint64("lamports", lamports).Msg("sol funded")
		}
		o.record("sol_fund", result)
		results = append(results, result)
	}
	return results, nil
}

// SweepSOL returns lamports from each child back to dest. A child whose
// balance cannot cover the transfer, the fee, and the rent-exempt floor is
// skipped, not failed; the boundary is inclusive of the transfer.
func (o *Orchestrator) SweepSOL(ctx context.Context, sources []*solana.Wallet, dest solana.PublicKey, lamports uint64) []Result {
	threshold := lamports + feeLamports + o.rentExemptMin

	results := make([]Result, 0, len(sources))
	for _, child := range sources {
		owner := child.PublicKey()
		balance, err := o.ledger.SolBalance(ctx, owner)
		if err != nil {
			result := Result{Wallet: owner, Status: StatusFailed, Err: err}
			o.record("sol_sweep", result)
			results = append(results, result)
			continue
		}
		if balance < threshold {
			o.log.Info().Str("wallet", owner.String()).Uint64("balance", balance).Uint64("threshold", threshold).Msg("below sweep floor, skipping")
			result := Result{Wallet: owner, Status: StatusSkipped}
			o.record("sol_sweep", result)
			results = append(results, result)
			continue
		}

		instruction := system.NewTransferInstruction(lamports, owner, dest).Build()
		sig, err := o.ledger.Submit(ctx, []solana.Instruction{instruction}, child.PrivateKey)
		result := Result{Wallet: owner, Signature: sig, Status: StatusOK}
		if err != nil {
			o.log.Error().Err(err).Str("wallet", owner.String()).Msg("sweep failed")
			result = Result{Wallet: owner, Status: StatusFailed, Err: err}
		}
		o.record("sol_sweep", result)
		results = append(results, result)
	}
	return results
}

func (o *Orchestrator) record(kind string, r Result) {
	metrics.TransfersTotal.WithLabelValues(kind, string(r.Status)).Inc()
}

// Failed filters a result list down to the wallets needing a re-run.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}
