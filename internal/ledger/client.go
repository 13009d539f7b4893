// Package ledger wraps the Solana RPC client with the transaction assembly,
// signing, and confirmation plumbing every mutating operation shares.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	solana "github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
)

const (
	computeUnitLimit = 1_000_000
	confirmTimeout   = 45 * time.Second
	confirmPoll      = 500 * time.Millisecond
)

// Client is the single connection surface to the ledger. Construct one per run
// and pass it into component constructors; no process-wide singleton.
type Client struct {
	rpc              *rpc.Client
	commitment       rpc.CommitmentType
	priorityFeeMicro uint64
	log              zerolog.Logger
}

// New dials rpcURL with the given commitment. priorityFeeSol, when nonzero, is
// converted to micro-lamport compute-unit pricing and attached ahead of the
// main instruction on every submitted transaction.
func New(rpcURL, commitment string, priorityFeeSol float64, log zerolog.Logger) *Client {
	c := rpc.CommitmentConfirmed
	switch commitment {
	case "processed":
		c = rpc.CommitmentProcessed
	case "finalized":
		c = rpc.CommitmentFinalized
	}
	return &Client{
		rpc:              rpc.New(rpcURL),
		commitment:       c,
		priorityFeeMicro: uint64(priorityFeeSol * float64(solana.LAMPORTS_PER_SOL)),
		log:              log,
	}
}

// Commitment exposes the configured commitment level.
func (c *Client) Commitment() rpc.CommitmentType { return c.commitment }

// assemble prepends the compute-budget instructions: unit limit always, unit
// price only when a priority fee is configured.
func (c *Client) assemble(instructions []solana.Instruction) []solana.Instruction {
	out := make([]solana.Instruction, 0, len(instructions)+2)
	out = append(out, computebudget.NewSetComputeUnitLimitInstruction(computeUnitLimit).Build())
	if c.priorityFeeMicro > 0 {
		out = append(out, computebudget.NewSetComputeUnitPriceInstruction(c.priorityFeeMicro).Build())
	}
	return append(out, instructions...)
}

func (c *Client) buildSigned(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, extraSigners []solana.PrivateKey) (*solana.Transaction, error) {
	recent, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return nil, fmt.Errorf("latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		c.assemble(instructions),
		recent.Value.Blockhash,
		solana.TransactionPayer(payer.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("build tx: %w", err)
	}

	signers := append([]solana.PrivateKey{payer}, extraSigners...)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if key.Equals(signers[i].PublicKey()) {
				return &signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return tx, nil
}

// Submit signs and sends the instructions as one transaction paid by payer,
// then waits for the network to confirm it.
func (c *Client) Submit(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, extraSigners ...solana.PrivateKey) (solana.Signature, error) {
	tx, err := c.buildSigned(ctx, instructions, payer, extraSigners)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send tx: %w", err)
	}

	if err := c.confirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (c *Client) confirm(ctx context.Context, sig solana.Signature) error {
	deadline := time.Now().Add(confirmTimeout)
	for time.Now().Before(deadline) {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err == nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("tx %s failed on chain: %v", sig, status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(confirmPoll):
		}
	}
	return fmt.Errorf("tx %s not confirmed within %s", sig, confirmTimeout)
}

// Simulate dry-runs the instructions against current ledger state and returns
// the program logs without committing anything.
func (c *Client) Simulate(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, extraSigners ...solana.PrivateKey) ([]string, error) {
	tx, err := c.buildSigned(ctx, instructions, payer, extraSigners)
	if err != nil {
		return nil, err
	}
	resp, err := c.rpc.SimulateTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("simulate tx: %w", err)
	}
	if resp.Value.Err != nil {
		return resp.Value.Logs, fmt.Errorf("simulation failed: %v", resp.Value.Err)
	}
	return resp.Value.Logs, nil
}

// SolBalance returns the native balance in lamports.
func (c *Client) SolBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("get balance %s: %w", account, err)
	}
	return out.Value, nil
}

// AccountExists reports whether the account has been created on the ledger.
func (c *Client) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	_, err := c.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get account info %s: %w", account, err)
	}
	return true, nil
}

// AccountData returns an account's raw data bytes for program-specific decoding.
func (c *Client) AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	out, err := c.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("get account info %s: %w", account, err)
	}
	return out.Value.Data.GetBinary(), nil
}

// AssociatedTokenAccount derives the holding account for owner and mint.
func (c *Client) AssociatedTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive ata for %s: %w", owner, err)
	}
	return ata, nil
}

// TokenBalance returns the owner's holding-account balance in base units. A
// missing holding account reads as zero; absence is the zero state, not an error.
func (c *Client) TokenBalance(ctx context.Context, owner, mint solana.PublicKey) (uint64, error) {
	ata, err := c.AssociatedTokenAccount(owner, mint)
	if err != nil {
		return 0, err
	}
	exists, err := c.AccountExists(ctx, ata)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	out, err := c.rpc.GetTokenAccountBalance(ctx, ata, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("get token balance %s: %w", ata, err)
	}
	amount, err := strconv.ParseUint(out.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token amount %q: %w", out.Value.Amount, err)
	}
	return amount, nil
}
