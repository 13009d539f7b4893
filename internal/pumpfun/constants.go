// Package pumpfun speaks the pump.fun bonding-curve protocol: coin data over
// HTTP, trade instructions for the on-chain program, and the live trade stream.
package pumpfun

import (
	solana "github.com/gagliardetto/solana-go"
)

var (
	// ProgramID is the pump.fun bonding-curve program.
	ProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	// GlobalState holds protocol-wide configuration, first account of every trade.
	GlobalState = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	// FeeRecipient collects the protocol fee on every trade.
	FeeRecipient = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")
	// EventAuthority is the program's event CPI signer.
	EventAuthority = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHGqYoAJucyGFbA7ibAs3fpM")
)

// Anchor instruction discriminators, little-endian u64.
const (
	buyDiscriminator  uint64 = 16927863322537952870
	sellDiscriminator uint64 = 12502976635542562355
)
